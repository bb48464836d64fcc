package yavs

import (
	"errors"
	"fmt"

	"github.com/hupe1980/yavs/persistence"
)

var (
	// ErrInvalidFile is returned when a byte stream does not begin with
	// the YAVS magic. Alias of persistence.ErrInvalidMagic.
	ErrInvalidFile = persistence.ErrInvalidMagic

	// ErrVersionMismatch is returned when the magic is valid but the
	// format version is unsupported. Alias of persistence.ErrInvalidVersion.
	ErrVersionMismatch = persistence.ErrInvalidVersion

	// ErrMetadataTooLarge is returned when a metadata blob cannot be
	// length-prefixed with a u32 in the stream format.
	ErrMetadataTooLarge = errors.New("metadata exceeds 4 GiB limit")
)

// ErrDimensionMismatch indicates an embedding/query dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected uint32
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }
