package persistence

import "errors"

const (
	// Magic identifies YAVS streams (ASCII "YAVS").
	Magic = "YAVS"
	// Version is the only supported file format version.
	Version = 1

	// IDSize is the byte length of a record identifier.
	IDSize = 16
	// ReservedSize is the zero-filled block at the end of the header.
	ReservedSize = 16
	// HeaderSize is the total fixed header length in bytes.
	HeaderSize = 4 + 4 + 8 + 4 + ReservedSize
)

var (
	ErrInvalidMagic   = errors.New("not a valid YAVS file")
	ErrInvalidVersion = errors.New("version mismatch")
)

// Header describes the variable fields of the fixed YAVS stream header.
// Magic, version and the reserved block are handled by the codec itself.
type Header struct {
	RecordCount uint64 // number of record entries that follow
	Dimension   uint32 // embedding length for every record in the stream
}
