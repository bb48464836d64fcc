package yavs

import "encoding/hex"

// IDSize is the fixed byte length of record identifiers.
const IDSize = 16

// ID is the stable 16-byte identifier of a record. IDs are generated at
// insert time (UUID v4 by default) and treated as unique with overwhelming
// probability; no on-write uniqueness check is performed.
type ID [IDSize]byte

// String returns the hex representation of the ID.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Record is one stored vector together with its identifier and opaque
// metadata. The engine never interprets metadata bytes.
type Record struct {
	ID        ID
	Embedding []float32
	Metadata  []byte
}

// SearchResult is a single query match.
type SearchResult struct {
	ID       ID
	Distance float32
}
