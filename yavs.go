package yavs

import (
	"bytes"
	"context"
	"io"
	"math"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/yavs/blobstore"
	"github.com/hupe1980/yavs/distance"
	"github.com/hupe1980/yavs/persistence"
)

// Store is an in-memory collection of records with a fixed embedding
// dimensionality. It is created empty via New or by decoding an existing
// byte stream, mutated in-process, and persisted explicitly.
//
// A Store is not safe for concurrent use; see the package documentation.
type Store struct {
	dim     uint32
	records []Record

	// tombstones holds the positions of soft-deleted records. Positions
	// are only invalidated by Compact, which rebuilds the record slice
	// and clears the bitmap.
	tombstones *roaring.Bitmap

	logger  *Logger
	metrics MetricsCollector
	idGen   IDGenerator
}

// New creates an empty Store with the given dimensionality.
// dim is immutable for the life of the instance; dim 0 is valid and stores
// records with empty embeddings.
func New(dim uint32, optFns ...Option) *Store {
	o := applyOptions(optFns)
	return &Store{
		dim:        dim,
		tombstones: roaring.New(),
		logger:     o.logger,
		metrics:    o.metricsCollector,
		idGen:      o.idGenerator,
	}
}

// Decode reads a YAVS stream from r and returns the Store it describes.
// It fails with ErrInvalidFile on a bad magic, ErrVersionMismatch on an
// unsupported version, and propagates I/O errors (including short reads)
// as-is. All decoded records start live; persisted streams never contain
// tombstones.
func Decode(r io.Reader, optFns ...Option) (*Store, error) {
	br := persistence.NewReader(r)

	h, err := br.ReadHeader()
	if err != nil {
		return nil, err
	}

	s := New(h.Dimension, optFns...)

	prealloc := h.RecordCount
	if prealloc > 1<<20 {
		prealloc = 1 << 20
	}
	s.records = make([]Record, 0, prealloc)

	for i := uint64(0); i < h.RecordCount; i++ {
		id, err := br.ReadID()
		if err != nil {
			return nil, err
		}
		embedding, err := br.ReadFloat32Slice(int(h.Dimension))
		if err != nil {
			return nil, err
		}
		metadata, err := br.ReadBytes()
		if err != nil {
			return nil, err
		}
		s.records = append(s.records, Record{
			ID:        id,
			Embedding: embedding,
			Metadata:  metadata,
		})
	}

	return s, nil
}

// FromBytes decodes a Store from an in-memory buffer.
// The buffer format is byte-identical to the file format.
func FromBytes(b []byte, optFns ...Option) (*Store, error) {
	return Decode(bytes.NewReader(b), optFns...)
}

// LoadFile decodes a Store from the file at path.
func LoadFile(path string, optFns ...Option) (*Store, error) {
	var s *Store
	err := persistence.LoadFromFile(path, func(r io.Reader) error {
		var derr error
		s, derr = Decode(r, optFns...)
		return derr
	})
	if err != nil {
		return nil, err
	}
	s.logger.LogLoad(path, len(s.records), nil)
	return s, nil
}

// CreateFile writes an empty store file with the given dimensionality,
// without constructing a Store.
func CreateFile(path string, dim uint32) error {
	return persistence.SaveToFile(path, func(w io.Writer) error {
		bw := persistence.NewWriter(w)
		return bw.WriteHeader(&persistence.Header{RecordCount: 0, Dimension: dim})
	})
}

// ReadHeader reads and validates just the stream header from r, without
// decoding any records. Useful for probing record count and dimensionality.
func ReadHeader(r io.Reader) (*persistence.Header, error) {
	return persistence.NewReader(r).ReadHeader()
}

// Dimension returns the fixed embedding dimensionality of the store.
func (s *Store) Dimension() uint32 {
	return s.dim
}

// Len returns the number of live (non-deleted) records.
func (s *Store) Len() int {
	return len(s.records) - int(s.tombstones.GetCardinality())
}

// Insert validates the embedding length against the store dimensionality,
// generates a fresh 16-byte id, and appends a live record. On a dimension
// mismatch it fails with *ErrDimensionMismatch and the store is left
// unmodified. The embedding and metadata are copied; the caller keeps
// ownership of its slices.
func (s *Store) Insert(embedding []float32, metadata []byte) (ID, error) {
	start := time.Now()
	id, err := s.insert(embedding, metadata)
	s.metrics.RecordInsert(time.Since(start), err)
	s.logger.LogInsert(id, len(embedding), err)
	return id, err
}

func (s *Store) insert(embedding []float32, metadata []byte) (ID, error) {
	if uint64(len(embedding)) != uint64(s.dim) {
		return ID{}, &ErrDimensionMismatch{Expected: s.dim, Actual: len(embedding)}
	}
	if uint64(len(metadata)) > math.MaxUint32 {
		return ID{}, ErrMetadataTooLarge
	}

	id, err := s.idGen()
	if err != nil {
		return ID{}, err
	}

	s.records = append(s.records, Record{
		ID:        id,
		Embedding: slices.Clone(embedding),
		Metadata:  slices.Clone(metadata),
	})
	return id, nil
}

// Remove marks the first record with the given id as deleted and reports
// whether a match was found. The record stays in memory until Compact runs;
// it is immediately invisible to Query.
func (s *Store) Remove(id ID) bool {
	start := time.Now()
	found := false
	for i := range s.records {
		if s.records[i].ID == id {
			s.tombstones.Add(uint32(i))
			found = true
			break
		}
	}
	s.metrics.RecordRemove(time.Since(start), found)
	s.logger.LogRemove(id, found)
	return found
}

// Compact physically drops every tombstoned record, preserving the relative
// order of the survivors. Compacting a store with no tombstones is a no-op.
func (s *Store) Compact() {
	start := time.Now()
	dropped := int(s.tombstones.GetCardinality())
	if dropped == 0 {
		return
	}

	kept := s.records[:0]
	for i := range s.records {
		if s.tombstones.Contains(uint32(i)) {
			continue
		}
		kept = append(kept, s.records[i])
	}
	// Release the dropped tail so the embeddings become collectible.
	for i := len(kept); i < len(s.records); i++ {
		s.records[i] = Record{}
	}
	s.records = kept
	s.tombstones.Clear()

	s.metrics.RecordCompact(dropped, time.Since(start))
	s.logger.LogCompact(dropped, len(s.records))
}

// Query computes the exact Euclidean distance from embedding to every live
// record and returns the k nearest, sorted by ascending distance. Equal
// distances keep insertion order (stable sort). Fails with
// *ErrDimensionMismatch if the query length differs from the store
// dimensionality. k <= 0 yields an empty result; k larger than the live
// record count yields all live records.
func (s *Store) Query(embedding []float32, k int) ([]SearchResult, error) {
	start := time.Now()
	results, err := s.query(embedding, k)
	s.metrics.RecordQuery(k, time.Since(start), err)
	s.logger.LogQuery(k, len(results), err)
	return results, err
}

func (s *Store) query(embedding []float32, k int) ([]SearchResult, error) {
	if uint64(len(embedding)) != uint64(s.dim) {
		return nil, &ErrDimensionMismatch{Expected: s.dim, Actual: len(embedding)}
	}
	if k <= 0 {
		return nil, nil
	}

	results := make([]SearchResult, 0, s.Len())
	for i := range s.records {
		if s.tombstones.Contains(uint32(i)) {
			continue
		}
		rec := &s.records[i]
		results = append(results, SearchResult{
			ID:       rec.ID,
			Distance: distance.L2(rec.Embedding, embedding),
		})
	}

	slices.SortStableFunc(results, func(a, b SearchResult) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})

	if k < len(results) {
		results = results[:k:k]
	}
	return results, nil
}

// Encode compacts the store and writes it to w. Saving is therefore not a
// read-only operation: tombstoned records are irreversibly dropped from
// memory so the stream never contains them. The byte output is identical
// for every destination type.
func (s *Store) Encode(w io.Writer) error {
	s.Compact()

	bw := persistence.NewWriter(w)
	if err := bw.WriteHeader(&persistence.Header{
		RecordCount: uint64(len(s.records)),
		Dimension:   s.dim,
	}); err != nil {
		return err
	}

	for i := range s.records {
		rec := &s.records[i]
		if err := bw.WriteID(rec.ID); err != nil {
			return err
		}
		if err := bw.WriteFloat32Slice(rec.Embedding); err != nil {
			return err
		}
		if err := bw.WriteBytes(rec.Metadata); err != nil {
			return err
		}
	}
	return nil
}

// Bytes encodes the store into a fresh in-memory buffer. Like every save
// path it compacts first.
func (s *Store) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveFile encodes the store to the file at path, writing to a temp file
// and renaming on success so a crash mid-write never leaves a truncated
// store behind.
func (s *Store) SaveFile(path string) error {
	start := time.Now()
	err := persistence.SaveToFile(path, s.Encode)
	s.metrics.RecordSave(len(s.records), time.Since(start), err)
	s.logger.LogSave(path, len(s.records), err)
	return err
}

// SaveToBlobStore encodes the store and writes it as a single blob.
// Blob stores put objects atomically, so this matches the temp-and-rename
// guarantee of SaveFile.
func (s *Store) SaveToBlobStore(ctx context.Context, bs blobstore.BlobStore, name string) error {
	start := time.Now()
	data, err := s.Bytes()
	if err == nil {
		err = bs.Put(ctx, name, data)
	}
	s.metrics.RecordSave(len(s.records), time.Since(start), err)
	s.logger.LogSave(name, len(s.records), err)
	return err
}

// LoadFromBlobStore decodes a Store from a blob previously written with
// SaveToBlobStore (or any byte-identical YAVS stream).
func LoadFromBlobStore(ctx context.Context, bs blobstore.BlobStore, name string, optFns ...Option) (*Store, error) {
	blob, err := bs.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	s, err := Decode(io.NewSectionReader(blob, 0, blob.Size()), optFns...)
	if err != nil {
		return nil, err
	}
	s.logger.LogLoad(name, len(s.records), nil)
	return s, nil
}
