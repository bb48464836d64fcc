// Package yavs provides an embeddable, single-file vector record store.
//
// YAVS ("yet another vector store") persists fixed-dimensionality float32
// embeddings together with opaque metadata blobs and 16-byte identifiers,
// and answers exact k-nearest-neighbor queries by Euclidean distance over a
// full scan of the live records. It is a library, not a server: a Store is
// owned by one caller at a time and every operation runs synchronously on
// the caller's goroutine.
//
// # Quick Start
//
//	store := yavs.New(128)
//	id, _ := store.Insert(embedding, []byte(`{"title":"doc"}`))
//
//	results, _ := store.Query(query, 10)
//	for _, r := range results {
//	    fmt.Println(r.ID, r.Distance)
//	}
//
//	_ = store.SaveFile("vectors.yavs") // compacts, then writes atomically
//	store, _ = yavs.LoadFile("vectors.yavs")
//
// # Persistence
//
// The on-disk format is a fixed little-endian header (magic "YAVS",
// version, record count, dimension) followed by the record entries, with no
// padding and no trailing data. The same codec serves every byte sink:
// files, in-memory buffers (Bytes/FromBytes) and blob stores
// (S3/MinIO/local via the blobstore package) all carry identical bytes.
//
// # Deletes and Compaction
//
// Remove only marks a record as deleted; tombstoned records are invisible
// to queries but stay in memory until Compact physically drops them. Every
// save path compacts first, so persisted streams never contain tombstones.
//
// # Concurrency
//
// A Store is not safe for concurrent use. Callers embedding it in a
// multi-goroutine environment must serialize access externally, e.g. with
// one mutex per Store held for the duration of each operation.
package yavs
