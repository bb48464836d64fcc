// Package s3 provides an Amazon S3 implementation of the
// blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("stores/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	db, err := yavs.LoadFromBlobStore(ctx, store, "records.yavs")
//
// # Features
//
//   - Range reads, so decoding never downloads more than it needs
//   - Streaming multipart uploads for large stores
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
