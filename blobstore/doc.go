// Package blobstore abstracts where dataset and factor definition files
// live: local filesystem, in-memory (tests), or object storage.
//
// The root package reads and writes files exclusively through a Store, so
// the same ingestion/export code serves local workflows and cloud pipelines:
//
//	store := blobstore.NewLocalStore("./data")
//	ds, err := survgo.FromFile(ctx, "meta.tsv", survgo.WithBlobStore(store))
//
// Object-storage backends live in the s3 and minio subpackages.
package blobstore
