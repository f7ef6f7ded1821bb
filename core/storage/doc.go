// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client (S3 compatible) behind the Client interface, which
// is mocked in core/storage/mocks for unit tests. The recipes feature uses it to
// archive uploaded CSV batches and the JSON report of every bulk update, and the
// CLI can read a CSV batch straight from the bucket.
//
// # Helpers
//
//   - EnsureBucket: creates the bucket on first use.
//   - PutBytes: uploads an in-memory payload with a content type.
//   - ReadAll: downloads an object into memory.
//   - ListKeys: lists object keys under a prefix.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.PutBytes(ctx, client, cfg.Storage.Bucket, "reports/x.json", data, "application/json")
package storage
