// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so features can be
// tested against the mock in core/storage/mocks. Both AWS S3 and self-hosted
// MinIO endpoints work.
//
// The converter uses it to archive rendered QR images (see feature/gallery).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	ok, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
