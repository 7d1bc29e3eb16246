/*
Package storage provides presigned-URL access to S3-compatible object
storage for message attachments. The server never streams file bodies;
clients upload and download directly against the presigned URLs.
*/
package storage

import (
	"context"
	"time"
)

// PresignedURLDuration is how long a generated URL stays valid.
const PresignedURLDuration = 5 * time.Minute

// ServiceConfig holds the credentials and endpoint for the bucket.
type ServiceConfig struct {
	BucketName      string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Service is the attachment storage contract.
type Service interface {
	// PresignUpload returns a time-limited URL for uploading a file to key.
	PresignUpload(ctx context.Context, key, mimeType string, fileSize int64, duration time.Duration) (string, error)

	// PresignDownload returns a time-limited URL for fetching key.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error
}

// NewService returns the S3-backed implementation.
func NewService(cfg ServiceConfig) (Service, error) {
	return newS3Client(cfg)
}
