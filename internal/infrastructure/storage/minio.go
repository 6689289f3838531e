package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// TranscriptArchive stores raw bot transcript payloads in a private MinIO bucket
type TranscriptArchive struct {
	client *minio.Client
	bucket string
}

// NewTranscriptArchive creates a MinIO-backed archive and ensures the bucket exists
func NewTranscriptArchive(ctx context.Context, cfg config.StorageConfig) (*TranscriptArchive, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	archive := &TranscriptArchive{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	if err := archive.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return archive, nil
}

func (a *TranscriptArchive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// TranscriptObjectName is the object key for a meeting's raw transcript
func TranscriptObjectName(meetingID uuid.UUID) string {
	return fmt.Sprintf("meetings/%s/transcript.json", meetingID)
}

// ArchiveTranscript uploads the raw segment JSON and returns the object key
func (a *TranscriptArchive) ArchiveTranscript(ctx context.Context, meetingID uuid.UUID, raw []byte) (string, error) {
	objectName := TranscriptObjectName(meetingID)
	_, err := a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload transcript: %w", err)
	}
	return objectName, nil
}

// TranscriptURL returns a presigned download URL for a meeting's archived transcript
func (a *TranscriptArchive) TranscriptURL(ctx context.Context, meetingID uuid.UUID, expiry time.Duration) (string, error) {
	url, err := a.client.PresignedGetObject(ctx, a.bucket, TranscriptObjectName(meetingID), expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url.String(), nil
}
