// Package storage archives raw document sources in S3-compatible object
// storage so the original bytes survive re-extraction and re-analysis.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds S3/MinIO client configuration.
type Config struct {
	Endpoint        string // "localhost:9000" for MinIO
	Bucket          string // "docsense"
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// Client wraps the MinIO/S3 client for source archival.
type Client struct {
	minioClient *minio.Client
	bucket      string
}

// New creates a new S3/MinIO client.
func New(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if config.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	minioClient, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Client{
		minioClient: minioClient,
		bucket:      config.Bucket,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.minioClient.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	err = c.minioClient.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// SourceMetadata describes an archived source object.
type SourceMetadata struct {
	DocumentID  string `json:"document_id"`
	SourceURL   string `json:"source_url"`
	ContentType string `json:"content_type"`
	RetrievedAt string `json:"retrieved_at"`
	Bytes       int    `json:"bytes"`
}

// PutSource archives the raw bytes of a document source.
func (c *Client) PutSource(ctx context.Context, documentID, contentType string, data []byte) error {
	if documentID == "" {
		return fmt.Errorf("document id is required")
	}
	objectName := sourceObject(documentID)

	_, err := c.minioClient.PutObject(ctx, c.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put source: %w", err)
	}
	return nil
}

// PutMetadata writes the source metadata JSON next to the archived bytes.
func (c *Client) PutMetadata(ctx context.Context, documentID string, meta SourceMetadata) error {
	if documentID == "" {
		return fmt.Errorf("document id is required")
	}
	objectName := metadataObject(documentID)

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = c.minioClient.PutObject(ctx, c.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to put metadata: %w", err)
	}
	return nil
}

// GetSource reads the archived raw bytes for a document.
func (c *Client) GetSource(ctx context.Context, documentID string) ([]byte, error) {
	if documentID == "" {
		return nil, fmt.Errorf("document id is required")
	}
	objectName := sourceObject(documentID)

	object, err := c.minioClient.GetObject(ctx, c.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return data, nil
}

// GetMetadata reads the archived source metadata for a document.
func (c *Client) GetMetadata(ctx context.Context, documentID string) (*SourceMetadata, error) {
	if documentID == "" {
		return nil, fmt.Errorf("document id is required")
	}
	objectName := metadataObject(documentID)

	object, err := c.minioClient.GetObject(ctx, c.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var meta SourceMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return &meta, nil
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

func sourceObject(documentID string) string {
	return path.Join("sources", documentID, "source")
}

func metadataObject(documentID string) string {
	return path.Join("sources", documentID, "metadata.json")
}
