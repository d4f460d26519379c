package filestore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore keeps blobs in two buckets of an S3-compatible service.
// Object puts are atomic on the server side, so no extra write-complete
// signalling is needed.
type ObjectStore struct {
	client          *minio.Client
	uploadBucket    string
	processedBucket string
}

type ObjectStoreOptions struct {
	Endpoint        string
	AccessKey       string
	SecretKey       string
	UseSSL          bool
	UploadBucket    string
	ProcessedBucket string
}

func NewObjectStore(ctx context.Context, opts ObjectStoreOptions) (*ObjectStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	s := &ObjectStore{
		client:          client,
		uploadBucket:    opts.UploadBucket,
		processedBucket: opts.ProcessedBucket,
	}
	for _, bucket := range []string{s.uploadBucket, s.processedBucket} {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
	}
	return s, nil
}

func (s *ObjectStore) bucket(folder string) string {
	if folder == FolderProcessed {
		return s.processedBucket
	}
	return s.uploadBucket
}

func (s *ObjectStore) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	name = SanitizeName(name)
	if name == "" {
		return "", fmt.Errorf("empty filename after sanitization")
	}

	_, err := s.client.PutObject(ctx, s.uploadBucket, name, r, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return "", fmt.Errorf("put upload: %w", err)
	}
	return name, nil
}

func (s *ObjectStore) Open(ctx context.Context, folder, name string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket(folder), name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	// GetObject is lazy; a missing key only surfaces on first read
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat object: %w", err)
	}
	return obj, nil
}

func (s *ObjectStore) Write(ctx context.Context, folder, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket(folder), name,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (s *ObjectStore) Resolve(ctx context.Context, name string) (string, error) {
	for _, folder := range []string{FolderProcessed, FolderUploads} {
		if _, err := s.client.StatObject(ctx, s.bucket(folder), name, minio.StatObjectOptions{}); err == nil {
			return folder, nil
		}
	}
	return "", ErrNotFound
}
