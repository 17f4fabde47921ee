package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore keeps uploads in a Google Cloud Storage bucket and hands out
// public object URLs.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*gcs.Client, error) {
	if credsPath == "" {
		return gcs.NewClient(ctx)
	}
	return gcs.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// NewGCSStore creates a GCSStore for bucket.
func NewGCSStore(client *gcs.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

// Backend implements Store.
func (s *GCSStore) Backend() string { return "gcs" }

// Save implements Store.
func (s *GCSStore) Save(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	object := folder + "/" + filename
	wc := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // uploads are small, send them in one request
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("failed to upload %s: %w", object, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize %s: %w", object, err)
	}
	return PublicURL(s.bucket, object), nil
}

// Delete implements Store. URLs of other buckets and missing objects are ignored.
func (s *GCSStore) Delete(ctx context.Context, url string) error {
	object, ok := ObjectName(s.bucket, url)
	if !ok {
		return nil
	}
	err := s.client.Bucket(s.bucket).Object(object).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete %s: %w", object, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error { return s.client.Close() }

// PublicURL builds the public URL of an object.
func PublicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}

// ObjectName extracts the object name from a public URL of bucket.
func ObjectName(bucket, url string) (string, bool) {
	prefix := PublicURL(bucket, "")
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
