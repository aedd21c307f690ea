package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	gcs "cloud.google.com/go/storage"
)

// GCSStorage stores media in a Google Cloud Storage bucket.
type GCSStorage struct {
	client *gcs.Client
	bucket string
}

func NewGCSStorage(ctx context.Context, bucket string) (*GCSStorage, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket}, nil
}

func (s *GCSStorage) Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (*StoredObject, error) {
	key := folder + "/" + objectName(filename)

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(w, r); err != nil {
		// The object is only finalized on a successful Close; abandoning
		// the writer leaves nothing retrievable.
		_ = w.Close()
		return nil, fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize object: %w", err)
	}

	return &StoredObject{
		PublicURL: fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key),
		ID:        key,
	}, nil
}

func (s *GCSStorage) Delete(ctx context.Context, id string) bool {
	err := s.client.Bucket(s.bucket).Object(id).Delete(ctx)
	if err != nil {
		if !errors.Is(err, gcs.ErrObjectNotExist) {
			log.Printf("delete %s: %v", id, err)
		}
		return false
	}
	return true
}

var _ MediaStorage = (*GCSStorage)(nil)
