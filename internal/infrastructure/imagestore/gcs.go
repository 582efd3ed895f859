package imagestore

import (
	"context"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
)

const gcsFolder = "products"

// GCS uploads images to Bucket/products/<name>. Upload names are unique per
// upload, so objects never change and are cached for a year.
type GCS struct {
	Client *storage.Client
	Bucket string
}

func NewGCS(client *storage.Client, bucket string) *GCS {
	return &GCS{Client: client, Bucket: bucket}
}

func (g *GCS) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	object := path.Join(gcsFolder, path.Base(name))
	// DoesNotExist mirrors the O_EXCL create of the local store.
	w := g.Client.Bucket(g.Bucket).Object(object).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	if w.ContentType == "" {
		w.ContentType = "application/octet-stream"
	}
	w.CacheControl = "public, max-age=31536000, immutable"
	w.Metadata = map[string]string{"source": "crateyy-admin"}
	w.ChunkSize = 0
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", object, err)
	}
	return PublicURL(g.Bucket, object), nil
}

// PublicURL assumes the bucket grants allUsers read access.
func PublicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}
