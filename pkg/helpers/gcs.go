package helpers

import (
	"context"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient opens a read-write Cloud Storage client. An empty credsPath
// falls back to application default credentials.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if credsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credsPath))
	}
	return storage.NewClient(ctx, opts...)
}
