// Package imagestore saves uploaded product images either on local disk
// (served under /uploads) or in a Google Cloud Storage bucket.
package imagestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local writes files into Dir and returns Prefix/<name> as the stored image path.
type Local struct {
	Dir    string
	Prefix string
}

func NewLocal(dir, prefix string) *Local {
	return &Local{Dir: dir, Prefix: strings.TrimRight(prefix, "/")}
}

func (l *Local) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	name = filepath.Base(name)
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}
	dst := filepath.Join(l.Dir, name)
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return l.Prefix + "/" + name, nil
}
