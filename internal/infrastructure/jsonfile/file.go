// Package jsonfile stores whole collections as pretty-printed JSON files.
//
// Every mutation re-reads the file, changes the slice and rewrites the file.
// A mutex per repository serializes that cycle inside one process; several
// processes sharing the same file can still overwrite each other's changes.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oksasatya/crateyy/internal/domain/entity"
)

const indent = "    "

// readAll decodes the array stored at path. A missing or empty file is an empty collection.
func readAll[T any](path string) ([]T, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(b) == 0 {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// writeAll replaces the file at path with items. The new content goes to a
// temp file first so a crash never leaves a half-written collection behind.
func writeAll[T any](path string, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.MarshalIndent(items, "", indent)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadProducts reads a product file without a repository, tolerating the
// legacy value shapes Product accepts. Used by the seed importer.
func LoadProducts(path string) ([]entity.Product, error) {
	return readAll[entity.Product](path)
}

// LoadUsers reads a user file, including records with numeric ids.
func LoadUsers(path string) ([]*entity.User, error) {
	recs, err := readAll[userRecord](path)
	if err != nil {
		return nil, err
	}
	users := make([]*entity.User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, rec.toEntity())
	}
	return users, nil
}
