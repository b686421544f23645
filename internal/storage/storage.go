// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package storage holds the files the archive manages on behalf of
// submissions. Backends are addressed by slash-separated keys.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Backend stores objects by key.
type Backend interface {
	// Name identifies the backend in logs ("local", "s3").
	Name() string

	// Put writes size bytes from r under key, replacing any existing object.
	Put(ctx context.Context, key string, r io.Reader, size int64) error
}

// cleanKey rejects keys that would escape the backend root.
func cleanKey(key string) (string, error) {
	k := path.Clean(strings.TrimLeft(key, "/"))
	if k == "." || k == ".." || strings.HasPrefix(k, "../") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return k, nil
}

// Local stores objects as files under a root directory.
type Local struct {
	root string
}

// NewLocal returns a backend rooted at dir. The directory is created on
// first write.
func NewLocal(dir string) *Local {
	return &Local{root: dir}
}

// Name implements Backend.
func (l *Local) Name() string { return "local" }

// Root returns the directory objects are written under.
func (l *Local) Root() string { return l.root }

// Path returns the filesystem path of key.
func (l *Local) Path(key string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.root, filepath.FromSlash(k)), nil
}

// Put writes r to a temporary file next to the destination and renames it
// into place once fully written.
func (l *Local) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dest, err := l.Path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", key, err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), ".put-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	n, copyErr := io.Copy(tmpFile, r)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", key, copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if size >= 0 && n != size {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: wrote %d bytes, expected %d", key, n, size)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
