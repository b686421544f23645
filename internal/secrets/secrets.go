// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials kept out of the config file, one value
// per file: the file name is the key and the trimmed contents the value.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/journal-import/pkg/types"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// Recognized keys.
const (
	S3AccessKeyID     = "s3-access-key-id"
	S3SecretAccessKey = "s3-secret-access-key"
	GrobidURL         = "grobid-url"
)

// Secrets maps key names to values.
type Secrets map[string]string

// Get returns the value for key, or fallback when it is absent.
func (s Secrets) Get(key, fallback string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return fallback
}

// Apply copies recognized secrets into cfg. Values already set in cfg for
// S3 credentials are kept; a grobid-url secret overrides the configured URL.
func (s Secrets) Apply(cfg *types.Config) {
	cfg.Storage.S3.AccessKeyID = s.Get(S3AccessKeyID, cfg.Storage.S3.AccessKeyID)
	cfg.Storage.S3.SecretAccessKey = s.Get(S3SecretAccessKey, cfg.Storage.S3.SecretAccessKey)
	cfg.Grobid.URL = s.Get(GrobidURL, cfg.Grobid.URL)
}

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty set. Unreadable or empty files are skipped; unreadable
// ones are logged.
func Load(dir string, log *slog.Logger) (Secrets, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return Secrets{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := Secrets{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("skipping unreadable secret", "key", name, "error", err)
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			out[name] = v
		}
	}
	return out, nil
}
