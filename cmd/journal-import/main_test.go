// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/journal-import/internal/secrets"
	"github.com/pdiddy/journal-import/pkg/types"
)

func TestExactArgs(t *testing.T) {
	check := exactArgs(5)
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"five arguments", []string{"j", "u", "e", "a@b.org", "/src"}, false},
		{"too few", []string{"j", "u", "e", "a@b.org"}, true},
		{"too many", []string{"j", "u", "e", "a@b.org", "/src", "x"}, true},
		{"empty argument", []string{"j", "", "e", "a@b.org", "/src"}, true},
		{"blank argument", []string{"j", "u", "e", "a@b.org", "  "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := check(importCmd, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()

	b, err := openStorage(ctx, types.StorageConfig{Backend: types.StorageLocal, LocalRoot: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "local", b.Name())

	_, err = openStorage(ctx, types.StorageConfig{Backend: types.StorageS3})
	assert.Error(t, err, "s3 without a bucket")

	_, err = openStorage(ctx, types.StorageConfig{Backend: "ftp"})
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaults(viper.GetViper())
	viper.Set("grobid.timeout", "30s")
	viper.Set("grobid.rate_limit", 2.5)
	viper.Set("import.issue_id", 12)
	viper.Set("storage.local_root", filepath.Join("x", "files"))

	loadedSecrets = secrets.Secrets{secrets.GrobidURL: "http://grobid.internal:8070"}
	t.Cleanup(func() { loadedSecrets = nil })

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://grobid.internal:8070", cfg.Grobid.URL)
	assert.Equal(t, 30*time.Second, cfg.Grobid.Timeout)
	assert.Equal(t, 2.5, cfg.Grobid.RateLimit)
	assert.Equal(t, "journal-import/dev", cfg.Grobid.UserAgent)
	assert.Equal(t, "archive/archive.db", cfg.Archive.DBPath)
	assert.Equal(t, types.StorageLocal, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join("x", "files"), cfg.Storage.LocalRoot)
	assert.Equal(t, int64(12), cfg.Import.IssueID)
	assert.Equal(t, "ART", cfg.Import.SectionAbbrev)
	assert.Equal(t, "SUBMISSION", cfg.Import.GenreKey)
	assert.Equal(t, "en", cfg.Import.Language)
}
