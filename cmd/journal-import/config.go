package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/viper"

	"github.com/pdiddy/journal-import/internal/archive"
	"github.com/pdiddy/journal-import/internal/grobid"
	"github.com/pdiddy/journal-import/internal/storage"
	"github.com/pdiddy/journal-import/pkg/types"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("grobid.url", grobid.DefaultURL)
	v.SetDefault("grobid.timeout", "0s")
	v.SetDefault("grobid.user_agent", "journal-import/"+version)
	v.SetDefault("grobid.rate_limit", 0)

	v.SetDefault("archive.db", archive.DefaultDBPath)

	v.SetDefault("storage.backend", string(types.StorageLocal))
	v.SetDefault("storage.local_root", "archive/files")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "")
	v.SetDefault("storage.s3.profile", "")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.path_style", false)

	v.SetDefault("import.language", types.DefaultLanguage)
	v.SetDefault("import.section", types.DefaultSectionAbbrev)
	v.SetDefault("import.genre", types.DefaultGenreKey)
	v.SetDefault("import.issue_id", types.DefaultIssueID)

	v.SetDefault("log.level", "info")
}

// loadConfig decodes the viper settings and overlays loaded secrets.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	loadedSecrets.Apply(&cfg)
	cfg.Import = cfg.Import.WithDefaults()
	return cfg, nil
}

func openStorage(ctx context.Context, cfg types.StorageConfig) (storage.Backend, error) {
	switch cfg.Backend {
	case types.StorageLocal, "":
		return storage.NewLocal(cfg.LocalRoot), nil
	case types.StorageS3:
		return storage.NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q: use local or s3", cfg.Backend)
	}
}

func openArchive(ctx context.Context, cfg types.Config) (*archive.Store, error) {
	files, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	store, err := archive.NewStore(cfg.Archive, files)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", cfg.Archive.DBPath, err)
	}
	logger.Debug("archive opened", "db", cfg.Archive.DBPath, "storage", files.Name())
	return store, nil
}

func newGrobidClient(cfg types.GrobidConfig) *grobid.Client {
	return grobid.NewClient(cfg.URL,
		grobid.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		grobid.WithRateLimit(cfg.RateLimit),
		grobid.WithUserAgent(cfg.UserAgent),
	)
}
