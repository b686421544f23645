package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero keeps the transport default.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "journal-import/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// GrobidConfig holds settings for the metadata extraction service.
type GrobidConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// URL is the base URL of the GROBID service (e.g. "http://localhost:8070").
	URL string `json:"url" yaml:"url" mapstructure:"url"`

	// RateLimit caps extraction calls per second. Zero means unlimited.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ArchiveConfig locates the archive database.
type ArchiveConfig struct {
	// DBPath is the SQLite database file (e.g. "archive/archive.db").
	DBPath string `json:"db" yaml:"db" mapstructure:"db"`
}

// StorageBackend identifies where copied submission files are kept.
type StorageBackend string

const (
	StorageLocal StorageBackend = "local"
	StorageS3    StorageBackend = "s3"
)

// S3Config holds settings for the S3 storage backend. Empty values fall back
// to the standard AWS configuration chain.
type S3Config struct {
	Bucket    string `json:"bucket" yaml:"bucket" mapstructure:"bucket"`
	Region    string `json:"region" yaml:"region" mapstructure:"region"`
	Profile   string `json:"profile" yaml:"profile" mapstructure:"profile"`
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	PathStyle bool   `json:"path_style" yaml:"path_style" mapstructure:"path_style"`

	// AccessKeyID and SecretAccessKey are static credentials, normally
	// loaded from .secrets/ rather than the config file.
	AccessKeyID     string `json:"-" yaml:"-" mapstructure:"-"`
	SecretAccessKey string `json:"-" yaml:"-" mapstructure:"-"`
}

// StorageConfig selects and configures the managed file storage.
type StorageConfig struct {
	Backend   StorageBackend `json:"backend" yaml:"backend" mapstructure:"backend"`
	LocalRoot string         `json:"local_root" yaml:"local_root" mapstructure:"local_root"`
	S3        S3Config       `json:"s3" yaml:"s3" mapstructure:"s3"`
}

// ImportConfig holds the fixed values the importer stamps onto every article.
type ImportConfig struct {
	// Language is the article language code (default "en").
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	// SectionAbbrev is the abbreviation of the section articles are filed
	// under (default "ART").
	SectionAbbrev string `json:"section" yaml:"section" mapstructure:"section"`

	// GenreKey selects the submission genre for copied files (default "SUBMISSION").
	GenreKey string `json:"genre" yaml:"genre" mapstructure:"genre"`

	// IssueID is the issue every published-article entry points at. It is a
	// placeholder and does not follow the traversed issue directory.
	IssueID int64 `json:"issue_id" yaml:"issue_id" mapstructure:"issue_id"`
}

// Defaults applied when an ImportConfig field is left empty.
const (
	DefaultLanguage      = "en"
	DefaultSectionAbbrev = "ART"
	DefaultGenreKey      = "SUBMISSION"
	DefaultIssueID       = 45
)

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c ImportConfig) WithDefaults() ImportConfig {
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.SectionAbbrev == "" {
		c.SectionAbbrev = DefaultSectionAbbrev
	}
	if c.GenreKey == "" {
		c.GenreKey = DefaultGenreKey
	}
	if c.IssueID == 0 {
		c.IssueID = DefaultIssueID
	}
	return c
}

// Config groups all settings for one journal-import invocation.
type Config struct {
	Grobid  GrobidConfig  `json:"grobid" yaml:"grobid" mapstructure:"grobid"`
	Archive ArchiveConfig `json:"archive" yaml:"archive" mapstructure:"archive"`
	Storage StorageConfig `json:"storage" yaml:"storage" mapstructure:"storage"`
	Import  ImportConfig  `json:"import" yaml:"import" mapstructure:"import"`
}
