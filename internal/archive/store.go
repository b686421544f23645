// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive is the SQLite-backed publication archive the importer
// writes into: journals, users, sections, user groups and genres are looked
// up by key; articles, authors, stage assignments, published-article
// entries, representations and submission files are inserted and assigned
// identifiers.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/journal-import/internal/storage"
	"github.com/pdiddy/journal-import/pkg/types"
)

// DefaultDBPath is used when ArchiveConfig.DBPath is empty.
const DefaultDBPath = "archive/archive.db"

// Store manages the archive SQLite database and the backend that holds
// copied submission files.
type Store struct {
	db    *sql.DB
	files storage.Backend
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for upload and assignment
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore opens or creates the archive database and creates the schema if
// it does not exist. files receives copied submission files.
func NewStore(cfg types.ArchiveConfig, files storage.Backend, opts ...Option) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, files: files, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(types.DateTimeLayout)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS journals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			primary_locale TEXT NOT NULL,
			license_url TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			journal_id INTEGER NOT NULL REFERENCES journals(id),
			abbrev TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			UNIQUE (journal_id, abbrev)
		)`,
		`CREATE TABLE IF NOT EXISTS genres (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			journal_id INTEGER NOT NULL REFERENCES journals(id),
			entry_key TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			UNIQUE (journal_id, entry_key)
		)`,
		`CREATE TABLE IF NOT EXISTS user_groups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			journal_id INTEGER NOT NULL REFERENCES journals(id),
			name TEXT NOT NULL,
			role_id INTEGER NOT NULL,
			UNIQUE (journal_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS user_group_stages (
			user_group_id INTEGER NOT NULL REFERENCES user_groups(id),
			stage_id INTEGER NOT NULL,
			PRIMARY KEY (user_group_id, stage_id)
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			journal_id INTEGER NOT NULL REFERENCES journals(id),
			section_id INTEGER NOT NULL REFERENCES sections(id),
			locale TEXT NOT NULL,
			language TEXT NOT NULL DEFAULT '',
			status INTEGER NOT NULL,
			stage_id INTEGER NOT NULL,
			submission_progress INTEGER NOT NULL DEFAULT 0,
			date_submitted TEXT,
			date_status_modified TEXT,
			copyright_holder TEXT,
			copyright_year TEXT,
			license_url TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS submission_settings (
			submission_id INTEGER NOT NULL REFERENCES submissions(id),
			locale TEXT NOT NULL,
			setting_name TEXT NOT NULL,
			setting_value TEXT,
			PRIMARY KEY (submission_id, locale, setting_name)
		)`,
		`CREATE TABLE IF NOT EXISTS authors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			submission_id INTEGER NOT NULL REFERENCES submissions(id),
			email TEXT NOT NULL,
			seq INTEGER NOT NULL,
			primary_contact INTEGER NOT NULL DEFAULT 0,
			include_in_browse INTEGER NOT NULL DEFAULT 1,
			user_group_id INTEGER REFERENCES user_groups(id)
		)`,
		`CREATE TABLE IF NOT EXISTS author_settings (
			author_id INTEGER NOT NULL REFERENCES authors(id),
			locale TEXT NOT NULL,
			setting_name TEXT NOT NULL,
			setting_value TEXT,
			PRIMARY KEY (author_id, locale, setting_name)
		)`,
		`CREATE TABLE IF NOT EXISTS stage_assignments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			submission_id INTEGER NOT NULL REFERENCES submissions(id),
			user_group_id INTEGER NOT NULL REFERENCES user_groups(id),
			user_id INTEGER NOT NULL REFERENCES users(id),
			date_assigned TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS published_submissions (
			submission_id INTEGER PRIMARY KEY REFERENCES submissions(id),
			section_id INTEGER NOT NULL,
			issue_id INTEGER NOT NULL,
			date_published TEXT,
			access_status INTEGER NOT NULL,
			seq INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS representations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			submission_id INTEGER NOT NULL REFERENCES submissions(id),
			label TEXT NOT NULL DEFAULT '',
			locale TEXT NOT NULL DEFAULT '',
			seq INTEGER NOT NULL DEFAULT 0,
			file_id INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS representation_settings (
			representation_id INTEGER NOT NULL REFERENCES representations(id),
			locale TEXT NOT NULL,
			setting_name TEXT NOT NULL,
			setting_value TEXT,
			PRIMARY KEY (representation_id, locale, setting_name)
		)`,
		`CREATE TABLE IF NOT EXISTS submission_files (
			file_id INTEGER PRIMARY KEY AUTOINCREMENT,
			submission_id INTEGER NOT NULL REFERENCES submissions(id),
			file_stage INTEGER NOT NULL,
			genre_id INTEGER REFERENCES genres(id),
			uploader_user_id INTEGER,
			assoc_type INTEGER,
			assoc_id INTEGER,
			original_file_name TEXT NOT NULL,
			storage_backend TEXT NOT NULL,
			storage_key TEXT NOT NULL,
			file_size INTEGER NOT NULL,
			page_count INTEGER NOT NULL DEFAULT 0,
			date_uploaded TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_journal ON submissions(journal_id)`,
		`CREATE INDEX IF NOT EXISTS idx_authors_submission ON authors(submission_id)`,
		`CREATE INDEX IF NOT EXISTS idx_representations_submission ON representations(submission_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// writeSettings stores one localized setting per locale into a
// *_settings table.
func writeSettings(ctx context.Context, ex execer, table, idColumn string, id int64, name string, values map[string]string) error {
	for locale, value := range values {
		_, err := ex.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (%s, locale, setting_name, setting_value) VALUES (?, ?, ?, ?)
			 ON CONFLICT(%s, locale, setting_name) DO UPDATE SET setting_value=excluded.setting_value`,
				table, idColumn, idColumn),
			id, locale, name, value,
		)
		if err != nil {
			return fmt.Errorf("writing %s %s: %w", table, name, err)
		}
	}
	return nil
}

// readSettings loads all settings of one record as name -> locale -> value.
func (s *Store) readSettings(ctx context.Context, table, idColumn string, id int64) (map[string]map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT locale, setting_name, setting_value FROM %s WHERE %s = ?`, table, idColumn), id)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", table, err)
	}
	defer rows.Close()

	out := make(map[string]map[string]string)
	for rows.Next() {
		var locale, name string
		var value sql.NullString
		if err := rows.Scan(&locale, &name, &value); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		if out[name] == nil {
			out[name] = make(map[string]string)
		}
		out[name][locale] = value.String
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
