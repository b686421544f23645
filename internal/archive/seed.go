// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/journal-import/pkg/types"
)

// Fixture describes the journals and accounts an archive is seeded with.
type Fixture struct {
	Journals []JournalFixture `yaml:"journals"`
	Users    []UserFixture    `yaml:"users"`
}

// JournalFixture is one journal with the sections, genres and user groups
// it owns.
type JournalFixture struct {
	Path          string             `yaml:"path"`
	Name          string             `yaml:"name"`
	PrimaryLocale string             `yaml:"primary_locale"`
	LicenseURL    string             `yaml:"license_url"`
	Sections      []SectionFixture   `yaml:"sections"`
	Genres        []GenreFixture     `yaml:"genres"`
	UserGroups    []UserGroupFixture `yaml:"user_groups"`
}

// SectionFixture is a journal section.
type SectionFixture struct {
	Abbrev string `yaml:"abbrev"`
	Title  string `yaml:"title"`
}

// GenreFixture is a file genre.
type GenreFixture struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

// UserGroupFixture is a user group granting Role, assignable to Stages.
// Role and stage names are those accepted by types.ParseRole and
// types.ParseWorkflowStage.
type UserGroupFixture struct {
	Name   string   `yaml:"name"`
	Role   string   `yaml:"role"`
	Stages []string `yaml:"stages"`
}

// UserFixture is an account.
type UserFixture struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
}

// SeedSummary counts the records written by Seed.
type SeedSummary struct {
	Journals   int
	Sections   int
	Genres     int
	UserGroups int
	Users      int
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	return &f, nil
}

// Seed writes the fixture in a single transaction. Records are matched by
// their natural keys, so seeding the same fixture twice updates in place.
func (s *Store) Seed(ctx context.Context, f *Fixture) (SeedSummary, error) {
	var sum SeedSummary
	if f == nil {
		return sum, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sum, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, u := range f.Users {
		if u.Username == "" {
			return sum, fmt.Errorf("user without username")
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, email) VALUES (?, ?)
			 ON CONFLICT(username) DO UPDATE SET email=excluded.email`,
			u.Username, u.Email,
		)
		if err != nil {
			return sum, fmt.Errorf("seeding user %s: %w", u.Username, err)
		}
		sum.Users++
	}

	for _, j := range f.Journals {
		if err := seedJournal(ctx, tx, j, &sum); err != nil {
			return sum, err
		}
	}

	if err := tx.Commit(); err != nil {
		return sum, fmt.Errorf("committing seed: %w", err)
	}
	return sum, nil
}

func seedJournal(ctx context.Context, tx *sql.Tx, j JournalFixture, sum *SeedSummary) error {
	if j.Path == "" {
		return fmt.Errorf("journal without path")
	}
	locale := j.PrimaryLocale
	if locale == "" {
		locale = "en_US"
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO journals (path, name, primary_locale, license_url) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			name=excluded.name, primary_locale=excluded.primary_locale, license_url=excluded.license_url`,
		j.Path, j.Name, locale, j.LicenseURL,
	)
	if err != nil {
		return fmt.Errorf("seeding journal %s: %w", j.Path, err)
	}
	var journalID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM journals WHERE path = ?`, j.Path).Scan(&journalID); err != nil {
		return fmt.Errorf("reading journal %s: %w", j.Path, err)
	}
	sum.Journals++

	for _, sec := range j.Sections {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sections (journal_id, abbrev, title) VALUES (?, ?, ?)
			 ON CONFLICT(journal_id, abbrev) DO UPDATE SET title=excluded.title`,
			journalID, sec.Abbrev, sec.Title,
		)
		if err != nil {
			return fmt.Errorf("seeding section %s: %w", sec.Abbrev, err)
		}
		sum.Sections++
	}

	for _, g := range j.Genres {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO genres (journal_id, entry_key, name) VALUES (?, ?, ?)
			 ON CONFLICT(journal_id, entry_key) DO UPDATE SET name=excluded.name`,
			journalID, g.Key, g.Name,
		)
		if err != nil {
			return fmt.Errorf("seeding genre %s: %w", g.Key, err)
		}
		sum.Genres++
	}

	for _, g := range j.UserGroups {
		role, ok := types.ParseRole(g.Role)
		if !ok {
			return fmt.Errorf("user group %s: unknown role %q", g.Name, g.Role)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO user_groups (journal_id, name, role_id) VALUES (?, ?, ?)
			 ON CONFLICT(journal_id, name) DO UPDATE SET role_id=excluded.role_id`,
			journalID, g.Name, int(role),
		)
		if err != nil {
			return fmt.Errorf("seeding user group %s: %w", g.Name, err)
		}
		var groupID int64
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM user_groups WHERE journal_id = ? AND name = ?`, journalID, g.Name,
		).Scan(&groupID)
		if err != nil {
			return fmt.Errorf("reading user group %s: %w", g.Name, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM user_group_stages WHERE user_group_id = ?`, groupID); err != nil {
			return fmt.Errorf("clearing stages of %s: %w", g.Name, err)
		}
		for _, name := range g.Stages {
			stage, ok := types.ParseWorkflowStage(name)
			if !ok {
				return fmt.Errorf("user group %s: unknown stage %q", g.Name, name)
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO user_group_stages (user_group_id, stage_id) VALUES (?, ?)`,
				groupID, int(stage),
			)
			if err != nil {
				return fmt.Errorf("assigning %s to %s: %w", g.Name, name, err)
			}
		}
		sum.UserGroups++
	}
	return nil
}
