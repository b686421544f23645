// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pdiddy/journal-import/pkg/types"
)

// JournalByPath returns the journal with the given URL path.
func (s *Store) JournalByPath(ctx context.Context, path string) (*types.Journal, error) {
	var j types.Journal
	err := s.db.QueryRowContext(ctx,
		`SELECT id, path, name, primary_locale, license_url FROM journals WHERE path = ?`, path,
	).Scan(&j.ID, &j.Path, &j.Name, &j.PrimaryLocale, &j.LicenseURL)
	if err != nil {
		return nil, notFound(err, "journal %q", path)
	}
	return &j, nil
}

// UserByUsername returns the account with the given username.
func (s *Store) UserByUsername(ctx context.Context, username string) (*types.User, error) {
	var u types.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.Email)
	if err != nil {
		return nil, notFound(err, "user %q", username)
	}
	return &u, nil
}

// SectionByAbbrev returns the journal section with the given abbreviation.
func (s *Store) SectionByAbbrev(ctx context.Context, journalID int64, abbrev string) (*types.Section, error) {
	var sec types.Section
	err := s.db.QueryRowContext(ctx,
		`SELECT id, journal_id, abbrev, title FROM sections WHERE journal_id = ? AND abbrev = ?`,
		journalID, abbrev,
	).Scan(&sec.ID, &sec.JournalID, &sec.Abbrev, &sec.Title)
	if err != nil {
		return nil, notFound(err, "section %q", abbrev)
	}
	return &sec, nil
}

// GenreByKey returns the journal genre with the given key.
func (s *Store) GenreByKey(ctx context.Context, journalID int64, key string) (*types.Genre, error) {
	var g types.Genre
	err := s.db.QueryRowContext(ctx,
		`SELECT id, journal_id, entry_key, name FROM genres WHERE journal_id = ? AND entry_key = ?`,
		journalID, key,
	).Scan(&g.ID, &g.JournalID, &g.Key, &g.Name)
	if err != nil {
		return nil, notFound(err, "genre %q", key)
	}
	return &g, nil
}

// UserGroupIDsByRole returns the ids of the journal's user groups granting
// role, in creation order. An empty result is not an error.
func (s *Store) UserGroupIDsByRole(ctx context.Context, journalID int64, role types.Role) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM user_groups WHERE journal_id = ? AND role_id = ? ORDER BY id`,
		journalID, int(role),
	)
	if err != nil {
		return nil, fmt.Errorf("querying user groups: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning user group: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UserGroupAssignedToStage reports whether the user group may be assigned
// to the workflow stage.
func (s *Store) UserGroupAssignedToStage(ctx context.Context, groupID int64, stage types.WorkflowStage) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_group_stages WHERE user_group_id = ? AND stage_id = ?`,
		groupID, int(stage),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying user group stages: %w", err)
	}
	return n > 0, nil
}

// notFound maps sql.ErrNoRows onto types.ErrNotFound and wraps anything
// else.
func notFound(err error, format string, args ...any) error {
	what := fmt.Sprintf(format, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, types.ErrNotFound)
	}
	return fmt.Errorf("querying %s: %w", what, err)
}
