// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pdiddy/journal-import/pkg/types"
)

// InsertArticle stores a new article with its localized title and abstract
// and returns the assigned id.
func (s *Store) InsertArticle(ctx context.Context, a *types.Article) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO submissions (journal_id, section_id, locale, language, status, stage_id,
			submission_progress, date_submitted, date_status_modified)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.JournalID, a.SectionID, a.Locale, a.Language, int(a.Status), int(a.StageID),
		a.SubmissionProgress, a.DateSubmitted, a.DateStatusModified,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting article: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading article id: %w", err)
	}

	if err := writeSettings(ctx, tx, "submission_settings", "submission_id", id, "title", a.Title); err != nil {
		return 0, err
	}
	if err := writeSettings(ctx, tx, "submission_settings", "submission_id", id, "abstract", a.Abstract); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing article: %w", err)
	}
	a.ID = id
	return id, nil
}

// InsertAuthor stores a contributor of an article and returns the assigned
// id.
func (s *Store) InsertAuthor(ctx context.Context, a *types.Author) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO authors (submission_id, email, seq, primary_contact, include_in_browse, user_group_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.SubmissionID, a.Email, a.Sequence, boolInt(a.PrimaryContact), boolInt(a.IncludeInBrowse), nullID(a.UserGroupID),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting author: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading author id: %w", err)
	}

	if err := writeSettings(ctx, tx, "author_settings", "author_id", id, "givenName", a.GivenName); err != nil {
		return 0, err
	}
	if err := writeSettings(ctx, tx, "author_settings", "author_id", id, "familyName", a.FamilyName); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing author: %w", err)
	}
	a.ID = id
	return id, nil
}

// AssignStage links a user, through a user group, to an article's workflow.
func (s *Store) AssignStage(ctx context.Context, sa *types.StageAssignment) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO stage_assignments (submission_id, user_group_id, user_id, date_assigned)
		 VALUES (?, ?, ?, ?)`,
		sa.SubmissionID, sa.UserGroupID, sa.UserID, s.timestamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting stage assignment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading stage assignment id: %w", err)
	}
	sa.ID = id
	return id, nil
}

// InsertPublishedArticle places an article in an issue.
func (s *Store) InsertPublishedArticle(ctx context.Context, p *types.PublishedArticle) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO published_submissions (submission_id, section_id, issue_id, date_published, access_status, seq)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ArticleID, p.SectionID, p.IssueID, p.DatePublished, int(p.AccessStatus), p.Sequence,
	)
	if err != nil {
		return fmt.Errorf("inserting published article: %w", err)
	}
	return nil
}

// InitializePermissions sets the article's copyright holder and license
// from its journal and the copyright year from its publication date.
func (s *Store) InitializePermissions(ctx context.Context, articleID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE submissions SET
			copyright_holder = (SELECT j.name FROM journals j WHERE j.id = submissions.journal_id),
			license_url = (SELECT NULLIF(j.license_url, '') FROM journals j WHERE j.id = submissions.journal_id),
			copyright_year = COALESCE(
				(SELECT substr(p.date_published, 1, 4) FROM published_submissions p WHERE p.submission_id = submissions.id),
				substr(date_status_modified, 1, 4))
		 WHERE id = ?`,
		articleID,
	)
	if err != nil {
		return fmt.Errorf("initializing permissions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("initializing permissions: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("article %d: %w", articleID, types.ErrNotFound)
	}
	return nil
}

// InsertRepresentation stores a galley of an article and returns the
// assigned id.
func (s *Store) InsertRepresentation(ctx context.Context, r *types.Representation) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO representations (submission_id, label, locale, seq, file_id) VALUES (?, ?, ?, ?, ?)`,
		r.SubmissionID, r.Label, r.Locale, r.Sequence, nullID(r.FileID),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting representation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading representation id: %w", err)
	}
	if err := writeSettings(ctx, tx, "representation_settings", "representation_id", id, "name", r.Name); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing representation: %w", err)
	}
	r.ID = id
	return id, nil
}

// UpdateRepresentation rewrites a stored galley, including its file link.
func (s *Store) UpdateRepresentation(ctx context.Context, r *types.Representation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE representations SET label = ?, locale = ?, seq = ?, file_id = ? WHERE id = ?`,
		r.Label, r.Locale, r.Sequence, nullID(r.FileID), r.ID,
	)
	if err != nil {
		return fmt.Errorf("updating representation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating representation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("representation %d: %w", r.ID, types.ErrNotFound)
	}
	if err := writeSettings(ctx, tx, "representation_settings", "representation_id", r.ID, "name", r.Name); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing representation: %w", err)
	}
	return nil
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
