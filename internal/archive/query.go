// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pdiddy/journal-import/pkg/types"
)

// ArticleSummary is one imported article as listed by Articles.
type ArticleSummary struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	DatePublished   string `json:"date_published,omitempty"`
	Authors         int    `json:"authors"`
	Representations int    `json:"representations"`
}

// Articles lists the journal's articles in id order, titled in each
// article's own locale.
func (s *Store) Articles(ctx context.Context, journalID int64) ([]ArticleSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id,
			COALESCE((SELECT ss.setting_value FROM submission_settings ss
				WHERE ss.submission_id = s.id AND ss.locale = s.locale AND ss.setting_name = 'title'), ''),
			COALESCE(p.date_published, ''),
			(SELECT COUNT(*) FROM authors a WHERE a.submission_id = s.id),
			(SELECT COUNT(*) FROM representations r WHERE r.submission_id = s.id)
		 FROM submissions s
		 LEFT JOIN published_submissions p ON p.submission_id = s.id
		 WHERE s.journal_id = ?
		 ORDER BY s.id`,
		journalID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var out []ArticleSummary
	for rows.Next() {
		var a ArticleSummary
		if err := rows.Scan(&a.ID, &a.Title, &a.DatePublished, &a.Authors, &a.Representations); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Article returns a stored article with its localized fields.
func (s *Store) Article(ctx context.Context, id int64) (*types.Article, error) {
	var a types.Article
	var status, stage int
	var submitted, modified sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, journal_id, section_id, locale, language, status, stage_id, submission_progress,
			date_submitted, date_status_modified
		 FROM submissions WHERE id = ?`, id,
	).Scan(&a.ID, &a.JournalID, &a.SectionID, &a.Locale, &a.Language, &status, &stage,
		&a.SubmissionProgress, &submitted, &modified)
	if err != nil {
		return nil, notFound(err, "article %d", id)
	}
	a.Status = types.SubmissionStatus(status)
	a.StageID = types.WorkflowStage(stage)
	a.DateSubmitted = submitted.String
	a.DateStatusModified = modified.String

	settings, err := s.readSettings(ctx, "submission_settings", "submission_id", id)
	if err != nil {
		return nil, err
	}
	a.Title = settings["title"]
	a.Abstract = settings["abstract"]
	return &a, nil
}

// Permissions is the copyright and license state of an article.
type Permissions struct {
	CopyrightHolder string
	CopyrightYear   string
	LicenseURL      string
}

// ArticlePermissions returns the article's copyright and license fields.
func (s *Store) ArticlePermissions(ctx context.Context, id int64) (Permissions, error) {
	var holder, year, license sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT copyright_holder, copyright_year, license_url FROM submissions WHERE id = ?`, id,
	).Scan(&holder, &year, &license)
	if err != nil {
		return Permissions{}, notFound(err, "article %d", id)
	}
	return Permissions{CopyrightHolder: holder.String, CopyrightYear: year.String, LicenseURL: license.String}, nil
}

// Authors returns the article's authors in insertion order.
func (s *Store) Authors(ctx context.Context, articleID int64) ([]types.Author, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, seq, primary_contact, include_in_browse, user_group_id
		 FROM authors WHERE submission_id = ? ORDER BY id`, articleID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying authors: %w", err)
	}

	var out []types.Author
	for rows.Next() {
		a := types.Author{SubmissionID: articleID}
		var primary, browse int
		var group sql.NullInt64
		if err := rows.Scan(&a.ID, &a.Email, &a.Sequence, &primary, &browse, &group); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning author: %w", err)
		}
		a.PrimaryContact = primary != 0
		a.IncludeInBrowse = browse != 0
		a.UserGroupID = group.Int64
		out = append(out, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		settings, err := s.readSettings(ctx, "author_settings", "author_id", out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].GivenName = settings["givenName"]
		out[i].FamilyName = settings["familyName"]
	}
	return out, nil
}

// StageAssignments returns the article's stage assignments.
func (s *Store) StageAssignments(ctx context.Context, articleID int64) ([]types.StageAssignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_group_id, user_id FROM stage_assignments WHERE submission_id = ? ORDER BY id`, articleID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying stage assignments: %w", err)
	}
	defer rows.Close()

	var out []types.StageAssignment
	for rows.Next() {
		sa := types.StageAssignment{SubmissionID: articleID}
		if err := rows.Scan(&sa.ID, &sa.UserGroupID, &sa.UserID); err != nil {
			return nil, fmt.Errorf("scanning stage assignment: %w", err)
		}
		out = append(out, sa)
	}
	return out, rows.Err()
}

// PublishedArticle returns the article's published-article entry.
func (s *Store) PublishedArticle(ctx context.Context, articleID int64) (*types.PublishedArticle, error) {
	p := types.PublishedArticle{ArticleID: articleID}
	var access int
	var date sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT section_id, issue_id, date_published, access_status, seq
		 FROM published_submissions WHERE submission_id = ?`, articleID,
	).Scan(&p.SectionID, &p.IssueID, &date, &access, &p.Sequence)
	if err != nil {
		return nil, notFound(err, "published article %d", articleID)
	}
	p.DatePublished = date.String
	p.AccessStatus = types.AccessStatus(access)
	return &p, nil
}

// Representations returns the article's galleys.
func (s *Store) Representations(ctx context.Context, articleID int64) ([]types.Representation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, locale, seq, file_id FROM representations WHERE submission_id = ? ORDER BY id`, articleID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying representations: %w", err)
	}

	var out []types.Representation
	for rows.Next() {
		r := types.Representation{SubmissionID: articleID}
		var fileID sql.NullInt64
		if err := rows.Scan(&r.ID, &r.Label, &r.Locale, &r.Sequence, &fileID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning representation: %w", err)
		}
		r.FileID = fileID.Int64
		out = append(out, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		settings, err := s.readSettings(ctx, "representation_settings", "representation_id", out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Name = settings["name"]
	}
	return out, nil
}

// SubmissionFile returns a stored file record.
func (s *Store) SubmissionFile(ctx context.Context, fileID int64) (*types.SubmissionFile, error) {
	f := types.SubmissionFile{FileID: fileID}
	var stage int
	var genre sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT submission_id, file_stage, genre_id, original_file_name, storage_key, file_size, page_count
		 FROM submission_files WHERE file_id = ?`, fileID,
	).Scan(&f.SubmissionID, &stage, &genre, &f.OriginalName, &f.StorageKey, &f.Size, &f.PageCount)
	if err != nil {
		return nil, notFound(err, "submission file %d", fileID)
	}
	f.FileStage = types.FileStage(stage)
	f.GenreID = genre.Int64
	return &f, nil
}
