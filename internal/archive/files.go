// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/journal-import/pkg/types"
)

var fileStageDirs = map[types.FileStage]string{
	types.FileStageSubmission: "submission",
	types.FileStageProof:      "proof",
}

// StorageKey returns the managed-storage key for a new file of an article.
func StorageKey(journalID, submissionID int64, stage types.FileStage, ext string) string {
	dir, ok := fileStageDirs[stage]
	if !ok {
		dir = fmt.Sprintf("stage-%d", int(stage))
	}
	return path.Join(
		"journals", fmt.Sprint(journalID),
		"articles", fmt.Sprint(submissionID),
		"submission", dir,
		uuid.NewString()+ext,
	)
}

// CopySubmissionFile copies the source file into managed storage and
// records it against the article. The source file is left in place.
func (s *Store) CopySubmissionFile(ctx context.Context, c types.SubmissionFileCopy) (*types.SubmissionFile, error) {
	if s.files == nil {
		return nil, fmt.Errorf("copying %s: no file storage configured", c.SourcePath)
	}

	f, err := os.Open(c.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening source file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat source file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(c.SourcePath))
	if ext == "" {
		ext = ".pdf"
	}
	key := StorageKey(c.JournalID, c.SubmissionID, c.FileStage, ext)
	if err := s.files.Put(ctx, key, f, info.Size()); err != nil {
		return nil, fmt.Errorf("storing %s: %w", key, err)
	}

	sf := &types.SubmissionFile{
		SubmissionID: c.SubmissionID,
		FileStage:    c.FileStage,
		GenreID:      c.GenreID,
		OriginalName: filepath.Base(c.SourcePath),
		StorageKey:   key,
		Size:         info.Size(),
		PageCount:    PageCount(c.SourcePath),
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO submission_files (submission_id, file_stage, genre_id, uploader_user_id, assoc_type, assoc_id,
			original_file_name, storage_backend, storage_key, file_size, page_count, date_uploaded)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sf.SubmissionID, int(sf.FileStage), nullID(sf.GenreID), nullID(c.UploaderID),
		int(c.AssocType), nullID(c.AssocID),
		sf.OriginalName, s.files.Name(), sf.StorageKey, sf.Size, sf.PageCount, s.timestamp(),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting submission file: %w", err)
	}
	if sf.FileID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("reading submission file id: %w", err)
	}
	return sf, nil
}

// PageCount returns the number of pages in a PDF, or 0 when the file cannot
// be parsed.
func PageCount(file string) (n int) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()

	f, r, err := pdf.Open(file)
	if err != nil {
		return 0
	}
	defer f.Close()
	return r.NumPage()
}
