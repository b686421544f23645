// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes import summaries as spreadsheet workbooks.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/journal-import/internal/importer"
	"github.com/pdiddy/journal-import/pkg/types"
)

// Sheet names.
const (
	ArticlesSheet = "Articles"
	ErrorsSheet   = "Errors"
)

const statusImported = "imported"

var (
	articleHeader = []any{"Volume", "Issue", "File", "Article ID", "Title", "Status"}
	errorHeader   = []any{"Code", "Volume", "Issue", "Article", "Path", "Reason"}
)

// WriteXLSX writes one Articles row per processed article file and one
// Errors row per recorded failure, each sheet under a header row.
func WriteXLSX(path string, s importer.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ArticlesSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(ErrorsSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	if err := setRow(f, ArticlesSheet, 1, articleHeader); err != nil {
		return err
	}
	for i, a := range s.Articles {
		status := statusImported
		var id any = a.ArticleID
		if a.Err != nil {
			status = string(a.Err.Code)
		}
		if a.ArticleID == 0 {
			id = ""
		}
		if err := setRow(f, ArticlesSheet, i+2, []any{a.Volume, a.Issue, a.File, id, a.Title, status}); err != nil {
			return err
		}
	}

	if err := setRow(f, ErrorsSheet, 1, errorHeader); err != nil {
		return err
	}
	for i, e := range s.Errors {
		if err := setRow(f, ErrorsSheet, i+2, errorRow(e)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report %s: %w", path, err)
	}
	return nil
}

func errorRow(e types.ImportError) []any {
	return []any{
		string(e.Code),
		e.Context[types.CtxVolume],
		e.Context[types.CtxIssue],
		e.Context[types.CtxArticle],
		e.Context[types.CtxPath],
		e.Context[types.CtxReason],
	}
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
