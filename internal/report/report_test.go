// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/journal-import/internal/importer"
	"github.com/pdiddy/journal-import/pkg/types"
)

func TestWriteXLSX(t *testing.T) {
	missing := &types.ImportError{
		Code: types.ErrCodeMissingEditorGroup,
		Context: map[string]string{
			types.CtxVolume:  "1",
			types.CtxIssue:   "2",
			types.CtxArticle: "b.pdf",
			types.CtxPath:    "/src/1/2/b.pdf",
			types.CtxReason:  "no manager group",
		},
	}
	unreadable := types.ImportError{
		Code:    types.ErrCodeUnreadableDirectory,
		Context: map[string]string{types.CtxVolume: "3", types.CtxPath: "/src/3", types.CtxReason: "permission denied"},
	}
	summary := importer.Summary{
		Imported: 1,
		Failed:   1,
		Articles: []importer.ArticleResult{
			{Volume: "1", Issue: "2", File: "a.pdf", ArticleID: 41, Title: "Foo"},
			{Volume: "1", Issue: "2", File: "b.pdf", ArticleID: 42, Title: "Bar", Err: missing},
		},
		Errors: []types.ImportError{*missing, unreadable},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, summary))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ArticlesSheet, ErrorsSheet}, f.GetSheetList())

	rows, err := f.GetRows(ArticlesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Volume", "Issue", "File", "Article ID", "Title", "Status"}, rows[0])
	assert.Equal(t, []string{"1", "2", "a.pdf", "41", "Foo", "imported"}, rows[1])
	assert.Equal(t, []string{"1", "2", "b.pdf", "42", "Bar", "missingEditorGroup"}, rows[2])

	rows, err = f.GetRows(ErrorsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "missingEditorGroup", rows[1][0])
	assert.Equal(t, "no manager group", rows[1][5])

	code, err := f.GetCellValue(ErrorsSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "unreadableDirectory", code)
	reason, err := f.GetCellValue(ErrorsSheet, "F3")
	require.NoError(t, err)
	assert.Equal(t, "permission denied", reason)
}

func TestWriteXLSX_EmptySummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteXLSX(path, importer.Summary{}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ErrorsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteXLSX_BadPath(t *testing.T) {
	err := WriteXLSX(filepath.Join(t.TempDir(), "missing", "dir", "r.xlsx"), importer.Summary{})
	assert.Error(t, err)
}
