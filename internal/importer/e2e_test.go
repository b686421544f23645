// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/journal-import/internal/archive"
	"github.com/pdiddy/journal-import/internal/grobid"
	"github.com/pdiddy/journal-import/internal/importer"
	"github.com/pdiddy/journal-import/internal/storage"
	"github.com/pdiddy/journal-import/pkg/types"
)

const grobidResponse = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0">
	<teiHeader xml:lang="en">
		<fileDesc>
			<titleStmt><title level="a" type="main"><b>Foo</b></title></titleStmt>
			<publicationStmt><date type="published" when="2020-05-01">May 2020</date></publicationStmt>
			<sourceDesc><biblStruct><analytic>
				<author><persName><forename type="first">Jane</forename><surname>Doe</surname></persName></author>
				<author><persName><forename type="first">John</forename><surname>Smith</surname></persName></author>
			</analytic></biblStruct></sourceDesc>
		</fileDesc>
		<profileDesc><abstract><div><p>We study things.</p></div></abstract></profileDesc>
	</teiHeader>
</TEI>`

func grobidServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	calls := new(atomic.Int32)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != grobid.HeaderPath {
			http.NotFound(w, r)
			return
		}
		f, _, err := r.FormFile(grobid.InputField)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		io.Copy(io.Discard, f)
		f.Close()
		calls.Add(1)
		fmt.Fprint(w, grobidResponse)
	}))
	t.Cleanup(ts.Close)
	return ts, calls
}

func TestImport_EndToEnd(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()

	files := storage.NewLocal(filepath.Join(tmp, "files"))
	store, err := archive.NewStore(types.ArchiveConfig{DBPath: filepath.Join(tmp, "archive.db")}, files)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = store.Seed(ctx, &archive.Fixture{
		Users: []archive.UserFixture{{Username: "importer"}, {Username: "editor"}},
		Journals: []archive.JournalFixture{{
			Path:          "jas",
			Name:          "Journal of Applied Stuff",
			PrimaryLocale: "en_US",
			Sections:      []archive.SectionFixture{{Abbrev: "ART", Title: "Articles"}},
			Genres:        []archive.GenreFixture{{Key: "SUBMISSION", Name: "Article Text"}},
			UserGroups: []archive.UserGroupFixture{
				{Name: "Manager", Role: "manager", Stages: []string{"submission"}},
				{Name: "Production", Role: "manager", Stages: []string{"production"}},
				{Name: "Author", Role: "author", Stages: []string{"submission"}},
			},
		}},
	})
	require.NoError(t, err)

	src := filepath.Join(tmp, "source")
	pdfPath := filepath.Join(src, "vol1", "issue1", "1.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(pdfPath), 0o755))
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4 fake"), 0o644))

	ts, calls := grobidServer(t)
	client := grobid.NewClient(ts.URL, grobid.WithHTTPClient(ts.Client()))

	req := importer.Request{
		JournalPath:    "jas",
		Username:       "importer",
		EditorUsername: "editor",
		DefaultEmail:   "default@example.org",
		SourceDir:      src,
	}

	var out bytes.Buffer
	summary, err := importer.New(store, client, importer.WithWriter(&out)).Run(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Imported, out.String())
	assert.Empty(t, summary.Errors)
	assert.Equal(t, int32(1), calls.Load())

	journal, err := store.JournalByPath(ctx, "jas")
	require.NoError(t, err)
	list, err := store.Articles(ctx, journal.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Foo", list[0].Title)
	assert.Equal(t, "2020-05-01 00:00:00", list[0].DatePublished)
	assert.Equal(t, 2, list[0].Authors)
	assert.Equal(t, 1, list[0].Representations)

	articleID := list[0].ID
	article, err := store.Article(ctx, articleID)
	require.NoError(t, err)
	assert.Equal(t, "<div><p>We study things.</p></div>", article.Abstract["en_US"])
	assert.Equal(t, "2020-05-01 00:00:00", article.DateStatusModified)

	authors, err := store.Authors(ctx, articleID)
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Doe", authors[0].FamilyName["en_US"])
	assert.Equal(t, "Smith", authors[1].FamilyName["en_US"])
	assert.Equal(t, "default@example.org", authors[1].Email)

	assignments, err := store.StageAssignments(ctx, articleID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	editor, err := store.UserByUsername(ctx, "editor")
	require.NoError(t, err)
	assert.Equal(t, editor.ID, assignments[0].UserID)

	reps, err := store.Representations(ctx, articleID)
	require.NoError(t, err)
	require.Len(t, reps, 1)
	require.NotZero(t, reps[0].FileID)

	sf, err := store.SubmissionFile(ctx, reps[0].FileID)
	require.NoError(t, err)
	stored, err := files.Path(sf.StorageKey)
	require.NoError(t, err)
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))

	perms, err := store.ArticlePermissions(ctx, articleID)
	require.NoError(t, err)
	assert.Equal(t, "Journal of Applied Stuff", perms.CopyrightHolder)
	assert.Equal(t, "2020", perms.CopyrightYear)

	// A second run imports the same tree again as new articles.
	summary, err = importer.New(store, client).Run(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)

	list, err = store.Articles(ctx, journal.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.NotEqual(t, list[0].ID, list[1].ID)
	assert.Equal(t, int32(2), calls.Load())
}
