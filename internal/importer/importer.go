// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package importer walks a volume/issue/article directory tree of PDFs and
// creates one published archive article per PDF from the metadata the
// extraction service recovers.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/journal-import/internal/tei"
	"github.com/pdiddy/journal-import/internal/walk"
	"github.com/pdiddy/journal-import/pkg/types"
)

// Archive is the publication archive the importer reads reference data
// from and writes article records into. Lookups return an error wrapping
// types.ErrNotFound when nothing matches.
type Archive interface {
	JournalByPath(ctx context.Context, path string) (*types.Journal, error)
	UserByUsername(ctx context.Context, username string) (*types.User, error)
	SectionByAbbrev(ctx context.Context, journalID int64, abbrev string) (*types.Section, error)
	UserGroupIDsByRole(ctx context.Context, journalID int64, role types.Role) ([]int64, error)
	UserGroupAssignedToStage(ctx context.Context, groupID int64, stage types.WorkflowStage) (bool, error)
	GenreByKey(ctx context.Context, journalID int64, key string) (*types.Genre, error)

	InsertArticle(ctx context.Context, a *types.Article) (int64, error)
	InsertAuthor(ctx context.Context, a *types.Author) (int64, error)
	AssignStage(ctx context.Context, sa *types.StageAssignment) (int64, error)
	InsertPublishedArticle(ctx context.Context, p *types.PublishedArticle) error
	InitializePermissions(ctx context.Context, articleID int64) error
	InsertRepresentation(ctx context.Context, r *types.Representation) (int64, error)
	UpdateRepresentation(ctx context.Context, r *types.Representation) error
	CopySubmissionFile(ctx context.Context, c types.SubmissionFileCopy) (*types.SubmissionFile, error)
}

// Extractor turns PDF bytes into a structured header document.
type Extractor interface {
	ProcessHeader(ctx context.Context, pdf []byte, filename string) (*tei.Document, error)
}

// State is the lifecycle position of an Importer.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateImporting
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateImporting:
		return "importing"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Request holds the five arguments of one import run.
type Request struct {
	JournalPath    string
	Username       string
	EditorUsername string
	DefaultEmail   string
	SourceDir      string
}

// ArticleResult is the outcome of one article file.
type ArticleResult struct {
	Volume    string
	Issue     string
	File      string
	Path      string
	ArticleID int64
	Title     string
	Err       *types.ImportError
}

// Summary holds the outcome of an import run.
type Summary struct {
	Imported int
	Failed   int
	Errors   []types.ImportError
	Articles []ArticleResult
}

// Total returns the number of article files processed.
func (s Summary) Total() int {
	return s.Imported + s.Failed
}

// HasFailures reports whether any article or directory failed.
func (s Summary) HasFailures() bool {
	return len(s.Errors) > 0
}

// Importer runs imports against one archive and one extractor.
type Importer struct {
	archive   Archive
	extractor Extractor
	cfg       types.ImportConfig
	w         io.Writer
	log       *slog.Logger
	validate  *validator.Validate
	now       func() time.Time
	state     State
}

// Option configures an Importer.
type Option func(*Importer)

// WithConfig sets the values stamped onto every article. Empty fields take
// their defaults.
func WithConfig(cfg types.ImportConfig) Option {
	return func(im *Importer) {
		im.cfg = cfg.WithDefaults()
	}
}

// WithWriter sets where per-article progress lines are written.
func WithWriter(w io.Writer) Option {
	return func(im *Importer) {
		im.w = w
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(im *Importer) {
		im.log = l
	}
}

// WithClock overrides the time source for submission dates.
func WithClock(now func() time.Time) Option {
	return func(im *Importer) {
		im.now = now
	}
}

// New returns an Importer in StateIdle.
func New(archive Archive, extractor Extractor, opts ...Option) *Importer {
	im := &Importer{
		archive:   archive,
		extractor: extractor,
		cfg:       types.ImportConfig{}.WithDefaults(),
		w:         io.Discard,
		log:       slog.New(slog.DiscardHandler),
		validate:  validator.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// State returns the importer's lifecycle position.
func (im *Importer) State() State {
	return im.state
}

// Run validates req and imports every article under req.SourceDir in
// natural order. Precondition failures and an unreadable source directory
// return an error before anything is written. Per-article and per-directory
// failures are recorded in the summary and the run continues.
func (im *Importer) Run(ctx context.Context, req Request) (Summary, error) {
	var summary Summary

	im.state = StateValidating
	run, err := im.checkPreconditions(ctx, req)
	if err != nil {
		im.state = StateFinished
		return summary, err
	}

	im.state = StateImporting
	defer func() { im.state = StateFinished }()

	im.log.Info("import started",
		"journal", run.journal.Path, "user", run.user.Username,
		"editor", run.editor.Username, "source", run.root)

	volumes, err := walk.Volumes(run.root)
	if err != nil {
		return summary, fmt.Errorf("reading source directory: %w", err)
	}

	for _, vol := range volumes {
		issues, err := walk.Issues(vol.Path)
		if err != nil {
			im.recordDirectory(&summary, vol.Name, "", vol.Path, err)
			continue
		}
		for _, iss := range issues {
			articles, err := walk.Articles(iss.Path)
			if err != nil {
				im.recordDirectory(&summary, vol.Name, iss.Name, iss.Path, err)
				continue
			}
			for _, file := range articles {
				if err := ctx.Err(); err != nil {
					return summary, err
				}
				ac := &articleContext{run: run, volume: vol, issue: iss, file: file}
				im.record(&summary, ac, im.importArticle(ctx, ac))
			}
		}
	}

	fmt.Fprintf(im.w, "\nimported: %d, failed: %d, errors: %d\n",
		summary.Imported, summary.Failed, len(summary.Errors))
	im.log.Info("import finished",
		"imported", summary.Imported, "failed", summary.Failed, "errors", len(summary.Errors))
	return summary, nil
}

func (im *Importer) record(summary *Summary, ac *articleContext, ierr *types.ImportError) {
	res := ArticleResult{
		Volume:    ac.volume.Name,
		Issue:     ac.issue.Name,
		File:      ac.file.Name,
		Path:      ac.file.Path,
		ArticleID: ac.articleID,
		Title:     ac.meta.Title,
		Err:       ierr,
	}
	summary.Articles = append(summary.Articles, res)

	label := ac.label()
	if ierr != nil {
		summary.Failed++
		summary.Errors = append(summary.Errors, *ierr)
		fmt.Fprintf(im.w, "failed:  %s (%s)\n", label, ierr.Code)
		im.log.Warn("article failed", "article", label, "code", string(ierr.Code),
			"reason", ierr.Context[types.CtxReason], "article_id", ac.articleID)
		return
	}
	summary.Imported++
	fmt.Fprintf(im.w, "imported: %s (article %d)\n", label, ac.articleID)
	im.log.Info("article imported", "article", label, "article_id", ac.articleID, "title", ac.meta.Title)
}

func (im *Importer) recordDirectory(summary *Summary, volume, issue, path string, err error) {
	ierr := types.ImportError{
		Code: types.ErrCodeUnreadableDirectory,
		Context: map[string]string{
			types.CtxVolume: volume,
			types.CtxPath:   path,
			types.CtxReason: err.Error(),
		},
	}
	if issue != "" {
		ierr.Context[types.CtxIssue] = issue
	}
	summary.Errors = append(summary.Errors, ierr)
	fmt.Fprintf(im.w, "failed:  %s (%s)\n", path, ierr.Code)
	im.log.Warn("directory skipped", "path", path, "error", err)
}
