// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/pdiddy/journal-import/internal/tei"
	"github.com/pdiddy/journal-import/internal/walk"
	"github.com/pdiddy/journal-import/pkg/types"
)

const (
	representationLabel = "PDF"
	firstSequence       = 1
)

// articleContext carries everything one article's steps produce and
// consume. It is discarded when the article is done.
type articleContext struct {
	run    *run
	volume walk.Entry
	issue  walk.Entry
	file   walk.Entry

	meta           types.ExtractedMetadata
	section        *types.Section
	articleID      int64
	representation *types.Representation
}

func (ac *articleContext) label() string {
	return path.Join(ac.volume.Name, ac.issue.Name, ac.file.Name)
}

func (ac *articleContext) fail(code types.ImportErrorCode, err error) *types.ImportError {
	return &types.ImportError{
		Code: code,
		Context: map[string]string{
			types.CtxVolume:  ac.volume.Name,
			types.CtxIssue:   ac.issue.Name,
			types.CtxArticle: ac.file.Name,
			types.CtxPath:    ac.file.Path,
			types.CtxReason:  err.Error(),
		},
	}
}

// writeFailed records archiveWriteFailed for err.
func (ac *articleContext) writeFailed(step string, err error) *types.ImportError {
	return ac.fail(types.ErrCodeArchiveWriteFailed, fmt.Errorf("%s: %w", step, err))
}

// importArticle runs the extraction and record steps for one PDF, stopping
// at the first failure. Records written before a failure stay.
func (im *Importer) importArticle(ctx context.Context, ac *articleContext) *types.ImportError {
	steps := []func(context.Context, *articleContext) *types.ImportError{
		im.extract,
		im.insertArticle,
		im.insertAuthors,
		im.assignEditor,
		im.publish,
		im.initializePermissions,
		im.insertRepresentation,
		im.attachFile,
	}
	for _, step := range steps {
		if ierr := step(ctx, ac); ierr != nil {
			return ierr
		}
	}
	return nil
}

func (im *Importer) extract(ctx context.Context, ac *articleContext) *types.ImportError {
	data, err := os.ReadFile(ac.file.Path)
	if err != nil {
		return ac.fail(types.ErrCodeReadFailed, err)
	}
	doc, err := im.extractor.ProcessHeader(ctx, data, ac.file.Name)
	if err != nil {
		return ac.fail(types.ErrCodeExtractionFailed, err)
	}
	meta, err := tei.Map(doc)
	if err != nil {
		return ac.fail(types.ErrCodeMappingFailed, err)
	}
	ac.meta = meta
	im.log.Debug("metadata extracted", "article", ac.label(),
		"title", meta.Title, "published", meta.PublishedAt(), "authors", len(meta.Authors))
	return nil
}

func (im *Importer) insertArticle(ctx context.Context, ac *articleContext) *types.ImportError {
	j := ac.run.journal
	section, err := im.archive.SectionByAbbrev(ctx, j.ID, im.cfg.SectionAbbrev)
	if errors.Is(err, types.ErrNotFound) {
		return ac.fail(types.ErrCodeMissingSection, err)
	}
	if err != nil {
		return ac.writeFailed("resolving section", err)
	}
	ac.section = section

	article := &types.Article{
		JournalID:          j.ID,
		SectionID:          section.ID,
		Locale:             j.PrimaryLocale,
		Language:           im.cfg.Language,
		Status:             types.StatusPublished,
		StageID:            types.StageProduction,
		SubmissionProgress: 0,
		Title:              map[string]string{j.PrimaryLocale: ac.meta.Title},
		Abstract:           map[string]string{j.PrimaryLocale: ac.meta.Abstract},
		DateSubmitted:      im.now().UTC().Format(types.DateTimeLayout),
		DateStatusModified: ac.meta.PublishedAt(),
	}
	id, err := im.archive.InsertArticle(ctx, article)
	if err != nil {
		return ac.writeFailed("inserting article", err)
	}
	ac.articleID = id
	return nil
}

func (im *Importer) insertAuthors(ctx context.Context, ac *articleContext) *types.ImportError {
	j := ac.run.journal
	groups, err := im.archive.UserGroupIDsByRole(ctx, j.ID, types.RoleAuthor)
	if err != nil {
		return ac.writeFailed("resolving author group", err)
	}
	var groupID int64
	if len(groups) > 0 {
		groupID = groups[0]
	}

	for _, name := range ac.meta.Authors {
		_, err := im.archive.InsertAuthor(ctx, &types.Author{
			SubmissionID:    ac.articleID,
			GivenName:       map[string]string{j.PrimaryLocale: name.GivenName},
			FamilyName:      map[string]string{j.PrimaryLocale: name.FamilyName},
			Email:           ac.run.defaultEmail,
			Sequence:        firstSequence,
			PrimaryContact:  true,
			IncludeInBrowse: true,
			UserGroupID:     groupID,
		})
		if err != nil {
			return ac.writeFailed("inserting author", err)
		}
	}
	return nil
}

func (im *Importer) assignEditor(ctx context.Context, ac *articleContext) *types.ImportError {
	groups, err := im.archive.UserGroupIDsByRole(ctx, ac.run.journal.ID, types.RoleManager)
	if err != nil {
		return ac.writeFailed("resolving editor group", err)
	}

	var groupID int64
	for _, id := range groups {
		ok, err := im.archive.UserGroupAssignedToStage(ctx, id, types.StageProduction)
		if err != nil {
			return ac.writeFailed("resolving editor group", err)
		}
		if ok {
			groupID = id
			break
		}
	}
	if groupID == 0 {
		return ac.fail(types.ErrCodeMissingEditorGroup,
			fmt.Errorf("no manager group is assigned to the production stage"))
	}

	_, err = im.archive.AssignStage(ctx, &types.StageAssignment{
		SubmissionID: ac.articleID,
		UserGroupID:  groupID,
		UserID:       ac.run.editor.ID,
	})
	if err != nil {
		return ac.writeFailed("assigning editor", err)
	}
	return nil
}

func (im *Importer) publish(ctx context.Context, ac *articleContext) *types.ImportError {
	err := im.archive.InsertPublishedArticle(ctx, &types.PublishedArticle{
		ArticleID:     ac.articleID,
		SectionID:     ac.section.ID,
		IssueID:       im.cfg.IssueID,
		DatePublished: ac.meta.PublishedAt(),
		AccessStatus:  types.AccessOpen,
		Sequence:      ac.articleID,
	})
	if err != nil {
		return ac.writeFailed("inserting published article", err)
	}
	return nil
}

func (im *Importer) initializePermissions(ctx context.Context, ac *articleContext) *types.ImportError {
	if err := im.archive.InitializePermissions(ctx, ac.articleID); err != nil {
		return ac.writeFailed("initializing permissions", err)
	}
	return nil
}

func (im *Importer) insertRepresentation(ctx context.Context, ac *articleContext) *types.ImportError {
	locale := ac.run.journal.PrimaryLocale
	rep := &types.Representation{
		SubmissionID: ac.articleID,
		Name:         map[string]string{locale: ac.file.Name},
		Sequence:     firstSequence,
		Label:        representationLabel,
		Locale:       locale,
	}
	id, err := im.archive.InsertRepresentation(ctx, rep)
	if err != nil {
		return ac.writeFailed("inserting representation", err)
	}
	rep.ID = id
	ac.representation = rep
	return nil
}

func (im *Importer) attachFile(ctx context.Context, ac *articleContext) *types.ImportError {
	j := ac.run.journal
	genre, err := im.archive.GenreByKey(ctx, j.ID, im.cfg.GenreKey)
	if errors.Is(err, types.ErrNotFound) {
		return ac.fail(types.ErrCodeMissingGenre, err)
	}
	if err != nil {
		return ac.writeFailed("resolving genre", err)
	}

	file, err := im.archive.CopySubmissionFile(ctx, types.SubmissionFileCopy{
		JournalID:    j.ID,
		SubmissionID: ac.articleID,
		SourcePath:   ac.file.Path,
		FileStage:    types.FileStageProof,
		UploaderID:   ac.run.user.ID,
		GenreID:      genre.ID,
		AssocType:    types.AssocRepresentation,
		AssocID:      ac.representation.ID,
	})
	if err != nil {
		return ac.writeFailed("copying submission file", err)
	}

	ac.representation.FileID = file.FileID
	if err := im.archive.UpdateRepresentation(ctx, ac.representation); err != nil {
		return ac.writeFailed("updating representation", err)
	}
	return nil
}
