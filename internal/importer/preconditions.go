// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/journal-import/pkg/types"
)

// PreconditionCode names a check that must pass before anything is
// imported.
type PreconditionCode string

const (
	CodeMissingArgument  PreconditionCode = "missingArgument"
	CodeUnknownJournal   PreconditionCode = "unknownJournal"
	CodeUnknownUser      PreconditionCode = "unknownUser"
	CodeUnknownEditor    PreconditionCode = "unknownEditor"
	CodeFileDoesNotExist PreconditionCode = "fileDoesNotExist"
	CodeInvalidEmail     PreconditionCode = "invalidEmail"
)

// PreconditionError ends a run before traversal starts.
type PreconditionError struct {
	Code  PreconditionCode
	Value string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %q", e.Code, e.Value)
}

// run is the state resolved once per import and shared by every article.
type run struct {
	journal      *types.Journal
	user         *types.User
	editor       *types.User
	defaultEmail string
	root         string
}

func (im *Importer) checkPreconditions(ctx context.Context, req Request) (*run, error) {
	for _, arg := range []struct{ name, value string }{
		{"journal", req.JournalPath},
		{"user", req.Username},
		{"editor", req.EditorUsername},
		{"email", req.DefaultEmail},
		{"source", req.SourceDir},
	} {
		if strings.TrimSpace(arg.value) == "" {
			return nil, &PreconditionError{Code: CodeMissingArgument, Value: arg.name}
		}
	}

	journal, err := im.archive.JournalByPath(ctx, req.JournalPath)
	if err != nil {
		return nil, lookupFailure(err, CodeUnknownJournal, req.JournalPath)
	}
	user, err := im.archive.UserByUsername(ctx, req.Username)
	if err != nil {
		return nil, lookupFailure(err, CodeUnknownUser, req.Username)
	}
	editor, err := im.archive.UserByUsername(ctx, req.EditorUsername)
	if err != nil {
		return nil, lookupFailure(err, CodeUnknownEditor, req.EditorUsername)
	}

	root := strings.TrimRight(req.SourceDir, "/")
	if root == "" {
		root = "/"
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, &PreconditionError{Code: CodeFileDoesNotExist, Value: req.SourceDir}
	}

	if err := im.validate.Var(req.DefaultEmail, "required,email"); err != nil {
		return nil, &PreconditionError{Code: CodeInvalidEmail, Value: req.DefaultEmail}
	}

	return &run{
		journal:      journal,
		user:         user,
		editor:       editor,
		defaultEmail: req.DefaultEmail,
		root:         root,
	}, nil
}

func lookupFailure(err error, code PreconditionCode, value string) error {
	if errors.Is(err, types.ErrNotFound) {
		return &PreconditionError{Code: code, Value: value}
	}
	return fmt.Errorf("checking %s: %w", code, err)
}
