// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"sort"
	"strings"
)

// ImportErrorCode classifies a recoverable import failure.
type ImportErrorCode string

const (
	ErrCodeReadFailed          ImportErrorCode = "readFailed"
	ErrCodeExtractionFailed    ImportErrorCode = "extractionFailed"
	ErrCodeMappingFailed       ImportErrorCode = "mappingFailed"
	ErrCodeMissingSection      ImportErrorCode = "missingSection"
	ErrCodeMissingEditorGroup  ImportErrorCode = "missingEditorGroup"
	ErrCodeMissingGenre        ImportErrorCode = "missingGenre"
	ErrCodeArchiveWriteFailed  ImportErrorCode = "archiveWriteFailed"
	ErrCodeUnreadableDirectory ImportErrorCode = "unreadableDirectory"
)

// Context keys used in ImportError.Context.
const (
	CtxVolume  = "volume"
	CtxIssue   = "issue"
	CtxArticle = "article"
	CtxPath    = "path"
	CtxReason  = "reason"
)

// ImportError records one recoverable failure. It never aborts the run.
type ImportError struct {
	Code    ImportErrorCode   `json:"code" yaml:"code"`
	Context map[string]string `json:"context,omitempty" yaml:"context,omitempty"`
}

// Error renders the code followed by the context in key order.
func (e *ImportError) Error() string {
	if len(e.Context) == 0 {
		return string(e.Code)
	}
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%s", k, e.Context[k])
	}
	return fmt.Sprintf("%s (%s)", e.Code, strings.Join(parts, ", "))
}
