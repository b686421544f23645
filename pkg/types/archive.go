// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// ErrNotFound is returned by archive lookups when no record matches.
var ErrNotFound = errors.New("not found")

// SubmissionStatus is the publication status of an article.
type SubmissionStatus int

const (
	StatusQueued    SubmissionStatus = 1
	StatusPublished SubmissionStatus = 3
	StatusDeclined  SubmissionStatus = 4
)

// WorkflowStage identifies an editorial workflow stage.
type WorkflowStage int

const (
	StageSubmission     WorkflowStage = 1
	StageInternalReview WorkflowStage = 2
	StageExternalReview WorkflowStage = 3
	StageEditing        WorkflowStage = 4
	StageProduction     WorkflowStage = 5
)

// stageNames maps fixture names to stages.
var stageNames = map[string]WorkflowStage{
	"submission":      StageSubmission,
	"internal_review": StageInternalReview,
	"external_review": StageExternalReview,
	"editing":         StageEditing,
	"production":      StageProduction,
}

// ParseWorkflowStage resolves a stage name such as "production".
func ParseWorkflowStage(name string) (WorkflowStage, bool) {
	s, ok := stageNames[name]
	return s, ok
}

// Role identifies the role a user group grants.
type Role int

const (
	RoleManager   Role = 0x00000010
	RoleSubEditor Role = 0x00000011
	RoleAuthor    Role = 0x00010000
	RoleReviewer  Role = 0x00001000
	RoleAssistant Role = 0x00001001
	RoleReader    Role = 0x00100000
)

var roleNames = map[string]Role{
	"manager":    RoleManager,
	"sub_editor": RoleSubEditor,
	"author":     RoleAuthor,
	"reviewer":   RoleReviewer,
	"assistant":  RoleAssistant,
	"reader":     RoleReader,
}

// ParseRole resolves a role name such as "manager".
func ParseRole(name string) (Role, bool) {
	r, ok := roleNames[name]
	return r, ok
}

// AccessStatus controls who may read a published article.
type AccessStatus int

const (
	AccessIssueDefault AccessStatus = 0
	AccessOpen         AccessStatus = 1
)

// FileStage is the stage a submission file belongs to.
type FileStage int

const (
	FileStageSubmission FileStage = 2
	FileStageProof      FileStage = 10
)

// AssocType names the kind of record a submission file is attached to.
type AssocType int

const AssocRepresentation AssocType = 0x0000212

// Journal is an archive journal.
type Journal struct {
	ID            int64  `json:"id" yaml:"id"`
	Path          string `json:"path" yaml:"path"`
	Name          string `json:"name" yaml:"name"`
	PrimaryLocale string `json:"primary_locale" yaml:"primary_locale"`
	LicenseURL    string `json:"license_url,omitempty" yaml:"license_url,omitempty"`
}

// User is an archive account.
type User struct {
	ID       int64  `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email" yaml:"email"`
}

// Section is a journal section articles are filed under.
type Section struct {
	ID        int64  `json:"id" yaml:"id"`
	JournalID int64  `json:"journal_id" yaml:"journal_id"`
	Abbrev    string `json:"abbrev" yaml:"abbrev"`
	Title     string `json:"title" yaml:"title"`
}

// Genre classifies submission files.
type Genre struct {
	ID        int64  `json:"id" yaml:"id"`
	JournalID int64  `json:"journal_id" yaml:"journal_id"`
	Key       string `json:"key" yaml:"key"`
	Name      string `json:"name" yaml:"name"`
}

// Article is the archive-side submission. Title and Abstract are keyed by
// locale.
type Article struct {
	ID                 int64
	JournalID          int64
	SectionID          int64
	Locale             string
	Language           string
	Status             SubmissionStatus
	StageID            WorkflowStage
	SubmissionProgress int
	Title              map[string]string
	Abstract           map[string]string
	DateSubmitted      string
	DateStatusModified string
}

// Author is one contributor record attached to an article.
type Author struct {
	ID              int64
	SubmissionID    int64
	GivenName       map[string]string
	FamilyName      map[string]string
	Email           string
	Sequence        int
	PrimaryContact  bool
	IncludeInBrowse bool
	// UserGroupID is zero when the journal has no author group.
	UserGroupID int64
}

// StageAssignment links a user, through a user group, to a workflow stage
// of an article.
type StageAssignment struct {
	ID           int64
	SubmissionID int64
	UserGroupID  int64
	UserID       int64
}

// PublishedArticle places an article in an issue.
type PublishedArticle struct {
	ArticleID     int64
	SectionID     int64
	IssueID       int64
	DatePublished string
	AccessStatus  AccessStatus
	Sequence      int64
}

// Representation is a publishable rendition (galley) of an article.
type Representation struct {
	ID           int64
	SubmissionID int64
	Name         map[string]string
	Sequence     int
	Label        string
	Locale       string
	// FileID is zero until the submission file has been copied.
	FileID int64
}

// SubmissionFileCopy describes a source file to copy into managed storage.
type SubmissionFileCopy struct {
	JournalID    int64
	SubmissionID int64
	SourcePath   string
	FileStage    FileStage
	UploaderID   int64
	GenreID      int64
	AssocType    AssocType
	AssocID      int64
}

// SubmissionFile is a file held in managed storage.
type SubmissionFile struct {
	FileID       int64
	SubmissionID int64
	FileStage    FileStage
	GenreID      int64
	OriginalName string
	StorageKey   string
	Size         int64
	PageCount    int
}
