// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DateTimeLayout is the fixed timestamp representation the archive stores
// ("2020-05-01 00:00:00").
const DateTimeLayout = "2006-01-02 15:04:05"

// AuthorName is one author as read from the extracted document. Either part
// may be empty; names are best effort.
type AuthorName struct {
	GivenName  string `json:"given_name" yaml:"given_name"`
	FamilyName string `json:"family_name" yaml:"family_name"`
}

// ExtractedMetadata holds the bibliographic fields recovered from one PDF.
type ExtractedMetadata struct {
	// Title is plain text with all markup removed.
	Title string `json:"title" yaml:"title"`

	// Abstract keeps inline markup.
	Abstract string `json:"abstract" yaml:"abstract"`

	// PublicationDate is midnight UTC of the published date.
	PublicationDate time.Time `json:"publication_date" yaml:"publication_date"`

	// Authors lists the authors in document order.
	Authors []AuthorName `json:"authors" yaml:"authors"`
}

// PublishedAt returns PublicationDate in DateTimeLayout.
func (m ExtractedMetadata) PublishedAt() string {
	return m.PublicationDate.Format(DateTimeLayout)
}
