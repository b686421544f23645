// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tei

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pdiddy/journal-import/pkg/types"
)

// MappingError reports a required node missing from, or malformed in, a
// structured document.
type MappingError struct {
	Field  string
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping %s: %s", e.Field, e.Reason)
}

// whenLayouts are the accepted shapes of a date's when attribute.
var whenLayouts = []string{"2006-01-02", "2006-01", "2006"}

// Map derives the archive fields from a TEI header document. Title,
// abstract element and published date are required; author names are best
// effort.
func Map(doc *Document) (types.ExtractedMetadata, error) {
	var meta types.ExtractedMetadata
	if doc == nil || doc.Root == nil {
		return meta, &MappingError{Field: "document", Reason: "empty document"}
	}
	header := doc.Root.Child("teiHeader")
	if header == nil {
		return meta, &MappingError{Field: "teiHeader", Reason: "element missing"}
	}

	title := header.Path("fileDesc", "titleStmt", "title")
	if title == nil {
		return meta, &MappingError{Field: "title", Reason: "element missing"}
	}
	meta.Title = StripTags(title.InnerXML())

	abstract := header.Path("profileDesc", "abstract")
	if abstract == nil {
		return meta, &MappingError{Field: "abstract", Reason: "element missing"}
	}
	if first := abstract.FirstElement(); first != nil {
		meta.Abstract = strings.TrimSpace(first.OuterXML())
	}

	published, err := publicationDate(doc.Root)
	if err != nil {
		return meta, err
	}
	meta.PublicationDate = published

	for _, a := range doc.Root.Descendants("author") {
		pers := a.Child("persName")
		meta.Authors = append(meta.Authors, types.AuthorName{
			GivenName:  strings.TrimSpace(pers.Child("forename").Text()),
			FamilyName: strings.TrimSpace(pers.Child("surname").Text()),
		})
	}

	return meta, nil
}

// publicationDate finds the first date typed "published" anywhere in the
// document and parses its when attribute as midnight UTC.
func publicationDate(root *Element) (time.Time, error) {
	for _, d := range root.Descendants("date") {
		if typ, _ := d.AttrValue("type"); typ != "published" {
			continue
		}
		when, ok := d.AttrValue("when")
		if !ok || strings.TrimSpace(when) == "" {
			return time.Time{}, &MappingError{Field: "date", Reason: "published date has no when attribute"}
		}
		t, err := parseWhen(strings.TrimSpace(when))
		if err != nil {
			return time.Time{}, &MappingError{Field: "date", Reason: err.Error()}
		}
		return t, nil
	}
	return time.Time{}, &MappingError{Field: "date", Reason: "no published date"}
}

func parseWhen(when string) (time.Time, error) {
	for _, layout := range whenLayouts {
		if t, err := time.Parse(layout, when); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, when); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", when)
}

var strictPolicy = bluemonday.StrictPolicy()

// StripTags removes all markup from raw and returns plain text with entities
// decoded and whitespace collapsed.
func StripTags(raw string) string {
	return strings.Join(strings.Fields(html.UnescapeString(strictPolicy.Sanitize(raw))), " ")
}
