// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tei

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/journal-import/pkg/types"
)

const sampleTEI = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xml:space="preserve" xmlns="http://www.tei-c.org/ns/1.0" xmlns:xlink="http://www.w3.org/1999/xlink">
	<teiHeader xml:lang="en">
		<fileDesc>
			<titleStmt>
				<title level="a" type="main"><b>Foo</b></title>
			</titleStmt>
			<publicationStmt>
				<publisher>Example Press</publisher>
				<availability status="unknown"><licence/></availability>
				<date type="published" when="2020-05-01">1 May 2020</date>
			</publicationStmt>
			<sourceDesc>
				<biblStruct>
					<analytic>
						<author>
							<persName><forename type="first">Jane</forename><surname>Doe</surname></persName>
							<email>jane@example.org</email>
						</author>
						<author>
							<persName><forename type="first">John</forename><forename type="middle">Q</forename><surname>Smith</surname></persName>
						</author>
						<title level="a" type="main">Foo</title>
					</analytic>
					<monogr>
						<imprint><date type="published" when="2019-01-01"/></imprint>
					</monogr>
				</biblStruct>
			</sourceDesc>
		</fileDesc>
		<profileDesc>
			<abstract>
				<div xmlns="http://www.tei-c.org/ns/1.0"><p>We study <hi rend="italic">things</hi> &amp; stuff.</p></div>
				<div><p>Second block.</p></div>
			</abstract>
		</profileDesc>
	</teiHeader>
	<text xml:lang="en"/>
</TEI>`

func mustParse(t *testing.T, doc string) *Document {
	t.Helper()
	d, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return d
}

func TestMap_SampleDocument(t *testing.T) {
	meta, err := Map(mustParse(t, sampleTEI))
	require.NoError(t, err)

	assert.Equal(t, "Foo", meta.Title)
	assert.Equal(t, `<div><p>We study <hi rend="italic">things</hi> &amp; stuff.</p></div>`, meta.Abstract)
	assert.Equal(t, "2020-05-01 00:00:00", meta.PublishedAt())
	assert.Equal(t, []types.AuthorName{
		{GivenName: "Jane", FamilyName: "Doe"},
		{GivenName: "John", FamilyName: "Smith"},
	}, meta.Authors)
}

// teiWith builds a minimal document from header fragments.
func teiWith(title, abstract, date, authors string) string {
	return `<TEI xmlns="http://www.tei-c.org/ns/1.0"><teiHeader><fileDesc>` +
		title + `<publicationStmt>` + date + `</publicationStmt>` +
		`<sourceDesc><biblStruct><analytic>` + authors + `</analytic></biblStruct></sourceDesc>` +
		`</fileDesc><profileDesc>` + abstract + `</profileDesc></teiHeader></TEI>`
}

const (
	okTitle    = `<titleStmt><title>T</title></titleStmt>`
	okAbstract = `<abstract><div><p>A</p></div></abstract>`
	okDate     = `<date type="published" when="2020-05-01"/>`
)

func TestMap_Title(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"bold markup", `<titleStmt><title><b>Foo</b></title></titleStmt>`, "Foo"},
		{"nested hi", `<titleStmt><title>On <hi rend="italic">E. coli</hi> growth</title></titleStmt>`, "On E. coli growth"},
		{"entities decoded", `<titleStmt><title>Cats &amp; Dogs</title></titleStmt>`, "Cats & Dogs"},
		{"whitespace collapsed", "<titleStmt><title>\n  Long\n  title  </title></titleStmt>", "Long title"},
		{"first title wins", `<titleStmt><title>One</title><title>Two</title></titleStmt>`, "One"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := Map(mustParse(t, teiWith(tt.title, okAbstract, okDate, "")))
			require.NoError(t, err)
			assert.Equal(t, tt.want, meta.Title)
		})
	}
}

func TestMap_PublicationDate(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{"full date", `<date type="published" when="2020-05-01"/>`, "2020-05-01 00:00:00"},
		{"year and month", `<date type="published" when="2018-11"/>`, "2018-11-01 00:00:00"},
		{"year only", `<date type="published" when="1999"/>`, "1999-01-01 00:00:00"},
		{"timestamp truncated", `<date type="published" when="2021-03-04T10:11:12Z"/>`, "2021-03-04 00:00:00"},
		{"other date types ignored", `<date type="submitted" when="2001-01-01"/><date type="published" when="2002-02-02"/>`, "2002-02-02 00:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := Map(mustParse(t, teiWith(okTitle, okAbstract, tt.date, "")))
			require.NoError(t, err)
			assert.Equal(t, tt.want, meta.PublishedAt())
		})
	}
}

func TestMap_Authors(t *testing.T) {
	authors := `<author><persName><forename>Jane</forename><surname>Doe</surname></persName></author>` +
		`<author><persName><surname>Plato</surname></persName></author>` +
		`<author><affiliation>Somewhere</affiliation></author>` +
		`<author><persName><forename>jane</forename><surname>doe</surname></persName></author>`

	meta, err := Map(mustParse(t, teiWith(okTitle, okAbstract, okDate, authors)))
	require.NoError(t, err)
	assert.Equal(t, []types.AuthorName{
		{GivenName: "Jane", FamilyName: "Doe"},
		{GivenName: "", FamilyName: "Plato"},
		{GivenName: "", FamilyName: ""},
		{GivenName: "jane", FamilyName: "doe"},
	}, meta.Authors)
}

func TestMap_NoAuthors(t *testing.T) {
	meta, err := Map(mustParse(t, teiWith(okTitle, okAbstract, okDate, "")))
	require.NoError(t, err)
	assert.Empty(t, meta.Authors)
}

func TestMap_EmptyAbstract(t *testing.T) {
	meta, err := Map(mustParse(t, teiWith(okTitle, `<abstract/>`, okDate, "")))
	require.NoError(t, err)
	assert.Equal(t, "", meta.Abstract)
}

func TestMap_MissingRequiredNodes(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantField string
	}{
		{"no header", `<TEI xmlns="http://www.tei-c.org/ns/1.0"><text/></TEI>`, "teiHeader"},
		{"no title", teiWith(`<titleStmt/>`, okAbstract, okDate, ""), "title"},
		{"no abstract", teiWith(okTitle, "", okDate, ""), "abstract"},
		{"no published date", teiWith(okTitle, okAbstract, `<date type="submitted" when="2020-01-01"/>`, ""), "date"},
		{"no when", teiWith(okTitle, okAbstract, `<date type="published">May 2020</date>`, ""), "date"},
		{"bad when", teiWith(okTitle, okAbstract, `<date type="published" when="05/01/2020"/>`, ""), "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Map(mustParse(t, tt.doc))
			require.Error(t, err)
			var me *MappingError
			require.True(t, errors.As(err, &me), "want *MappingError, got %T", err)
			assert.Equal(t, tt.wantField, me.Field)
		})
	}
}

func TestMap_NilDocument(t *testing.T) {
	_, err := Map(nil)
	require.Error(t, err)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"not xml", "<html><body>oops"},
		{"wrong root", `<TEI><teiHeader/></TEI>`},
		{"wrong element", `<feed xmlns="http://www.tei-c.org/ns/1.0"/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestElement_OuterXML(t *testing.T) {
	doc := mustParse(t, `<TEI xmlns="http://www.tei-c.org/ns/1.0" xmlns:x="urn:x"><p xml:lang="en" n="1">a &lt; b<lb/>"q"</p></TEI>`)
	p := doc.Root.Child("p")
	require.NotNil(t, p)
	assert.Equal(t, `<p xml:lang="en" n="1">a &lt; b<lb/>"q"</p>`, p.OuterXML())
	assert.Equal(t, `a < b"q"`, p.Text())
}
