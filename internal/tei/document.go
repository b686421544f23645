// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tei parses the TEI header documents returned by GROBID and maps
// them onto the bibliographic fields the archive needs.
package tei

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Namespace is the TEI XML namespace.
const Namespace = "http://www.tei-c.org/ns/1.0"

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// Node is either an *Element or a Text.
type Node interface {
	node()
}

// Text is character data between elements.
type Text string

func (Text) node() {}

// Element is one XML element with its attributes and children in document
// order.
type Element struct {
	Name     xml.Name
	Attr     []xml.Attr
	Children []Node
}

func (*Element) node() {}

// Document is a parsed structured document.
type Document struct {
	Root *Element
}

// Parse reads a TEI document. The root element must be TEI in the TEI
// namespace.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)

	var stack []*Element
	var root *Element
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name, Attr: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, Text(string(t)))
		}
	}

	if root == nil {
		return nil, fmt.Errorf("empty document")
	}
	if root.Name.Space != Namespace || root.Name.Local != "TEI" {
		return nil, fmt.Errorf("unexpected root element {%s}%s", root.Name.Space, root.Name.Local)
	}
	return &Document{Root: root}, nil
}

// Child returns the first child element with the given local name.
func (e *Element) Child(local string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Name.Local == local {
			return el
		}
	}
	return nil
}

// Path follows Child through each name in turn. It returns nil as soon as a
// step is missing.
func (e *Element) Path(locals ...string) *Element {
	cur := e
	for _, l := range locals {
		cur = cur.Child(l)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// FirstElement returns the first child that is an element.
func (e *Element) FirstElement() *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			return el
		}
	}
	return nil
}

// Descendants returns every element below e with the given local name, in
// document order.
func (e *Element) Descendants(local string) []*Element {
	var out []*Element
	var visit func(*Element)
	visit = func(el *Element) {
		for _, c := range el.Children {
			child, ok := c.(*Element)
			if !ok {
				continue
			}
			if child.Name.Local == local {
				out = append(out, child)
			}
			visit(child)
		}
	}
	if e != nil {
		visit(e)
	}
	return out
}

// AttrValue returns the value of the unqualified attribute name.
func (e *Element) AttrValue(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Text concatenates all character data below e.
func (e *Element) Text() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	var visit func(*Element)
	visit = func(el *Element) {
		for _, c := range el.Children {
			switch n := c.(type) {
			case Text:
				b.WriteString(string(n))
			case *Element:
				visit(n)
			}
		}
	}
	visit(e)
	return b.String()
}

// InnerXML renders the children of e as markup.
func (e *Element) InnerXML() string {
	var b strings.Builder
	if e != nil {
		for _, c := range e.Children {
			writeNode(&b, c)
		}
	}
	return b.String()
}

// OuterXML renders e and its children as markup. Element names are written
// unprefixed and namespace declarations are dropped.
func (e *Element) OuterXML() string {
	var b strings.Builder
	if e != nil {
		writeNode(&b, e)
	}
	return b.String()
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

func writeNode(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case Text:
		b.WriteString(textEscaper.Replace(string(v)))
	case *Element:
		b.WriteByte('<')
		b.WriteString(v.Name.Local)
		for _, a := range v.Attr {
			name, ok := attrName(a.Name)
			if !ok {
				continue
			}
			fmt.Fprintf(b, ` %s="%s"`, name, attrEscaper.Replace(a.Value))
		}
		if len(v.Children) == 0 {
			b.WriteString("/>")
			return
		}
		b.WriteByte('>')
		for _, c := range v.Children {
			writeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(v.Name.Local)
		b.WriteByte('>')
	}
}

// attrName returns the rendered attribute name, or false for namespace
// declarations.
func attrName(n xml.Name) (string, bool) {
	switch {
	case n.Space == "" && n.Local == "xmlns":
		return "", false
	case n.Space == "xmlns":
		return "", false
	case n.Space == xmlNamespace:
		return "xml:" + n.Local, true
	default:
		return n.Local, true
	}
}
