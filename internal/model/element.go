// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// internal/model/element.go

// Package model defines the typed document tree that the rest of the engine
// operates on: a discriminated union of element variants, each carrying the
// tags/style/attribs annotation record described in spec §3.1.
package model

// Type identifies an element's concrete variant, or the abstract
// ParagraphElement capability.
type Type string

const (
	TypeTextRun    Type = "TextRun"
	TypeChips      Type = "Chips"
	TypeParagraph  Type = "Paragraph"
	TypeBulletItem Type = "BulletItem"
	TypeBulletList Type = "BulletList"
	TypeTable      Type = "Table"
	TypeDocContent Type = "DocContent"
	TypeSection    Type = "Section"
	TypeDocument   Type = "Document"

	// TypeParagraphElement never appears as a concrete element's Type(); the
	// matcher treats it as polymorphic shorthand for "any ParagraphElement".
	TypeParagraphElement Type = "ParagraphElement"
)

// Annotations is the common tags/style/attribs record every element carries
// (spec §3.1). It is embedded by value in every variant struct below; its
// methods use a pointer receiver so they promote correctly onto the pointer
// types (*TextRun, *Paragraph, ...) that implement Element.
type Annotations struct {
	Tags    map[string]string
	Style   map[string]string
	Attribs map[string]string
}

func newAnnotations() Annotations {
	return Annotations{
		Tags:    map[string]string{},
		Style:   map[string]string{},
		Attribs: map[string]string{},
	}
}

// GetTags returns the element's tag map.
func (a *Annotations) GetTags() map[string]string { return a.Tags }

// GetStyle returns the element's style map.
func (a *Annotations) GetStyle() map[string]string { return a.Style }

// GetAttribs returns the element's structural attribute map.
func (a *Annotations) GetAttribs() map[string]string { return a.Attribs }

// ClearTags removes every tag, used by tag_matching's "remove: '*'" directive.
func (a *Annotations) ClearTags() {
	for k := range a.Tags {
		delete(a.Tags, k)
	}
}

// Element is implemented by every node in the document tree.
type Element interface {
	Type() Type
	GetTags() map[string]string
	GetStyle() map[string]string
	GetAttribs() map[string]string
	ClearTags()
}

// ParagraphElement is the capability interface for leaves that may appear
// inline within a Paragraph (TextRun, Chips). Matchers targeting
// TypeParagraphElement dispatch on this interface rather than on a concrete
// Type, per the "capability set, not inheritance" design note in spec §9.
type ParagraphElement interface {
	Element
	inlineElement()
}
