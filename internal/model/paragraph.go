// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// internal/model/paragraph.go
package model

import "strings"

// Paragraph is an ordered sequence of ParagraphElements.
type Paragraph struct {
	Annotations
	Elements []ParagraphElement
}

// NewParagraph constructs a Paragraph from the given inline elements.
func NewParagraph(elements ...ParagraphElement) *Paragraph {
	return &Paragraph{Annotations: newAnnotations(), Elements: elements}
}

// Type implements Element.
func (e *Paragraph) Type() Type { return TypeParagraph }

// BulletItem is a Paragraph extended with a nested list of BulletItems, plus
// the list metadata needed to fold a flat run of items into that nesting
// (spec §4.5 nest_bullets).
type BulletItem struct {
	Paragraph
	Nested   []*BulletItem
	ListType string
	Level    int
}

// NewBulletItem constructs a top-level (unnested) BulletItem.
func NewBulletItem(listType string, level int, elements ...ParagraphElement) *BulletItem {
	return &BulletItem{
		Paragraph: *NewParagraph(elements...),
		ListType:  listType,
		Level:     level,
	}
}

// Type implements Element; it shadows the promoted Paragraph.Type.
func (e *BulletItem) Type() Type { return TypeBulletItem }

// PrefixText returns the aggregated text of the item's own paragraph content,
// excluding any nested items (spec §4.1 "the paragraph prefix").
func (e *BulletItem) PrefixText() string {
	var sb strings.Builder
	for _, pe := range e.Elements {
		aggregateText(pe, &sb)
	}
	return sb.String()
}

// BulletList is a synthesized container of top-level BulletItems, produced by
// nest_bullets.
type BulletList struct {
	Annotations
	Items []*BulletItem
}

// NewBulletList constructs a BulletList from its top-level items.
func NewBulletList(items ...*BulletItem) *BulletList {
	return &BulletList{Annotations: newAnnotations(), Items: items}
}

// Type implements Element.
func (e *BulletList) Type() Type { return TypeBulletList }
