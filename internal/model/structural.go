// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// internal/model/structural.go
package model

// Section carries a heading paragraph and its nested content, produced by
// nest_sections.
type Section struct {
	Annotations
	Heading *Paragraph
	Level   int
	Content []Element
}

// NewSection constructs a Section from its heading and content.
func NewSection(heading *Paragraph, level int, content ...Element) *Section {
	return &Section{Annotations: newAnnotations(), Heading: heading, Level: level, Content: content}
}

// Type implements Element.
func (e *Section) Type() Type { return TypeSection }

// HeadingText returns the aggregated text of the heading only (spec §4.1
// "heading-only text aggregation").
func (e *Section) HeadingText() string {
	if e.Heading == nil {
		return ""
	}
	return AggregatedText(e.Heading)
}

// SharedData holds document-wide state read by multiple passes. Style rules
// are shared within a document and read-only during a pass, except for
// strip_elements, which has exclusive access to mutate them (spec §5).
type SharedData struct {
	StyleRules map[string]map[string]string
}

// Document is the root of the tree.
type Document struct {
	Annotations
	Attrs      map[string]string
	SharedData SharedData
	Content    []Element
}

// NewDocument constructs a Document root.
func NewDocument(attrs map[string]string, content ...Element) *Document {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &Document{
		Annotations: newAnnotations(),
		Attrs:       attrs,
		SharedData:  SharedData{StyleRules: map[string]map[string]string{}},
		Content:     content,
	}
}

// Type implements Element.
func (e *Document) Type() Type { return TypeDocument }
