// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// internal/model/inline.go
package model

// TextRun is a leaf carrying plain (or hyperlinked) text.
type TextRun struct {
	Annotations
	Text string
	URL  string
}

// NewTextRun constructs a TextRun with empty annotation maps.
func NewTextRun(text, url string) *TextRun {
	return &TextRun{Annotations: newAnnotations(), Text: text, URL: url}
}

// Type implements Element.
func (e *TextRun) Type() Type { return TypeTextRun }

func (e *TextRun) inlineElement() {}

// Chips is a leaf representing an inline smart-chip (e.g. a Google Docs
// person/file/date chip).
type Chips struct {
	Annotations
	Text string
	URL  string
}

// NewChips constructs a Chips leaf with empty annotation maps.
func NewChips(text, url string) *Chips {
	return &Chips{Annotations: newAnnotations(), Text: text, URL: url}
}

// Type implements Element.
func (e *Chips) Type() Type { return TypeChips }

func (e *Chips) inlineElement() {}
