// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// internal/model/text.go
package model

import "strings"

// textWriter is the minimal surface AggregatedText needs; satisfied by
// strings.Builder.
type textWriter interface {
	WriteString(string) (int, error)
}

// Children returns an element's direct children in tree order, regardless of
// variant. Leaves (TextRun, Chips) have no children.
func Children(e Element) []Element {
	switch v := e.(type) {
	case *Paragraph:
		out := make([]Element, len(v.Elements))
		for i, pe := range v.Elements {
			out[i] = pe
		}
		return out
	case *BulletItem:
		out := make([]Element, 0, len(v.Elements)+len(v.Nested))
		for _, pe := range v.Elements {
			out = append(out, pe)
		}
		for _, n := range v.Nested {
			out = append(out, n)
		}
		return out
	case *BulletList:
		out := make([]Element, len(v.Items))
		for i, it := range v.Items {
			out[i] = it
		}
		return out
	case *DocContent:
		return v.Elements
	case *Table:
		out := make([]Element, len(v.Cells))
		for i, c := range v.Cells {
			out[i] = c
		}
		return out
	case *Section:
		out := make([]Element, 0, len(v.Content)+1)
		if v.Heading != nil {
			out = append(out, v.Heading)
		}
		out = append(out, v.Content...)
		return out
	case *Document:
		return v.Content
	default:
		return nil
	}
}

// AggregatedText concatenates the text of every descendant TextRun/Chips leaf
// in preorder depth-first order, with no separator (spec §4.1).
func AggregatedText(e Element) string {
	var sb strings.Builder
	aggregateText(e, &sb)
	return sb.String()
}

func aggregateText(e Element, w textWriter) {
	switch v := e.(type) {
	case *TextRun:
		_, _ = w.WriteString(v.Text)
		return
	case *Chips:
		_, _ = w.WriteString(v.Text)
		return
	}
	for _, c := range Children(e) {
		aggregateText(c, w)
	}
}
