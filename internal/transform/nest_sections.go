// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transform

import (
	"strconv"

	"github.com/aschults/docscraper/internal/model"
)

// NestSectionsSpec configures nest_sections. HeadingLevelTag names the tag
// the source parser stamps on a heading Paragraph with its h1..h6 level
// (e.g. "heading_level" -> "1".."6"); a Paragraph without that tag, or any
// other element, is ordinary content.
type NestSectionsSpec struct {
	HeadingLevelTag string
}

func (s NestSectionsSpec) tagKey() string {
	if s.HeadingLevelTag == "" {
		return "heading_level"
	}
	return s.HeadingLevelTag
}

// NestSections folds Document.Content's flat heading/content sequence into
// a tree of Sections (spec §4.5): a heading introduces a Section at its
// level; content at a deeper level nests under it; a heading at an
// equal-or-shallower level closes it. Only Document.Content is scanned; the
// invariant this builds (spec §3.2) is phrased in terms of top-level
// children.
func NestSections(doc *model.Document, spec NestSectionsSpec) error {
	doc.Content = foldSections(doc.Content, spec.tagKey())
	return nil
}

type openSection struct {
	section *model.Section
	level   int
}

func foldSections(elems []model.Element, tagKey string) []model.Element {
	var top []model.Element
	var stack []openSection

	appendContent := func(e model.Element) {
		if len(stack) == 0 {
			top = append(top, e)
			return
		}
		cur := stack[len(stack)-1].section
		cur.Content = append(cur.Content, e)
	}

	for _, e := range elems {
		level, heading, ok := headingLevel(e, tagKey)
		if !ok {
			appendContent(e)
			continue
		}
		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		sec := model.NewSection(heading, level)
		appendContent(sec)
		stack = append(stack, openSection{section: sec, level: level})
	}
	return top
}

func headingLevel(e model.Element, tagKey string) (int, *model.Paragraph, bool) {
	p, ok := e.(*model.Paragraph)
	if !ok {
		return 0, nil, false
	}
	raw, ok := p.Tags[tagKey]
	if !ok {
		return 0, nil, false
	}
	level, err := strconv.Atoi(raw)
	if err != nil {
		return 0, nil, false
	}
	return level, p, true
}
