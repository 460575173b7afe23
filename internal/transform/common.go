// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package transform implements the declared rewrite operators that mutate a
// Document in place, one full tree traversal per pass (spec §4.5). Every
// pass constructs its own match.Matcher so regex compilation is cached per
// pass, never shared across passes (spec §5).
package transform

import (
	"github.com/pkg/errors"

	"github.com/aschults/docscraper/internal/match"
	"github.com/aschults/docscraper/internal/model"
	"github.com/aschults/docscraper/internal/traverse"
)

// matchedSet evaluates criteria against every element of doc on its current
// snapshot, per the pass's own Matcher instance, and returns the set of
// elements that matched. Passes that need a first "which elements qualify"
// phase before a structural rewrite build this set once, up front, so the
// rewrite itself never has to re-derive ancestor/position context for an
// element it has already moved.
func matchedSet(m *match.Matcher, doc *model.Document, criteria match.Criteria) (map[model.Element]bool, error) {
	out := map[model.Element]bool{}
	var walkErr error
	traverse.Walk(doc, func(ctx traverse.Context) bool {
		ok, err := m.MatchElement(ctx, criteria, doc)
		if err != nil {
			walkErr = err
			return false
		}
		if ok {
			out[ctx.Element] = true
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return out, nil
}

func filterElements(in []model.Element, dropped map[model.Element]bool) []model.Element {
	out := make([]model.Element, 0, len(in))
	for _, e := range in {
		if !dropped[e] {
			out = append(out, e)
		}
	}
	return out
}

func filterParagraphElements(in []model.ParagraphElement, dropped map[model.Element]bool) []model.ParagraphElement {
	out := make([]model.ParagraphElement, 0, len(in))
	for _, e := range in {
		if !dropped[e] {
			out = append(out, e)
		}
	}
	return out
}

func filterBulletItems(in []*model.BulletItem, dropped map[model.Element]bool) []*model.BulletItem {
	out := make([]*model.BulletItem, 0, len(in))
	for _, e := range in {
		if !dropped[e] {
			out = append(out, e)
		}
	}
	return out
}

// pruneTree removes every element in dropped from its parent's child list,
// recursing only into survivors: a dropped parent silently takes its
// descendants with it (spec §4.5 drop_elements). Table cells and a Section's
// heading are never removed themselves; only their contents are pruned.
func pruneTree(e model.Element, dropped map[model.Element]bool) {
	switch v := e.(type) {
	case *model.Paragraph:
		v.Elements = filterParagraphElements(v.Elements, dropped)
	case *model.BulletItem:
		v.Elements = filterParagraphElements(v.Elements, dropped)
		v.Nested = filterBulletItems(v.Nested, dropped)
		for _, n := range v.Nested {
			pruneTree(n, dropped)
		}
	case *model.BulletList:
		v.Items = filterBulletItems(v.Items, dropped)
		for _, it := range v.Items {
			pruneTree(it, dropped)
		}
	case *model.DocContent:
		v.Elements = filterElements(v.Elements, dropped)
		for _, c := range v.Elements {
			pruneTree(c, dropped)
		}
	case *model.Table:
		for _, c := range v.Cells {
			pruneTree(c, dropped)
		}
	case *model.Section:
		if v.Heading != nil {
			pruneTree(v.Heading, dropped)
		}
		v.Content = filterElements(v.Content, dropped)
		for _, c := range v.Content {
			pruneTree(c, dropped)
		}
	case *model.Document:
		v.Content = filterElements(v.Content, dropped)
		for _, c := range v.Content {
			pruneTree(c, dropped)
		}
	}
}

// spliceTree replaces every element present in repl with its replacement
// sequence in its parent's child list, recursing into survivors. Unlike
// pruneTree's 1-to-0 removal, this supports 1-to-N expansion (split_text).
func spliceTree(e model.Element, repl map[model.Element][]model.Element) {
	switch v := e.(type) {
	case *model.Paragraph:
		v.Elements = spliceParagraphElements(v.Elements, repl)
	case *model.BulletItem:
		v.Elements = spliceParagraphElements(v.Elements, repl)
		for _, n := range v.Nested {
			spliceTree(n, repl)
		}
	case *model.BulletList:
		for _, it := range v.Items {
			spliceTree(it, repl)
		}
	case *model.DocContent:
		v.Elements = spliceElements(v.Elements, repl)
		for _, c := range v.Elements {
			spliceTree(c, repl)
		}
	case *model.Table:
		for _, c := range v.Cells {
			spliceTree(c, repl)
		}
	case *model.Section:
		if v.Heading != nil {
			spliceTree(v.Heading, repl)
		}
		v.Content = spliceElements(v.Content, repl)
		for _, c := range v.Content {
			spliceTree(c, repl)
		}
	case *model.Document:
		v.Content = spliceElements(v.Content, repl)
		for _, c := range v.Content {
			spliceTree(c, repl)
		}
	}
}

func spliceElements(in []model.Element, repl map[model.Element][]model.Element) []model.Element {
	out := make([]model.Element, 0, len(in))
	for _, e := range in {
		if r, ok := repl[e]; ok {
			out = append(out, r...)
			continue
		}
		out = append(out, e)
	}
	return out
}

func spliceParagraphElements(in []model.ParagraphElement, repl map[model.Element][]model.Element) []model.ParagraphElement {
	out := make([]model.ParagraphElement, 0, len(in))
	for _, e := range in {
		if r, ok := repl[e]; ok {
			for _, x := range r {
				if pe, ok := x.(model.ParagraphElement); ok {
					out = append(out, pe)
				}
			}
			continue
		}
		out = append(out, e)
	}
	return out
}

// walkContainers calls fn once for every element reachable from root (root
// included), in preorder, leaves (TextRun, Chips) included; fn is called on
// an element before its children are read, so children it rewrites are the
// ones visited next.
func walkContainers(root model.Element, fn func(model.Element)) {
	fn(root)
	for _, c := range model.Children(root) {
		walkContainers(c, fn)
	}
}

func wrapPassErr(pass string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "pass %s", pass)
}
