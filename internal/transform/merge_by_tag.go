// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transform

import (
	"github.com/pkg/errors"

	"github.com/aschults/docscraper/internal/match"
	"github.com/aschults/docscraper/internal/model"
)

// MergeByTagSpec coalesces adjacent matched siblings into one. Criteria
// selects individual candidate siblings (its element_expressions, if any,
// see only a single-element candidate list: index 0). PairExpressions, if
// set, additionally gates each adjacency: it is evaluated with a two-element
// candidate list ({0.*} the earlier sibling, {1.*} the later one) and must
// hold for the pair to actually merge, letting a config compare adjacent
// candidates (spec §4.5's "{0.*} and {1.*}" note) independently of the
// per-element Criteria.
type MergeByTagSpec struct {
	Criteria        match.Criteria
	PairExpressions []match.ElementExpression
	MergeAsTextRun  bool
}

// MergeByTag coalesces runs of adjacent matched siblings within every
// container in doc (spec §4.5).
func MergeByTag(doc *model.Document, spec MergeByTagSpec) error {
	m := match.New()
	matched, err := matchedSet(m, doc, spec.Criteria)
	if err != nil {
		return wrapPassErr("merge_by_tag", err)
	}

	pairOK := func(a, b model.Element) (bool, error) {
		for _, expr := range spec.PairExpressions {
			ok, err := m.EvalElementExpression(expr, []model.Element{a, b})
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}

	mergeFn := absorb
	if spec.MergeAsTextRun {
		mergeFn = asTextRun
	}

	var mergeErr error
	walkContainers(doc, func(e model.Element) {
		if mergeErr != nil {
			return
		}
		if err := mergeOneContainer(e, matched, pairOK, mergeFn); err != nil {
			mergeErr = err
		}
	})
	return wrapPassErr("merge_by_tag", mergeErr)
}

func mergeRuns(elems []model.Element, matched map[model.Element]bool, pairOK func(a, b model.Element) (bool, error), merge func(group []model.Element) model.Element) ([]model.Element, error) {
	out := make([]model.Element, 0, len(elems))
	i := 0
	for i < len(elems) {
		e := elems[i]
		if !matched[e] {
			out = append(out, e)
			i++
			continue
		}
		group := []model.Element{e}
		j := i + 1
		for j < len(elems) && matched[elems[j]] {
			ok, err := pairOK(group[len(group)-1], elems[j])
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			group = append(group, elems[j])
			j++
		}
		if len(group) > 1 {
			out = append(out, merge(group))
		} else {
			out = append(out, e)
		}
		i = j
	}
	return out, nil
}

// asTextRun concatenates a group's aggregated text into one new TextRun
// (spec §4.5 "merge_as_text_run").
func asTextRun(group []model.Element) model.Element {
	var text string
	for _, e := range group {
		text += model.AggregatedText(e)
	}
	return model.NewTextRun(text, "")
}

// absorb folds every group member after the first into the first's own
// content field(s), mutating and returning the first element. For leaf
// ParagraphElements (TextRun/Chips), which have no content to absorb into,
// this is a no-op beyond keeping the first leaf and discarding the rest;
// callers merging inline paragraph content should set merge_as_text_run.
func absorb(group []model.Element) model.Element {
	first := group[0]
	rest := group[1:]
	switch v := first.(type) {
	case *model.Paragraph:
		for _, r := range rest {
			if rp, ok := r.(*model.Paragraph); ok {
				v.Elements = append(v.Elements, rp.Elements...)
			}
		}
	case *model.DocContent:
		for _, r := range rest {
			if rc, ok := r.(*model.DocContent); ok {
				v.Elements = append(v.Elements, rc.Elements...)
			}
		}
	case *model.BulletItem:
		for _, r := range rest {
			if ri, ok := r.(*model.BulletItem); ok {
				v.Elements = append(v.Elements, ri.Elements...)
				v.Nested = append(v.Nested, ri.Nested...)
			}
		}
	case *model.Section:
		for _, r := range rest {
			if rs, ok := r.(*model.Section); ok {
				v.Content = append(v.Content, rs.Content...)
			}
		}
	}
	return first
}

func mergeOneContainer(e model.Element, matched map[model.Element]bool, pairOK func(a, b model.Element) (bool, error), mergeFn func(group []model.Element) model.Element) error {
	switch v := e.(type) {
	case *model.Paragraph:
		elems := make([]model.Element, len(v.Elements))
		for i, pe := range v.Elements {
			elems[i] = pe
		}
		merged, err := mergeRuns(elems, matched, pairOK, mergeFn)
		if err != nil {
			return errors.Wrap(err, "merge paragraph")
		}
		v.Elements = toParagraphElements(merged)
	case *model.BulletList:
		elems := make([]model.Element, len(v.Items))
		for i, it := range v.Items {
			elems[i] = it
		}
		merged, err := mergeRuns(elems, matched, pairOK, mergeFn)
		if err != nil {
			return errors.Wrap(err, "merge bullet list")
		}
		out := make([]*model.BulletItem, 0, len(merged))
		for _, m := range merged {
			if bi, ok := m.(*model.BulletItem); ok {
				out = append(out, bi)
			}
		}
		v.Items = out
	case *model.Section:
		merged, err := mergeRuns(v.Content, matched, pairOK, mergeFn)
		if err != nil {
			return errors.Wrap(err, "merge section content")
		}
		v.Content = merged
	case *model.Document:
		merged, err := mergeRuns(v.Content, matched, pairOK, mergeFn)
		if err != nil {
			return errors.Wrap(err, "merge document content")
		}
		v.Content = merged
	case *model.DocContent:
		merged, err := mergeRuns(v.Elements, matched, pairOK, mergeFn)
		if err != nil {
			return errors.Wrap(err, "merge doc content")
		}
		v.Elements = merged
	}
	return nil
}

func toParagraphElements(elems []model.Element) []model.ParagraphElement {
	out := make([]model.ParagraphElement, 0, len(elems))
	for _, e := range elems {
		if pe, ok := e.(model.ParagraphElement); ok {
			out = append(out, pe)
		}
	}
	return out
}
