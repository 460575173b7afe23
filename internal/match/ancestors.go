// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package match

import (
	"github.com/pkg/errors"

	"github.com/aschults/docscraper/internal/model"
)

// matchAncestorList checks whether ancestors (root-to-parent, as yielded by
// traverse.Context) can be fully aligned against steps. Predicate steps
// consume exactly one ancestor; skip steps consume a run of ancestors sized
// per their SkipMode. Every possible alignment is tried; the match succeeds
// if any alignment consumes the ancestor list exactly (spec §4.3).
func (m *Matcher) matchAncestorList(ancestors []model.Element, steps []AncestorStep, doc *model.Document) (bool, error) {
	am := &ancestorAligner{
		m:         m,
		doc:       doc,
		ancestors: ancestors,
		steps:     steps,
		memo:      map[[2]int]bool{},
	}
	return am.align(0, 0)
}

type ancestorAligner struct {
	m         *Matcher
	doc       *model.Document
	ancestors []model.Element
	steps     []AncestorStep
	memo      map[[2]int]bool
}

func (a *ancestorAligner) align(ai, si int) (bool, error) {
	if si == len(a.steps) {
		return ai == len(a.ancestors), nil
	}

	key := [2]int{ai, si}
	if v, ok := a.memo[key]; ok {
		return v, nil
	}

	ok, err := a.alignStep(ai, si)
	if err != nil {
		return false, err
	}
	a.memo[key] = ok
	return ok, nil
}

func (a *ancestorAligner) alignStep(ai, si int) (bool, error) {
	step := a.steps[si]
	remaining := len(a.ancestors) - ai

	if step.Match != nil {
		if ai >= len(a.ancestors) {
			return false, nil
		}
		pos := positionFromAncestors(a.ancestors, ai)
		ok, err := a.m.matchOne(a.ancestors[ai], pos, []model.Element{a.ancestors[ai]}, step.Match, a.doc)
		if err != nil || !ok {
			return false, err
		}
		return a.align(ai+1, si+1)
	}

	switch step.SkipAncestors {
	case SkipExactly:
		if step.SkipCount < 0 || step.SkipCount > remaining {
			return false, nil
		}
		return a.align(ai+step.SkipCount, si+1)

	case SkipAtLeast:
		for n := step.SkipCount; n <= remaining; n++ {
			ok, err := a.align(ai+n, si+1)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case SkipAny:
		for n := 0; n <= remaining; n++ {
			ok, err := a.align(ai+n, si+1)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, errors.Errorf("unknown skip_ancestors mode %q", step.SkipAncestors)
	}
}
