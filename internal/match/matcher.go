// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package match evaluates the element-matching predicate language described
// in spec §4.3: element type, tag/style sets, aggregated-text regex,
// element expressions, table position, ancestor-path alignment, and
// descendant matching.
package match

import (
	"github.com/grafana/regexp"
	"github.com/pkg/errors"

	"github.com/aschults/docscraper/internal/model"
	"github.com/aschults/docscraper/internal/traverse"
)

// Matcher evaluates predicates against traversal contexts. It caches every
// compiled regex for its own lifetime, which callers should scope to a
// single pass (spec §5 "Regex compilation: cache per pass").
type Matcher struct {
	regexCache map[string]*regexp.Regexp
}

// New returns a Matcher with an empty regex cache.
func New() *Matcher {
	return &Matcher{regexCache: map[string]*regexp.Regexp{}}
}

func (m *Matcher) compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := m.regexCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, errors.Wrapf(err, "compile regex %q", pattern)
	}
	m.regexCache[pattern] = re
	return re, nil
}

// MatchElement evaluates a MatchCriteria against a traversal context, reading
// shared style rules from doc (which may be nil outside of a document
// context, e.g. when matching a synthetic subtree).
func (m *Matcher) MatchElement(ctx traverse.Context, criteria Criteria, doc *model.Document) (bool, error) {
	if criteria.MatchElement != nil {
		pos := Position{Row: ctx.Row, Col: ctx.Col, Has: ctx.HasPosition}
		if ctx.HasPosition {
			if tbl, ok := enclosingTable(ctx.Ancestors); ok {
				pos.Rows, pos.Cols = tbl.Rows, tbl.Cols
			}
		}
		ok, err := m.matchOne(ctx.Element, pos, []model.Element{ctx.Element}, criteria.MatchElement, doc)
		if err != nil || !ok {
			return false, err
		}
	}

	if len(criteria.MatchAncestorList) > 0 {
		ok, err := m.matchAncestorList(ctx.Ancestors, criteria.MatchAncestorList, doc)
		if err != nil || !ok {
			return false, err
		}
	}

	if criteria.MatchDescendent != nil {
		ok, err := m.matchAnyDescendant(ctx.Element, criteria.MatchDescendent, doc)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

func enclosingTable(ancestors []model.Element) (*model.Table, bool) {
	for i := len(ancestors) - 1; i >= 0; i-- {
		if tbl, ok := ancestors[i].(*model.Table); ok {
			return tbl, true
		}
	}
	return nil, false
}

func (m *Matcher) matchAnyDescendant(root model.Element, em *ElementMatch, doc *model.Document) (bool, error) {
	var (
		found bool
		outer error
	)
	traverse.Walk(root, func(ctx traverse.Context) bool {
		if ctx.Element == root {
			return true // the element matching match_descendent is itself excluded
		}
		pos := Position{Row: ctx.Row, Col: ctx.Col, Has: ctx.HasPosition}
		if ctx.HasPosition {
			if tbl, ok := enclosingTable(ctx.Ancestors); ok {
				pos.Rows, pos.Cols = tbl.Rows, tbl.Cols
			}
		}
		ok, err := m.matchOne(ctx.Element, pos, []model.Element{ctx.Element}, em, doc)
		if err != nil {
			outer = err
			return false
		}
		if ok {
			found = true
			return false
		}
		return true
	})
	if outer != nil {
		return false, outer
	}
	return found, nil
}

// matchOne evaluates a single ElementMatch bundle against one element.
func (m *Matcher) matchOne(e model.Element, pos Position, candidates []model.Element, em *ElementMatch, doc *model.Document) (bool, error) {
	if len(em.ElementTypes) > 0 && !typeMatches(e, em.ElementTypes) {
		return false, nil
	}

	if !positionMatches(pos, em) {
		return false, nil
	}

	if len(em.RequiredTagSets) > 0 {
		ok, err := m.anyConjunctionMatches(e.GetTags(), em.RequiredTagSets)
		if err != nil || !ok {
			return false, err
		}
	}
	if len(em.RejectedTags) > 0 {
		rejected, err := m.anyRejected(e.GetTags(), em.RejectedTags)
		if err != nil || rejected {
			return false, err
		}
	}

	if len(em.RequiredStyleSets) > 0 || len(em.RejectedStyles) > 0 {
		style := effectiveStyle(e, doc, skipQuotes(em))
		if len(em.RequiredStyleSets) > 0 {
			ok, err := m.anyConjunctionMatches(style, em.RequiredStyleSets)
			if err != nil || !ok {
				return false, err
			}
		}
		if len(em.RejectedStyles) > 0 {
			rejected, err := m.anyRejected(style, em.RejectedStyles)
			if err != nil || rejected {
				return false, err
			}
		}
	}

	if em.AggregatedTextRegex != "" {
		re, err := m.compile(em.AggregatedTextRegex)
		if err != nil {
			return false, err
		}
		if !re.MatchString(model.AggregatedText(e)) {
			return false, nil
		}
	}

	for _, expr := range em.ElementExpressions {
		ok, err := m.EvalElementExpression(expr, candidates)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

func typeMatches(e model.Element, types []model.Type) bool {
	for _, t := range types {
		if t == model.TypeParagraphElement {
			if _, ok := e.(model.ParagraphElement); ok {
				return true
			}
			continue
		}
		if e.Type() == t {
			return true
		}
	}
	return false
}

// anyConjunctionMatches implements the "disjunction of conjunctions"
// semantics shared by required_tag_sets and required_style_sets: the element
// matches if some map in sets is fully satisfied (every key's pattern
// full-matches the existing value; an empty pattern only requires presence).
func (m *Matcher) anyConjunctionMatches(values map[string]string, sets []map[string]string) (bool, error) {
	for _, set := range sets {
		all := true
		for key, pattern := range set {
			v, ok := values[key]
			if !ok {
				all = false
				break
			}
			if pattern == "" {
				continue
			}
			re, err := m.compile(pattern)
			if err != nil {
				return false, err
			}
			if !re.MatchString(v) {
				all = false
				break
			}
		}
		if all {
			return true, nil
		}
	}
	return false, nil
}

func (m *Matcher) anyRejected(values map[string]string, rejects map[string]string) (bool, error) {
	for key, pattern := range rejects {
		v, ok := values[key]
		if !ok {
			continue
		}
		if pattern == "" {
			return true, nil
		}
		re, err := m.compile(pattern)
		if err != nil {
			return false, err
		}
		if re.MatchString(v) {
			return true, nil
		}
	}
	return false, nil
}
