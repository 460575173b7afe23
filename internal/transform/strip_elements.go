// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transform

import (
	"github.com/grafana/regexp"
	"github.com/pkg/errors"

	"github.com/aschults/docscraper/internal/model"
	"github.com/aschults/docscraper/internal/traverse"
)

// StripElementsSpec names, per target, the regexes whose matching keys get
// deleted. Every element's attribs and style are stripped; the document's
// shared style rule table is stripped once, by rule name.
type StripElementsSpec struct {
	RemoveAttrsRe      []string
	RemoveStylesRe     []string
	RemoveStyleRulesRe []string
}

// StripElements deletes matching keys from every element's attribs/style and
// from Document.SharedData.StyleRules, leaving tree structure untouched
// (spec §4.5, §8.1).
func StripElements(doc *model.Document, spec StripElementsSpec) error {
	attrsRe, err := compileAll(spec.RemoveAttrsRe)
	if err != nil {
		return wrapPassErr("strip_elements", err)
	}
	stylesRe, err := compileAll(spec.RemoveStylesRe)
	if err != nil {
		return wrapPassErr("strip_elements", err)
	}
	rulesRe, err := compileAll(spec.RemoveStyleRulesRe)
	if err != nil {
		return wrapPassErr("strip_elements", err)
	}

	traverse.Walk(doc, func(ctx traverse.Context) bool {
		stripKeys(ctx.Element.GetAttribs(), attrsRe)
		stripKeys(ctx.Element.GetStyle(), stylesRe)
		return true
	})

	for name := range doc.SharedData.StyleRules {
		if anyMatch(name, rulesRe) {
			delete(doc.SharedData.StyleRules, name)
		}
	}
	return nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "compile strip_elements pattern %q", p)
		}
		out = append(out, re)
	}
	return out, nil
}

func anyMatch(key string, res []*regexp.Regexp) bool {
	for _, re := range res {
		if re.MatchString(key) {
			return true
		}
	}
	return false
}

func stripKeys(m map[string]string, res []*regexp.Regexp) {
	if len(res) == 0 {
		return
	}
	for k := range m {
		if anyMatch(k, res) {
			delete(m, k)
		}
	}
}
