// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transform

import (
	"strings"

	"github.com/grafana/regexp"
	"github.com/pkg/errors"

	"github.com/aschults/docscraper/internal/match"
	"github.com/aschults/docscraper/internal/model"
	"github.com/aschults/docscraper/internal/vars"
)

// RegexReplaceSpec rewrites the Text of matched TextRun/Chips leaves by
// running Substitutions over it in order (spec §4.5). It reuses vars'
// Substitution shape (regex, replacement with \1.."\9 backreferences,
// optional case operation) rather than a second definition of the same
// three fields.
type RegexReplaceSpec struct {
	Criteria      match.Criteria
	Substitutions []vars.Substitution
}

// RegexReplace applies spec.Substitutions to every matched leaf's Text,
// in place, using a regex cache scoped to this single pass invocation.
func RegexReplace(doc *model.Document, spec RegexReplaceSpec) error {
	m := match.New()
	matched, err := matchedSet(m, doc, spec.Criteria)
	if err != nil {
		return wrapPassErr("regex_replace", err)
	}

	cache := map[string]*regexp.Regexp{}
	compile := func(pattern string) (*regexp.Regexp, error) {
		if re, ok := cache[pattern]; ok {
			return re, nil
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "compile regex_replace pattern %q", pattern)
		}
		cache[pattern] = re
		return re, nil
	}

	var rewriteErr error
	walkContainers(doc, func(e model.Element) {
		if rewriteErr != nil {
			return
		}
		if !matched[e] {
			return
		}
		text, ok := leafText(e)
		if !ok {
			return
		}
		for _, sub := range spec.Substitutions {
			re, err := compile(sub.Regex)
			if err != nil {
				rewriteErr = err
				return
			}
			text = re.ReplaceAllString(text, convertBackrefs(sub.Substitute))
			switch sub.Operation {
			case vars.OpLower:
				text = strings.ToLower(text)
			case vars.OpUpper:
				text = strings.ToUpper(text)
			}
		}
		setLeafText(e, text)
	})
	return wrapPassErr("regex_replace", rewriteErr)
}

func leafText(e model.Element) (string, bool) {
	switch v := e.(type) {
	case *model.TextRun:
		return v.Text, true
	case *model.Chips:
		return v.Text, true
	default:
		return "", false
	}
}

func setLeafText(e model.Element, text string) {
	switch v := e.(type) {
	case *model.TextRun:
		v.Text = text
	case *model.Chips:
		v.Text = text
	}
}

var backrefPattern = regexp.MustCompile(`\\([1-9])`)

func convertBackrefs(substitute string) string {
	return backrefPattern.ReplaceAllString(substitute, `$${$1}`)
}
