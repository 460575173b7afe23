// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transform

import (
	"github.com/grafana/regexp"
	"github.com/pkg/errors"

	"github.com/aschults/docscraper/internal/match"
	"github.com/aschults/docscraper/internal/model"
)

// SplitTextSpec splits each matched text-bearing leaf into a sequence of new
// leaves, one per capture group of TextRegex (or one per full match, if
// TextRegex has no groups). ElementTags assigns tags to the first N produced
// pieces positionally; AllTags is applied to every piece.
type SplitTextSpec struct {
	Criteria       match.Criteria
	TextRegex      string
	ElementTags    []map[string]string
	AllTags        map[string]string
	AllowNoMatches bool
}

// SplitText replaces every matched TextRun/Chips leaf with the pieces its
// TextRegex splits its text into (spec §4.5). If AllowNoMatches is false and
// a matched leaf's text has no match, the pass fails for the whole document;
// if true, that leaf is left untouched.
func SplitText(doc *model.Document, spec SplitTextSpec) error {
	m := match.New()
	matched, err := matchedSet(m, doc, spec.Criteria)
	if err != nil {
		return wrapPassErr("split_text", err)
	}

	re, err := regexp.Compile(spec.TextRegex)
	if err != nil {
		return wrapPassErr("split_text", errors.Wrapf(err, "compile text_regex %q", spec.TextRegex))
	}

	repl := map[model.Element][]model.Element{}
	var splitErr error
	walkContainers(doc, func(e model.Element) {
		if splitErr != nil || !matched[e] {
			return
		}
		text, ok := leafText(e)
		if !ok {
			return
		}
		pieces, err := splitOne(re, text)
		if err != nil {
			splitErr = err
			return
		}
		if len(pieces) == 0 {
			if !spec.AllowNoMatches {
				splitErr = errors.Errorf("split_text: no match for %q", text)
			}
			return
		}
		repl[e] = buildPieces(e, pieces, spec.ElementTags, spec.AllTags)
	})
	if splitErr != nil {
		return wrapPassErr("split_text", splitErr)
	}

	spliceTree(doc, repl)
	return nil
}

// splitOne returns the produced piece strings: for each match, the text of
// every capture group that took part in it if the regex has groups, else the
// full match text.
func splitOne(re *regexp.Regexp, text string) ([]string, error) {
	groups := re.NumSubexp()
	idx := re.FindAllStringSubmatchIndex(text, -1)
	if idx == nil {
		return nil, nil
	}
	out := make([]string, 0, len(idx))
	for _, m := range idx {
		if groups == 0 {
			out = append(out, text[m[0]:m[1]])
			continue
		}
		for g := 1; g <= groups; g++ {
			if m[2*g] >= 0 {
				out = append(out, text[m[2*g]:m[2*g+1]])
			}
		}
	}
	return out, nil
}

func buildPieces(orig model.Element, pieces []string, elementTags []map[string]string, allTags map[string]string) []model.Element {
	out := make([]model.Element, len(pieces))
	for i, text := range pieces {
		leaf := cloneLeaf(orig, text)
		for k, v := range allTags {
			leaf.GetTags()[k] = v
		}
		if i < len(elementTags) {
			for k, v := range elementTags[i] {
				leaf.GetTags()[k] = v
			}
		}
		out[i] = leaf
	}
	return out
}

func cloneLeaf(orig model.Element, text string) model.Element {
	var leaf model.Element
	switch v := orig.(type) {
	case *model.Chips:
		c := model.NewChips(text, v.URL)
		copyAnnotations(orig, c)
		leaf = c
	default:
		url := ""
		if tr, ok := orig.(*model.TextRun); ok {
			url = tr.URL
		}
		t := model.NewTextRun(text, url)
		copyAnnotations(orig, t)
		leaf = t
	}
	return leaf
}

func copyAnnotations(src, dst model.Element) {
	for k, v := range src.GetTags() {
		dst.GetTags()[k] = v
	}
	for k, v := range src.GetStyle() {
		dst.GetStyle()[k] = v
	}
	for k, v := range src.GetAttribs() {
		dst.GetAttribs()[k] = v
	}
}
