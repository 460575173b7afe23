// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package match

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/aschults/docscraper/internal/model"
)

// Resolver resolves a single placeholder's reference and optional field
// dereference into its rendered string form. The variable engine (C4) and
// the matcher's element_expressions (C3) each implement their own Resolver
// over the same Template grammar: the matcher resolves numeric positional
// references into a contextual element list, the variable engine resolves
// names into computed variable values.
type Resolver interface {
	Resolve(ref string, field *Field) (string, error)
}

// RenderTemplate parses tmpl and renders every placeholder via r.
func RenderTemplate(tmpl string, r Resolver) (string, error) {
	parsed, err := ParseTemplate(tmpl)
	if err != nil {
		return "", errors.Wrapf(err, "parse template %q", tmpl)
	}

	var sb strings.Builder
	for _, seg := range parsed.Segments {
		if seg.Text != nil {
			sb.WriteString(*seg.Text)
			continue
		}
		val, err := r.Resolve(seg.Placeholder.Ref, seg.Placeholder.Field)
		if err != nil {
			return "", err
		}
		sb.WriteString(val)
	}
	return sb.String(), nil
}

// ResolveField dereferences field against e: ".text" yields the element's
// aggregated text, ".tags[key]" yields a tag value (an error if absent), and
// no field at all also yields the aggregated text, which is the only
// sensible default for a bare positional/element reference.
func ResolveField(e model.Element, field *Field) (string, error) {
	if field == nil || field.Text != nil {
		return model.AggregatedText(e), nil
	}
	if field.Tags != nil {
		v, ok := e.GetTags()[*field.Tags]
		if !ok {
			return "", errors.Errorf("tag %q not found", *field.Tags)
		}
		return v, nil
	}
	return "", errors.New("placeholder field has neither text nor tags set")
}

// elementListResolver resolves "{N.field}" against a 0-based positional list
// of elements, used by element_expressions (spec §4.3).
type elementListResolver struct {
	candidates []model.Element
}

func (r elementListResolver) Resolve(ref string, field *Field) (string, error) {
	idx, err := strconv.Atoi(ref)
	if err != nil {
		return "", errors.Errorf("element expression reference %q must be a 0-based index", ref)
	}
	if idx < 0 || idx >= len(r.candidates) {
		return "", errors.Errorf("element expression index %d out of range (have %d candidates)", idx, len(r.candidates))
	}
	return ResolveField(r.candidates[idx], field)
}

// EvalElementExpression renders expr.Expr against candidates and full-matches
// the result against expr.RegexMatch. A missing key either fails the match
// (IgnoreKeyErrors == false, surfaced as a matcher error) or is treated as a
// vacuous pass (IgnoreKeyErrors == true), per spec §4.3/§7.
func (m *Matcher) EvalElementExpression(expr ElementExpression, candidates []model.Element) (bool, error) {
	rendered, err := RenderTemplate(expr.Expr, elementListResolver{candidates: candidates})
	if err != nil {
		if expr.IgnoreKeyErrors {
			return true, nil
		}
		return false, err
	}

	re, err := m.compile(expr.RegexMatch)
	if err != nil {
		return false, err
	}
	return re.MatchString(rendered), nil
}
