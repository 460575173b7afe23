// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vars

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grafana/regexp"
	"github.com/pkg/errors"

	"github.com/aschults/docscraper/internal/match"
	"github.com/aschults/docscraper/internal/model"
	"github.com/aschults/docscraper/internal/queryengine"
	"github.com/aschults/docscraper/internal/traverse"
)

// Value is a computed variable's result: either a borrowed element (from
// element_at) or a plain scalar string (from substitutions/json_query/
// ancestor_path).
type Value struct {
	Element   model.Element
	Scalar    string
	IsElement bool
}

func elementValue(e model.Element) Value { return Value{Element: e, IsElement: true} }
func scalarValue(s string) Value         { return Value{Scalar: s} }

// Engine computes Spec values against a traversal context. It owns a
// substitution-regex cache scoped to its own lifetime, matching the "cache
// per pass" guidance in spec §5: callers construct one Engine per pass.
type Engine struct {
	regexCache map[string]*regexp.Regexp
	qe         *queryengine.Engine
}

// New returns an Engine backed by qe for json_query variables.
func New(qe *queryengine.Engine) *Engine {
	return &Engine{regexCache: map[string]*regexp.Regexp{}, qe: qe}
}

func (en *Engine) compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := en.regexCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "compile substitution regex %q", pattern)
	}
	en.regexCache[pattern] = re
	return re, nil
}

// ComputeAll evaluates every declared variable against ctx, in a
// deterministic (name-sorted) order, so the error it returns always comes
// from the first failing variable by that order, not by map iteration.
func (en *Engine) ComputeAll(specs map[string]Spec, ctx traverse.Context, doc *model.Document) (map[string]Value, error) {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]Value, len(specs))
	for _, name := range names {
		v, err := en.Compute(name, specs[name], ctx, doc)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// Compute evaluates a single variable Spec.
func (en *Engine) Compute(name string, spec Spec, ctx traverse.Context, doc *model.Document) (Value, error) {
	switch {
	case spec.ElementAt != nil:
		return en.computeElementAt(name, *spec.ElementAt, ctx)
	case spec.Substitutions != nil:
		return en.computeSubstitutions(*spec.Substitutions, ctx)
	case spec.JSONQuery != nil:
		return en.computeJSONQuery(*spec.JSONQuery, ctx)
	case spec.AncestorPath != nil:
		return en.computeAncestorPath(*spec.AncestorPath, ctx)
	default:
		return Value{}, errors.Errorf("variable %q declares no spec", name)
	}
}

func enclosingTable(ancestors []model.Element) (*model.Table, bool) {
	for i := len(ancestors) - 1; i >= 0; i-- {
		if tbl, ok := ancestors[i].(*model.Table); ok {
			return tbl, true
		}
	}
	return nil, false
}

func resolveAxis(axis Axis, current, total int) int {
	switch axis {
	case AxisFirst:
		return 0
	case AxisLast:
		return total - 1
	case AxisPrev:
		return current - 1
	case AxisNext:
		return current + 1
	default:
		return current
	}
}

func (en *Engine) computeElementAt(name string, spec ElementAtSpec, ctx traverse.Context) (Value, error) {
	if !ctx.HasPosition {
		return Value{}, errors.Errorf("variable %q: element_at requires a table position", name)
	}
	tbl, ok := enclosingTable(ctx.Ancestors)
	if !ok {
		return Value{}, errors.Errorf("variable %q: element_at requires an enclosing table", name)
	}

	row := resolveAxis(spec.Row, ctx.Row, tbl.Rows)
	col := resolveAxis(spec.Col, ctx.Col, tbl.Cols)
	cell, ok := tbl.CellAt(row, col)
	if !ok {
		return Value{}, errors.Errorf("variable %q: no cell at (%d,%d)", name, row, col)
	}
	return elementValue(cell), nil
}

func nearestSection(ancestors []model.Element) *model.Section {
	for i := len(ancestors) - 1; i >= 0; i-- {
		if sec, ok := ancestors[i].(*model.Section); ok {
			return sec
		}
	}
	return nil
}

// backrefPattern finds \1..\9 backreferences in a substitution template so
// they can be rewritten into Go regexp's ${1}..${9} replacement syntax.
var backrefPattern = regexp.MustCompile(`\\([1-9])`)

func convertBackrefs(substitute string) string {
	return backrefPattern.ReplaceAllString(substitute, `$${$1}`)
}

func (en *Engine) computeSubstitutions(spec SubstitutionsSpec, ctx traverse.Context) (Value, error) {
	var base string
	if spec.SectionHeadingOnly {
		if sec := nearestSection(ctx.Ancestors); sec != nil {
			base = sec.HeadingText()
		}
	} else {
		base = model.AggregatedText(ctx.Element)
	}

	for _, sub := range spec.Substitutions {
		re, err := en.compile(sub.Regex)
		if err != nil {
			return Value{}, err
		}
		base = re.ReplaceAllString(base, convertBackrefs(sub.Substitute))
		switch sub.Operation {
		case OpLower:
			base = strings.ToLower(base)
		case OpUpper:
			base = strings.ToUpper(base)
		}
	}
	return scalarValue(base), nil
}

func (en *Engine) computeJSONQuery(query string, ctx traverse.Context) (Value, error) {
	projection := model.Project(ctx.Element)
	results, err := en.qe.Run("", query, nil, projection, nil)
	if err != nil {
		return Value{}, errors.Wrapf(err, "json_query %q", query)
	}
	if len(results) == 0 {
		return scalarValue(""), nil
	}
	return scalarValue(anyToString(results[0])), nil
}

func anyToString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func clampIndex(v, total int) int {
	if v < 0 {
		return total + v
	}
	return v
}

// singleElementResolver resolves any placeholder ref against one fixed
// element, used by ancestor_path templates, which dereference one ancestor
// at a time rather than a positional list.
type singleElementResolver struct {
	element model.Element
}

func (r singleElementResolver) Resolve(_ string, field *match.Field) (string, error) {
	return match.ResolveField(r.element, field)
}

func (en *Engine) computeAncestorPath(spec AncestorPathSpec, ctx traverse.Context) (Value, error) {
	ancestors := ctx.Ancestors
	total := len(ancestors)
	lo := clampIndex(spec.LevelStart, total)
	hi := clampIndex(spec.LevelEnd, total)
	if lo < 0 {
		lo = 0
	}
	if hi > total {
		hi = total
	}

	var parts []string
	for i := lo; i < hi; i++ {
		rendered, err := match.RenderTemplate(spec.LevelValue, singleElementResolver{ancestors[i]})
		if err != nil {
			return Value{}, errors.Wrapf(err, "ancestor_path level %d", i)
		}
		parts = append(parts, rendered)
	}
	return scalarValue(strings.Join(parts, spec.Separator)), nil
}

// TemplateResolver implements match.Resolver over a computed variable map,
// used to render a tag_matching "add" template after variables are bound
// (spec §4.4). "{name}" resolves to the variable's scalar form (or its
// element's aggregated text, if it is element-valued); "{name.text}" and
// "{name.tags[key]}" dereference an element-valued variable's fields.
type TemplateResolver struct {
	Values map[string]Value
}

func (r TemplateResolver) Resolve(ref string, field *match.Field) (string, error) {
	v, ok := r.Values[ref]
	if !ok {
		return "", errors.Errorf("variable %q not found", ref)
	}
	if field == nil {
		if v.IsElement {
			return model.AggregatedText(v.Element), nil
		}
		return v.Scalar, nil
	}
	if !v.IsElement {
		return "", errors.Errorf("variable %q is a scalar; it has no fields to dereference", ref)
	}
	return match.ResolveField(v.Element, field)
}
