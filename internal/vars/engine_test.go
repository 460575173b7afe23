// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aschults/docscraper/internal/match"
	"github.com/aschults/docscraper/internal/model"
	"github.com/aschults/docscraper/internal/queryengine"
	"github.com/aschults/docscraper/internal/traverse"
)

func buildTable(t *testing.T) (*model.Table, *model.Document) {
	t.Helper()
	var cells []*model.DocContent
	labels := [][]string{{"00", "01"}, {"10", "11"}}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			cells = append(cells, model.NewDocContent(r, c, model.NewTextRun(labels[r][c], "")))
		}
	}
	tbl, err := model.NewTable(2, 2, cells)
	require.NoError(t, err)
	return tbl, model.NewDocument(nil, tbl)
}

func ctxForCell(tbl *model.Table, doc *model.Document, row, col int) traverse.Context {
	cell, _ := tbl.CellAt(row, col)
	return traverse.Context{
		Element:     cell,
		Ancestors:   []model.Element{doc, tbl},
		Row:         row,
		Col:         col,
		HasPosition: true,
	}
}

func TestComputeElementAtNext(t *testing.T) {
	tbl, doc := buildTable(t)
	ctx := ctxForCell(tbl, doc, 0, 0)

	en := New(queryengine.New())
	v, err := en.Compute("right", Spec{ElementAt: &ElementAtSpec{Col: AxisNext}}, ctx, doc)
	require.NoError(t, err)
	require.True(t, v.IsElement)
	assert.Equal(t, "01", model.AggregatedText(v.Element))
}

func TestComputeElementAtLast(t *testing.T) {
	tbl, doc := buildTable(t)
	ctx := ctxForCell(tbl, doc, 0, 0)

	en := New(queryengine.New())
	v, err := en.Compute("corner", Spec{ElementAt: &ElementAtSpec{Col: AxisLast, Row: AxisLast}}, ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, "11", model.AggregatedText(v.Element))
}

func TestComputeSubstitutions(t *testing.T) {
	tr := model.NewTextRun("Hello World", "")
	ctx := traverse.Context{Element: tr}

	en := New(queryengine.New())
	v, err := en.Compute("greeting", Spec{Substitutions: &SubstitutionsSpec{
		Substitutions: []Substitution{
			{Regex: `(\w+) (\w+)`, Substitute: `\2 \1`, Operation: OpUpper},
		},
	}}, ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "WORLD HELLO", v.Scalar)
}

func TestComputeSubstitutionsSectionHeadingOnly(t *testing.T) {
	heading := model.NewParagraph(model.NewTextRun("My Heading", ""))
	sec := model.NewSection(heading, 1)
	tr := model.NewTextRun("body text", "")
	ctx := traverse.Context{Element: tr, Ancestors: []model.Element{sec}}

	en := New(queryengine.New())
	v, err := en.Compute("h", Spec{Substitutions: &SubstitutionsSpec{
		SectionHeadingOnly: true,
	}}, ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "My Heading", v.Scalar)
}

func TestComputeAncestorPath(t *testing.T) {
	root := model.NewDocument(nil)
	sec := model.NewSection(nil, 1)
	sec.Tags["name"] = "root-section"
	tr := model.NewTextRun("leaf", "")
	ctx := traverse.Context{Element: tr, Ancestors: []model.Element{root, sec}}

	en := New(queryengine.New())
	v, err := en.Compute("path", Spec{AncestorPath: &AncestorPathSpec{
		LevelValue: "{0.tags[name]}",
		Separator:  "/",
		LevelStart: 1,
		LevelEnd:   2,
	}}, ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "root-section", v.Scalar)
}

func TestComputeJSONQuery(t *testing.T) {
	tr := model.NewTextRun("hi", "")
	tr.Tags["k"] = "v"
	ctx := traverse.Context{Element: tr}

	en := New(queryengine.New())
	v, err := en.Compute("tagv", Spec{JSONQuery: strPtr(".tags.k")}, ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "v", v.Scalar)
}

func strPtr(s string) *string { return &s }

func TestTemplateResolverDereferencesElementVariable(t *testing.T) {
	tr := model.NewTextRun("hi", "")
	tr.Tags["label"] = "Name"

	r := TemplateResolver{Values: map[string]Value{"first": elementValue(tr)}}
	rendered, err := match.RenderTemplate("{first.tags[label]}", r)
	require.NoError(t, err)
	assert.Equal(t, "Name", rendered)
}
