// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package traverse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aschults/docscraper/internal/model"
)

func TestWalkPreorderAndRowCol(t *testing.T) {
	cellA := model.NewDocContent(0, 0, model.NewParagraph(model.NewTextRun("a", "")))
	cellB := model.NewDocContent(0, 1, model.NewParagraph(model.NewTextRun("b", "")))
	tbl, err := model.NewTable(1, 2, []*model.DocContent{cellA, cellB})
	require.NoError(t, err)

	doc := model.NewDocument(nil, tbl)

	var seen []Context
	Walk(doc, func(ctx Context) bool {
		seen = append(seen, ctx)
		return true
	})

	// doc, table, cellA, paragraph, textrun "a", cellB, paragraph, textrun "b"
	require.Len(t, seen, 8)
	assert.Equal(t, model.TypeDocument, seen[0].Element.Type())
	assert.False(t, seen[0].HasPosition)

	textA := seen[4]
	assert.Equal(t, "a", textA.Element.(*model.TextRun).Text)
	assert.True(t, textA.HasPosition)
	assert.Equal(t, 0, textA.Row)
	assert.Equal(t, 0, textA.Col)
	assert.Len(t, textA.Ancestors, 4)

	textB := seen[7]
	assert.Equal(t, "b", textB.Element.(*model.TextRun).Text)
	assert.Equal(t, 1, textB.Col)
}

func TestWalkSiblingPosition(t *testing.T) {
	p := model.NewParagraph(
		model.NewTextRun("a", ""),
		model.NewTextRun("b", ""),
		model.NewTextRun("c", ""),
	)
	ctxs := All(p)
	// ctxs[0] is the paragraph itself.
	require.Len(t, ctxs, 4)
	assert.True(t, ctxs[1].First)
	assert.False(t, ctxs[1].Last)
	assert.False(t, ctxs[2].First)
	assert.False(t, ctxs[2].Last)
	assert.True(t, ctxs[3].Last)
	assert.Equal(t, 2, ctxs[3].Index)
}

func TestWalkEarlyStop(t *testing.T) {
	p := model.NewParagraph(
		model.NewTextRun("a", ""),
		model.NewTextRun("b", ""),
	)
	var visited int
	Walk(p, func(ctx Context) bool {
		visited++
		return ctx.Element.Type() != model.TypeTextRun
	})
	assert.Equal(t, 2, visited)
}

func TestWalkResumeAtSubtree(t *testing.T) {
	inner := model.NewParagraph(model.NewTextRun("inner", ""))
	outer := model.NewSection(model.NewParagraph(model.NewTextRun("Heading", "")), 1, inner)

	var fromRoot, fromSubtree []string
	Walk(outer, func(ctx Context) bool {
		fromRoot = append(fromRoot, string(ctx.Element.Type()))
		return true
	})
	Walk(inner, func(ctx Context) bool {
		fromSubtree = append(fromSubtree, string(ctx.Element.Type()))
		return true
	})

	assert.Greater(t, len(fromRoot), len(fromSubtree))
	assert.Equal(t, []string{"Paragraph", "TextRun"}, fromSubtree)
}
