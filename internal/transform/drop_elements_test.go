// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aschults/docscraper/internal/match"
	"github.com/aschults/docscraper/internal/model"
)

func TestDropElementsRemovesMatchedLeaf(t *testing.T) {
	keep := model.NewTextRun("keep", "")
	drop := model.NewTextRun("drop", "")
	drop.Tags["purge"] = "Y"
	p := model.NewParagraph(keep, drop)
	doc := model.NewDocument(nil, p)

	err := DropElements(doc, DropElementsSpec{
		Criteria: match.Criteria{MatchElement: &match.ElementMatch{
			RequiredTagSets: []map[string]string{{"purge": ""}},
		}},
	})
	require.NoError(t, err)

	require.Len(t, p.Elements, 1)
	assert.Equal(t, "keep", model.AggregatedText(p.Elements[0]))
}

func TestDropElementsTakesDescendantsWithIt(t *testing.T) {
	child := model.NewTextRun("child", "")
	inner := model.NewParagraph(child)
	section := model.NewSection(model.NewParagraph(model.NewTextRun("h", "")), 1, inner)
	section.Tags["purge"] = "Y"
	doc := model.NewDocument(nil, section)

	err := DropElements(doc, DropElementsSpec{
		Criteria: match.Criteria{MatchElement: &match.ElementMatch{
			RequiredTagSets: []map[string]string{{"purge": ""}},
		}},
	})
	require.NoError(t, err)
	assert.Empty(t, doc.Content)
}

func TestDropElementsIdempotent(t *testing.T) {
	drop := model.NewTextRun("drop", "")
	drop.Tags["purge"] = "Y"
	keep := model.NewTextRun("keep", "")
	doc := model.NewDocument(nil, model.NewParagraph(keep, drop))

	spec := DropElementsSpec{
		Criteria: match.Criteria{MatchElement: &match.ElementMatch{
			RequiredTagSets: []map[string]string{{"purge": ""}},
		}},
	}

	require.NoError(t, DropElements(doc, spec))
	first := model.AggregatedText(doc)

	require.NoError(t, DropElements(doc, spec))
	assert.Equal(t, first, model.AggregatedText(doc))
}
