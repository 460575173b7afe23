// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aschults/docscraper/internal/model"
)

func heading(level int, text string) *model.Paragraph {
	p := model.NewParagraph(model.NewTextRun(text, ""))
	p.Tags["heading_level"] = itoa(level)
	return p
}

func itoa(i int) string {
	digits := "0123456789"
	if i < 10 {
		return string(digits[i])
	}
	return string(digits[i/10]) + string(digits[i%10])
}

func TestNestSectionsBuildsHeadingTree(t *testing.T) {
	body := func(text string) *model.Paragraph { return model.NewParagraph(model.NewTextRun(text, "")) }
	doc := model.NewDocument(nil,
		heading(1, "Intro"),
		body("intro body"),
		heading(2, "Sub"),
		body("sub body"),
		heading(1, "Next"),
		body("next body"),
	)

	require.NoError(t, NestSections(doc, NestSectionsSpec{}))

	require.Len(t, doc.Content, 2)
	first := doc.Content[0].(*model.Section)
	assert.Equal(t, "Intro", first.HeadingText())
	require.Len(t, first.Content, 2)
	sub := first.Content[1].(*model.Section)
	assert.Equal(t, "Sub", sub.HeadingText())
	assert.Equal(t, "sub body", model.AggregatedText(sub.Content[0]))

	second := doc.Content[1].(*model.Section)
	assert.Equal(t, "Next", second.HeadingText())
}

func TestNestSectionsIdempotent(t *testing.T) {
	body := func(text string) *model.Paragraph { return model.NewParagraph(model.NewTextRun(text, "")) }
	doc := model.NewDocument(nil, heading(1, "Intro"), body("x"), heading(2, "Sub"), body("y"))

	spec := NestSectionsSpec{}
	require.NoError(t, NestSections(doc, spec))
	first := model.AggregatedText(doc)
	firstLen := len(doc.Content)

	require.NoError(t, NestSections(doc, spec))
	assert.Equal(t, first, model.AggregatedText(doc))
	assert.Equal(t, firstLen, len(doc.Content))
}
