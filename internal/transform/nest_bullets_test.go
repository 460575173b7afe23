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

func bulletText(level int, text string) *model.BulletItem {
	return model.NewBulletItem("ul", level, model.NewTextRun(text, ""))
}

func TestNestBulletsBuildsLevelTree(t *testing.T) {
	doc := model.NewDocument(nil,
		bulletText(0, "a"),
		bulletText(1, "a1"),
		bulletText(1, "a2"),
		bulletText(0, "b"),
	)

	require.NoError(t, NestBullets(doc))

	require.Len(t, doc.Content, 1)
	list := doc.Content[0].(*model.BulletList)
	require.Len(t, list.Items, 2)

	a := list.Items[0]
	assert.Equal(t, "a", a.PrefixText())
	require.Len(t, a.Nested, 2)
	assert.Equal(t, "a1", a.Nested[0].PrefixText())
	assert.Equal(t, "a2", a.Nested[1].PrefixText())

	b := list.Items[1]
	assert.Equal(t, "b", b.PrefixText())
	assert.Empty(t, b.Nested)
}

func TestNestBulletsIdempotent(t *testing.T) {
	doc := model.NewDocument(nil,
		bulletText(0, "a"),
		bulletText(1, "a1"),
		bulletText(0, "b"),
	)

	require.NoError(t, NestBullets(doc))
	first := model.AggregatedText(doc)
	firstLen := len(doc.Content)

	require.NoError(t, NestBullets(doc))
	assert.Equal(t, first, model.AggregatedText(doc))
	assert.Equal(t, firstLen, len(doc.Content))
	list := doc.Content[0].(*model.BulletList)
	assert.Len(t, list.Items, 2)
}
