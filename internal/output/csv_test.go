// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVSinkMinimalQuoting(t *testing.T) {
	var buf bytes.Buffer
	sink := NewCSVWriter(&buf, []string{"name", "note"}, "", CSVDialect{})

	require.NoError(t, sink.Write(map[string]any{"name": "a", "note": "has,comma"}))

	out := buf.String()
	assert.Contains(t, out, "name,note\n")
	assert.Contains(t, out, `a,"has,comma"`)
}

func TestCSVSinkQuoteAll(t *testing.T) {
	var buf bytes.Buffer
	sink := NewCSVWriter(&buf, []string{"name"}, "", CSVDialect{Quoting: QuoteAll})

	require.NoError(t, sink.Write(map[string]any{"name": "plain"}))

	assert.Contains(t, buf.String(), `"plain"`)
}

func TestCSVSinkQuoteNonNumeric(t *testing.T) {
	var buf bytes.Buffer
	sink := NewCSVWriter(&buf, []string{"count", "label"}, "", CSVDialect{Quoting: QuoteNonNumeric})

	require.NoError(t, sink.Write(map[string]any{"count": 3, "label": "x"}))

	out := buf.String()
	assert.Contains(t, out, `3,"x"`)
}

func TestCSVSinkFlattenListExpandsRows(t *testing.T) {
	var buf bytes.Buffer
	sink := NewCSVWriter(&buf, []string{"tag", "name"}, "tag", CSVDialect{})

	require.NoError(t, sink.Write(map[string]any{
		"tag":  []any{"a", "b"},
		"name": "shared",
	}))

	out := buf.String()
	assert.Contains(t, out, "a,shared")
	assert.Contains(t, out, "b,shared")
}
