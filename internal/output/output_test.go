// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdoutSinkNewlineSeparated(t *testing.T) {
	var buf bytes.Buffer
	sink := NewStdout(&buf)

	require.NoError(t, sink.Write(map[string]any{"a": 1}))
	require.NoError(t, sink.Write(map[string]any{"b": 2}))

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, float64(1), first["a"])
}

func TestTemplatePathSinkCounterAndName(t *testing.T) {
	dir := t.TempDir()
	sink := NewTemplatePath(dir + "/{name}-{i}.json")

	require.NoError(t, sink.WriteNamed(map[string]any{"x": 1}, "doc"))
	require.NoError(t, sink.WriteNamed(map[string]any{"x": 2}, "doc"))

	assert.FileExists(t, dir+"/doc-0.json")
	assert.FileExists(t, dir+"/doc-1.json")
}
