// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queryengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSimplePath(t *testing.T) {
	e := New()
	out, err := e.Run("", ".a.b", nil, map[string]any{"a": map[string]any{"b": "c"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"c"}, out)
}

func TestRunWithPreambleAndVariable(t *testing.T) {
	e := New()
	out, err := e.Run(
		`def double: . * 2;`,
		`.n | double | . + $extra`,
		[]string{"extra"},
		map[string]any{"n": 3},
		map[string]any{"extra": 1},
	)
	require.NoError(t, err)
	assert.Equal(t, []any{7}, out)
}

func TestRunCachesCompiledQuery(t *testing.T) {
	e := New()
	_, err := e.Run("", ".x", nil, map[string]any{"x": 1}, nil)
	require.NoError(t, err)
	assert.Len(t, e.cache, 1)
	_, err = e.Run("", ".x", nil, map[string]any{"x": 2}, nil)
	require.NoError(t, err)
	assert.Len(t, e.cache, 1)
}

func TestRunInvalidQuery(t *testing.T) {
	e := New()
	_, err := e.Run("", "{invalid", nil, nil, nil)
	assert.Error(t, err)
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(false))
	assert.True(t, Truthy(true))
	assert.True(t, Truthy(0))
	assert.True(t, Truthy(""))
}
