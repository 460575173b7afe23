// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package queryengine wraps github.com/itchyny/gojq behind the minimal
// surface the core needs (spec §6.3): compile a query with an optional
// preamble of function definitions, run it against a projected value, get
// back Go values. Neither the variable engine nor the extraction stage
// imports gojq directly, so the JQ implementation backing them stays an
// implementation detail of this package.
package queryengine

import (
	"sync"

	"github.com/itchyny/gojq"
	"github.com/pkg/errors"
)

// Engine compiles and runs JQ-like queries, caching compiled programs by
// their (preamble, query, variable names) triple.
type Engine struct {
	mu    sync.Mutex
	cache map[string]*gojq.Code
}

// New returns an Engine with an empty compile cache.
func New() *Engine {
	return &Engine{cache: map[string]*gojq.Code{}}
}

func cacheKey(preamble, query string, varNames []string) string {
	key := preamble + "\x00" + query
	for _, n := range varNames {
		key += "\x00" + n
	}
	return key
}

func (e *Engine) compile(preamble, query string, varNames []string) (*gojq.Code, error) {
	key := cacheKey(preamble, query, varNames)

	e.mu.Lock()
	defer e.mu.Unlock()
	if code, ok := e.cache[key]; ok {
		return code, nil
	}

	full := query
	if preamble != "" {
		full = preamble + "\n" + query
	}
	parsed, err := gojq.Parse(full)
	if err != nil {
		return nil, errors.Wrapf(err, "parse query %q", query)
	}

	// gojq wants variable names in their "$name" spelling; callers pass bare
	// names so the prefix stays an implementation detail of this package.
	prefixed := make([]string, len(varNames))
	for i, n := range varNames {
		prefixed[i] = "$" + n
	}
	code, err := gojq.Compile(parsed, gojq.WithVariables(prefixed))
	if err != nil {
		return nil, errors.Wrapf(err, "compile query %q", query)
	}
	e.cache[key] = code
	return code, nil
}

// Run compiles (or reuses the cached compile of) preamble+query and
// evaluates it against input, binding vars[name] to $name for each entry in
// varNames. It returns every value the query yields, in order.
func (e *Engine) Run(preamble, query string, varNames []string, input any, vars map[string]any) ([]any, error) {
	code, err := e.compile(preamble, query, varNames)
	if err != nil {
		return nil, err
	}

	args := make([]any, len(varNames))
	for i, n := range varNames {
		args[i] = vars[n]
	}

	iter := code.Run(input, args...)
	var out []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, errors.Wrap(err, "jq evaluation")
		}
		out = append(out, v)
	}
	return out, nil
}

// Truthy implements jq's truthiness: everything but false and null is true.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}
