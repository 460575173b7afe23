// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package extract implements the nested JQ-like extraction stage (spec
// §4.6): a query specification that, given the final transformed tree,
// yields candidate items, filters and validates them, and renders each
// surviving candidate into its final structured output value.
package extract

import (
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/aschults/docscraper/internal/model"
	"github.com/aschults/docscraper/internal/queryengine"
)

// Spec is one ExtractSpec node. Nested specs are evaluated per surviving
// candidate and bound as $name in Render.
type Spec struct {
	Preamble      string
	ExtractAll    string
	Filters       []string
	Validators    []string
	FirstItemOnly bool
	Render        string
	Nested        map[string]Spec
}

// Evaluator runs Spec trees against a projected element, backed by a shared
// queryengine.Engine so its compiled-query cache is reused across every
// extract_json pass invocation in a pipeline run.
type Evaluator struct {
	qe *queryengine.Engine
}

// New returns an Evaluator backed by qe.
func New(qe *queryengine.Engine) *Evaluator {
	return &Evaluator{qe: qe}
}

// Evaluate runs spec against root (typically the transformed Document),
// returning the rendered values for every surviving candidate, or just the
// first if spec.FirstItemOnly is set (an empty slice if none survive).
func (ev *Evaluator) Evaluate(spec Spec, root model.Element) ([]any, error) {
	projection := model.Project(root)
	return ev.evaluateProjected(spec, projection)
}

func (ev *Evaluator) evaluateProjected(spec Spec, projection any) ([]any, error) {
	candidates, err := ev.qe.Run(spec.Preamble, spec.ExtractAll, nil, projection, nil)
	if err != nil {
		return nil, errors.Wrap(err, "extract_all")
	}

	// Never nil: a run that drops every candidate still yields an empty
	// result list, which the pipeline driver reads as "extraction ran, emit
	// nothing" rather than falling back to the projected document.
	out := []any{}
	for _, candidate := range candidates {
		ok, err := ev.passesAll(spec.Preamble, spec.Filters, candidate)
		if err != nil {
			return nil, errors.Wrap(err, "filter")
		}
		if !ok {
			continue
		}

		ok, err = ev.passesAll(spec.Preamble, spec.Validators, candidate)
		if err != nil {
			return nil, errors.Wrap(err, "validator")
		}
		if !ok {
			log.Warn("extract: candidate dropped by validator", "candidate", candidate)
			continue
		}

		rendered, err := ev.renderOne(spec, candidate)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered)

		if spec.FirstItemOnly {
			break
		}
	}
	return out, nil
}

func (ev *Evaluator) passesAll(preamble string, queries []string, candidate any) (bool, error) {
	for _, q := range queries {
		results, err := ev.qe.Run(preamble, q, nil, candidate, nil)
		if err != nil {
			return false, err
		}
		if len(results) == 0 || !queryengine.Truthy(results[0]) {
			return false, nil
		}
	}
	return true, nil
}

func (ev *Evaluator) renderOne(spec Spec, candidate any) (any, error) {
	nestedNames := make([]string, 0, len(spec.Nested))
	for name := range spec.Nested {
		nestedNames = append(nestedNames, name)
	}

	nestedValues := make(map[string]any, len(nestedNames))
	for _, name := range nestedNames {
		nestedResults, err := ev.evaluateProjected(spec.Nested[name], candidate)
		if err != nil {
			return nil, errors.Wrapf(err, "nested[%s]", name)
		}
		nestedValues[name] = firstOrNil(spec.Nested[name], nestedResults)
	}

	results, err := ev.qe.Run(spec.Preamble, spec.Render, nestedNames, candidate, nestedValues)
	if err != nil {
		return nil, errors.Wrap(err, "render")
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func firstOrNil(spec Spec, results []any) any {
	if spec.FirstItemOnly {
		if len(results) == 0 {
			return nil
		}
		return results[0]
	}
	return results
}
