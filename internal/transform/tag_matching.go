// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transform

import (
	"github.com/pkg/errors"

	"github.com/aschults/docscraper/internal/match"
	"github.com/aschults/docscraper/internal/model"
	"github.com/aschults/docscraper/internal/queryengine"
	"github.com/aschults/docscraper/internal/traverse"
	"github.com/aschults/docscraper/internal/vars"
)

// TagMatchingSpec computes Variables against each matched element, then
// mutates its tags: Remove names tags to delete first ("*" clears every
// tag), then Add assigns each templated value (spec §4.5).
type TagMatchingSpec struct {
	Criteria     match.Criteria
	Variables    map[string]vars.Spec
	Add          map[string]string
	Remove       []string
	IgnoreErrors bool
}

// TagMatching runs against every matched element. Per spec §8.1, when
// IgnoreErrors is true a failing element's tree state is provably unchanged:
// every variable is computed and every Add template rendered before any tag
// mutation is applied, so a failure never leaves a partially-mutated element.
func TagMatching(doc *model.Document, spec TagMatchingSpec, qe *queryengine.Engine) error {
	m := match.New()
	ve := vars.New(qe)

	var runErr error
	traverse.Walk(doc, func(ctx traverse.Context) bool {
		if runErr != nil {
			return false
		}
		ok, err := m.MatchElement(ctx, spec.Criteria, doc)
		if err != nil {
			runErr = err
			return false
		}
		if !ok {
			return true
		}

		if err := applyTagMatching(ctx, doc, ve, spec); err != nil {
			if spec.IgnoreErrors {
				return true
			}
			runErr = err
			return false
		}
		return true
	})
	return wrapPassErr("tag_matching", runErr)
}

func applyTagMatching(ctx traverse.Context, doc *model.Document, ve *vars.Engine, spec TagMatchingSpec) error {
	values, err := ve.ComputeAll(spec.Variables, ctx, doc)
	if err != nil {
		return errors.Wrap(err, "compute variables")
	}

	resolver := vars.TemplateResolver{Values: values}
	rendered := make(map[string]string, len(spec.Add))
	for name, tmpl := range spec.Add {
		val, err := match.RenderTemplate(tmpl, resolver)
		if err != nil {
			return errors.Wrapf(err, "render tags.add[%s]", name)
		}
		rendered[name] = val
	}

	tags := ctx.Element.GetTags()
	for _, key := range spec.Remove {
		if key == "*" {
			ctx.Element.ClearTags()
			continue
		}
		delete(tags, key)
	}
	for name, val := range rendered {
		tags[name] = val
	}
	return nil
}
