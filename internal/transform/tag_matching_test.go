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
	"github.com/aschults/docscraper/internal/queryengine"
	"github.com/aschults/docscraper/internal/vars"
)

func TestTagMatchingAddsTemplatedTag(t *testing.T) {
	tr := model.NewTextRun("Hello World", "")
	tr.Tags["annotate"] = "Y"
	doc := model.NewDocument(nil, model.NewParagraph(tr))

	qe := queryengine.New()
	err := TagMatching(doc, TagMatchingSpec{
		Criteria: match.Criteria{MatchElement: &match.ElementMatch{
			RequiredTagSets: []map[string]string{{"annotate": ""}},
		}},
		Variables: map[string]vars.Spec{
			"upper": {Substitutions: &vars.SubstitutionsSpec{
				Substitutions: []vars.Substitution{{Regex: `.*`, Substitute: `$0`, Operation: vars.OpUpper}},
			}},
		},
		Add: map[string]string{"shout": "{upper}"},
	}, qe)
	require.NoError(t, err)

	assert.Equal(t, "HELLO WORLD", tr.Tags["shout"])
	assert.Equal(t, "Y", tr.Tags["annotate"])
}

func TestTagMatchingRemoveStarClearsThenAdds(t *testing.T) {
	tr := model.NewTextRun("x", "")
	tr.Tags["annotate"] = "Y"
	tr.Tags["old"] = "stale"
	doc := model.NewDocument(nil, model.NewParagraph(tr))

	qe := queryengine.New()
	err := TagMatching(doc, TagMatchingSpec{
		Criteria: match.Criteria{MatchElement: &match.ElementMatch{
			RequiredTagSets: []map[string]string{{"annotate": ""}},
		}},
		Remove: []string{"*"},
		Add:    map[string]string{"fresh": "yes"},
	}, qe)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"fresh": "yes"}, tr.Tags)
}

func TestTagMatchingIgnoreErrorsLeavesElementUnchanged(t *testing.T) {
	tr := model.NewTextRun("x", "")
	tr.Tags["annotate"] = "Y"
	doc := model.NewDocument(nil, model.NewParagraph(tr))

	qe := queryengine.New()
	err := TagMatching(doc, TagMatchingSpec{
		Criteria: match.Criteria{MatchElement: &match.ElementMatch{
			RequiredTagSets: []map[string]string{{"annotate": ""}},
		}},
		Add:          map[string]string{"broken": "{missing_var}"},
		IgnoreErrors: true,
	}, qe)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"annotate": "Y"}, tr.Tags)
}
