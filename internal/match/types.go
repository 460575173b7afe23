// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package match

import "github.com/aschults/docscraper/internal/model"

// SkipMode controls how a skip directive in a match_ancestor_list consumes
// ancestors (spec §4.3).
type SkipMode string

const (
	SkipExactly SkipMode = "exactly"
	SkipAtLeast SkipMode = "at_least"
	SkipAny     SkipMode = "any"
)

// ElementExpression evaluates a rendered template against a regex, used for
// element/ancestor-pair comparisons such as merge_by_tag's "{0.*}" vs
// "{1.*}" checks.
type ElementExpression struct {
	Expr            string
	RegexMatch      string
	IgnoreKeyErrors bool
}

// ElementMatch is the predicate bundle evaluated against a single element.
// Every field is optional; an omitted field is a wildcard.
type ElementMatch struct {
	ElementTypes []model.Type

	// RequiredTagSets is a disjunction of conjunctions: the element matches if
	// any one of these maps is fully satisfied (spec §4.3).
	RequiredTagSets []map[string]string
	RejectedTags    map[string]string

	RequiredStyleSets []map[string]string
	RejectedStyles    map[string]string
	// SkipStyleQuotes defaults to true when nil.
	SkipStyleQuotes *bool

	AggregatedTextRegex string

	ElementExpressions []ElementExpression

	StartCol, EndCol, StartRow, EndRow *int
}

// AncestorStep is one element of a match_ancestor_list: either an element
// predicate (Match != nil) or a skip directive.
type AncestorStep struct {
	Match         *ElementMatch
	SkipAncestors SkipMode
	SkipCount     int
}

// Criteria bundles the element, ancestor-path, and descendant predicates
// that make up a MatchCriteria (spec §4.3).
type Criteria struct {
	MatchElement      *ElementMatch
	MatchAncestorList []AncestorStep
	MatchDescendent   *ElementMatch
}

func skipQuotes(em *ElementMatch) bool {
	if em == nil || em.SkipStyleQuotes == nil {
		return true
	}
	return *em.SkipStyleQuotes
}
