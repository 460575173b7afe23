// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package vars computes named variables per matched element (spec §4.4):
// related-element lookup within a Table, text aggregation with regex
// substitution, ancestor-path templating, and embedded JQ queries. Computed
// variables are then dereferenced by templates ("{name}", "{name.text}",
// "{name.tags[key]}") via the same placeholder grammar the matcher's element
// expressions use (internal/match).
package vars

// Axis selects a related cell along one table dimension, relative to the
// current element's position.
type Axis string

const (
	AxisUnset Axis = ""
	AxisFirst Axis = "first"
	AxisLast  Axis = "last"
	AxisPrev  Axis = "prev"
	AxisNext  Axis = "next"
)

// ElementAtSpec resolves to a related element in the same Table. An unset
// axis holds that coordinate constant at the current element's position.
type ElementAtSpec struct {
	Col Axis
	Row Axis
}

// Substitution is one regex substitution step; Operation, if set, is applied
// to the result immediately after this step's substitution.
type Substitution struct {
	Regex      string
	Substitute string
	Operation  string
}

const (
	OpLower     = "lower"
	OpUpper     = "upper"
	OpUnchanged = "unchanged"
)

// SubstitutionsSpec runs Substitutions in order over a base string: the
// element's aggregated text, or the nearest enclosing Section's heading text
// when SectionHeadingOnly is set.
type SubstitutionsSpec struct {
	Substitutions      []Substitution
	SectionHeadingOnly bool
}

// AncestorPathSpec renders LevelValue against each ancestor in
// [LevelStart, LevelEnd) (0 = root), joined by Separator. Negative bounds
// count from the end of the ancestor list, same as match position bounds.
type AncestorPathSpec struct {
	LevelValue string
	Separator  string
	LevelStart int
	LevelEnd   int
}

// Spec is a single variable's definition; exactly one field should be set.
type Spec struct {
	ElementAt     *ElementAtSpec
	Substitutions *SubstitutionsSpec
	JSONQuery     *string
	AncestorPath  *AncestorPathSpec
}
