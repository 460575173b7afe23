// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/aschults/docscraper/internal/extract"
	"github.com/aschults/docscraper/internal/match"
	"github.com/aschults/docscraper/internal/model"
	"github.com/aschults/docscraper/internal/vars"
)

// tagSet is rejected_tags'/required_tag_sets' wire shape: the documented
// map<string, regex>, or (per the list-form compatibility shim, spec §9
// Open Question) a bare []string, read as "key present, any value" (so a
// listed key requires presence in a required set and rejects in a rejected
// map).
// Both normalize to the same map[string]string before the matcher sees it.
type tagSet map[string]string

func (s *tagSet) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.SequenceNode {
		var keys []string
		if err := n.Decode(&keys); err != nil {
			return err
		}
		out := make(map[string]string, len(keys))
		for _, k := range keys {
			out[k] = ""
		}
		*s = out
		return nil
	}
	var m map[string]string
	if err := n.Decode(&m); err != nil {
		return err
	}
	*s = m
	return nil
}

type yamlElementExpression struct {
	Expr            string `yaml:"expr"`
	RegexMatch      string `yaml:"regex_match"`
	IgnoreKeyErrors bool   `yaml:"ignore_key_errors"`
}

// ToMatch converts one decoded element_expressions entry into its engine
// form. Exported so the pipeline wiring layer can convert merge_by_tag's
// pair_expressions without needing its own copy of this shape.
func (e yamlElementExpression) ToMatch() match.ElementExpression {
	return match.ElementExpression{Expr: e.Expr, RegexMatch: e.RegexMatch, IgnoreKeyErrors: e.IgnoreKeyErrors}
}

type yamlElementMatch struct {
	ElementTypes        []string                `yaml:"element_types"`
	RequiredTagSets     []tagSet                `yaml:"required_tag_sets"`
	RejectedTags        tagSet                  `yaml:"rejected_tags"`
	RequiredStyleSets   []tagSet                `yaml:"required_style_sets"`
	RejectedStyles      tagSet                  `yaml:"rejected_styles"`
	SkipStyleQuotes     *bool                   `yaml:"skip_style_quotes"`
	AggregatedTextRegex string                  `yaml:"aggregated_text_regex"`
	ElementExpressions  []yamlElementExpression `yaml:"element_expressions"`
	StartCol            *int                    `yaml:"start_col"`
	EndCol              *int                    `yaml:"end_col"`
	StartRow            *int                    `yaml:"start_row"`
	EndRow              *int                    `yaml:"end_row"`
}

func (m *yamlElementMatch) toMatch() *match.ElementMatch {
	if m == nil {
		return nil
	}
	types := make([]model.Type, 0, len(m.ElementTypes))
	for _, t := range m.ElementTypes {
		types = append(types, model.Type(t))
	}
	reqTags := make([]map[string]string, 0, len(m.RequiredTagSets))
	for _, s := range m.RequiredTagSets {
		reqTags = append(reqTags, map[string]string(s))
	}
	reqStyles := make([]map[string]string, 0, len(m.RequiredStyleSets))
	for _, s := range m.RequiredStyleSets {
		reqStyles = append(reqStyles, map[string]string(s))
	}
	exprs := make([]match.ElementExpression, 0, len(m.ElementExpressions))
	for _, e := range m.ElementExpressions {
		exprs = append(exprs, e.ToMatch())
	}
	return &match.ElementMatch{
		ElementTypes:        types,
		RequiredTagSets:     reqTags,
		RejectedTags:        map[string]string(m.RejectedTags),
		RequiredStyleSets:   reqStyles,
		RejectedStyles:      map[string]string(m.RejectedStyles),
		SkipStyleQuotes:     m.SkipStyleQuotes,
		AggregatedTextRegex: m.AggregatedTextRegex,
		ElementExpressions:  exprs,
		StartCol:            m.StartCol,
		EndCol:              m.EndCol,
		StartRow:            m.StartRow,
		EndRow:              m.EndRow,
	}
}

type yamlAncestorStep struct {
	Match         *yamlElementMatch `yaml:"match"`
	SkipAncestors string            `yaml:"skip_ancestors"`
	SkipCount     int               `yaml:"skip_count"`
}

type yamlCriteria struct {
	MatchElement      *yamlElementMatch  `yaml:"match_element"`
	MatchAncestorList []yamlAncestorStep `yaml:"match_ancestor_list"`
	MatchDescendent   *yamlElementMatch  `yaml:"match_descendent"`
}

// ToCriteria converts the decoded wire form into match.Criteria.
func (c yamlCriteria) ToCriteria() match.Criteria {
	steps := make([]match.AncestorStep, 0, len(c.MatchAncestorList))
	for _, s := range c.MatchAncestorList {
		steps = append(steps, match.AncestorStep{
			Match:         s.Match.toMatch(),
			SkipAncestors: match.SkipMode(s.SkipAncestors),
			SkipCount:     s.SkipCount,
		})
	}
	return match.Criteria{
		MatchElement:      c.MatchElement.toMatch(),
		MatchAncestorList: steps,
		MatchDescendent:   c.MatchDescendent.toMatch(),
	}
}

type yamlElementAt struct {
	Col string `yaml:"col"`
	Row string `yaml:"row"`
}

type yamlSubstitution struct {
	Regex      string `yaml:"regex"`
	Substitute string `yaml:"substitute"`
	Operation  string `yaml:"operation"`
}

type yamlSubstitutionsSpec struct {
	Substitutions      []yamlSubstitution `yaml:"substitutions"`
	SectionHeadingOnly bool               `yaml:"section_heading_only"`
}

type yamlAncestorPath struct {
	LevelValue string `yaml:"level_value"`
	Separator  string `yaml:"separator"`
	LevelStart int    `yaml:"level_start"`
	LevelEnd   int    `yaml:"level_end"`
}

// yamlVarSpec is one named variable's wire-form definition (spec §4.4);
// exactly one of its fields should be set.
type yamlVarSpec struct {
	ElementAt     *yamlElementAt         `yaml:"element_at"`
	Substitutions *yamlSubstitutionsSpec `yaml:"substitutions"`
	JSONQuery     *string                `yaml:"json_query"`
	AncestorPath  *yamlAncestorPath      `yaml:"ancestor_path"`
}

func (v yamlVarSpec) toVars() vars.Spec {
	var out vars.Spec
	if v.ElementAt != nil {
		out.ElementAt = &vars.ElementAtSpec{Col: vars.Axis(v.ElementAt.Col), Row: vars.Axis(v.ElementAt.Row)}
	}
	if v.Substitutions != nil {
		subs := make([]vars.Substitution, 0, len(v.Substitutions.Substitutions))
		for _, s := range v.Substitutions.Substitutions {
			subs = append(subs, vars.Substitution{Regex: s.Regex, Substitute: s.Substitute, Operation: s.Operation})
		}
		out.Substitutions = &vars.SubstitutionsSpec{Substitutions: subs, SectionHeadingOnly: v.Substitutions.SectionHeadingOnly}
	}
	if v.JSONQuery != nil {
		out.JSONQuery = v.JSONQuery
	}
	if v.AncestorPath != nil {
		out.AncestorPath = &vars.AncestorPathSpec{
			LevelValue: v.AncestorPath.LevelValue,
			Separator:  v.AncestorPath.Separator,
			LevelStart: v.AncestorPath.LevelStart,
			LevelEnd:   v.AncestorPath.LevelEnd,
		}
	}
	return out
}

// ToVarSpecs converts a tag_matching "variables" wire map into the engine's
// internal vars.Spec map.
func ToVarSpecs(in map[string]yamlVarSpec) map[string]vars.Spec {
	out := make(map[string]vars.Spec, len(in))
	for name, v := range in {
		out[name] = v.toVars()
	}
	return out
}

// DropElementsConfig is drop_elements' wire-form config.
type DropElementsConfig struct {
	Criteria yamlCriteria `yaml:"criteria"`
}

// MergeByTagConfig is merge_by_tag's wire-form config.
type MergeByTagConfig struct {
	Criteria        yamlCriteria            `yaml:"criteria"`
	PairExpressions []yamlElementExpression `yaml:"pair_expressions"`
	MergeAsTextRun  bool                    `yaml:"merge_as_text_run"`
}

// NestSectionsConfig is nest_sections' wire-form config.
type NestSectionsConfig struct {
	HeadingLevelTag string `yaml:"heading_level_tag"`
}

// RegexReplaceConfig is regex_replace's wire-form config.
type RegexReplaceConfig struct {
	Criteria      yamlCriteria       `yaml:"criteria"`
	Substitutions []yamlSubstitution `yaml:"substitutions"`
}

// SplitTextConfig is split_text's wire-form config.
type SplitTextConfig struct {
	Criteria       yamlCriteria        `yaml:"criteria"`
	TextRegex      string              `yaml:"text_regex"`
	ElementTags    []map[string]string `yaml:"element_tags"`
	AllTags        map[string]string   `yaml:"all_tags"`
	AllowNoMatches bool                `yaml:"allow_no_matches"`
}

// StripElementsConfig is strip_elements' wire-form config.
type StripElementsConfig struct {
	RemoveAttrsRe      []string `yaml:"remove_attrs_re"`
	RemoveStylesRe     []string `yaml:"remove_styles_re"`
	RemoveStyleRulesRe []string `yaml:"remove_style_rules_re"`
}

// TagMatchingConfig is tag_matching's wire-form config.
type TagMatchingConfig struct {
	Criteria     yamlCriteria           `yaml:"criteria"`
	Variables    map[string]yamlVarSpec `yaml:"variables"`
	Add          map[string]string      `yaml:"tags_add"`
	Remove       []string               `yaml:"tags_remove"`
	IgnoreErrors bool                   `yaml:"ignore_errors"`
}

// ExtractJSONConfig is extract_json's wire-form config, mirroring
// extract.Spec (spec §4.6).
type ExtractJSONConfig struct {
	Preamble      string                       `yaml:"preamble"`
	ExtractAll    string                       `yaml:"extract_all"`
	Filters       []string                     `yaml:"filters"`
	Validators    []string                     `yaml:"validators"`
	FirstItemOnly bool                         `yaml:"first_item_only"`
	Render        string                       `yaml:"render"`
	Nested        map[string]ExtractJSONConfig `yaml:"nested"`
}

// ToSpec converts the decoded wire form into extract.Spec.
func (c ExtractJSONConfig) ToSpec() extract.Spec {
	nested := make(map[string]extract.Spec, len(c.Nested))
	for name, n := range c.Nested {
		nested[name] = n.ToSpec()
	}
	return extract.Spec{
		Preamble:      c.Preamble,
		ExtractAll:    c.ExtractAll,
		Filters:       c.Filters,
		Validators:    c.Validators,
		FirstItemOnly: c.FirstItemOnly,
		Render:        c.Render,
		Nested:        nested,
	}
}

// HTMLFixtureConfig is html_fixture's wire-form config: a single local HTML
// file, read eagerly (no Drive API integration; spec §1's explicit
// non-goal).
type HTMLFixtureConfig struct {
	Path string `yaml:"path"`
	Name string `yaml:"name"`
}

// CSVFileConfig is csv_file's wire-form config (spec §6.4).
type CSVFileConfig struct {
	Path           string   `yaml:"path"`
	Fields         []string `yaml:"fields"`
	FlattenList    string   `yaml:"flatten_list"`
	Delimiter      string   `yaml:"delimiter"`
	Quotechar      string   `yaml:"quotechar"`
	Escapechar     string   `yaml:"escapechar"`
	Doublequote    bool     `yaml:"doublequote"`
	LineTerminator string   `yaml:"lineterminator"`
	Quoting        string   `yaml:"quoting"`
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

// DelimiterRune, QuotecharRune and EscapecharRune decode the single-character
// CSV dialect fields down to the rune output.CSVDialect expects.
func (c CSVFileConfig) DelimiterRune() rune  { return firstRune(c.Delimiter) }
func (c CSVFileConfig) QuotecharRune() rune  { return firstRune(c.Quotechar) }
func (c CSVFileConfig) EscapecharRune() rune { return firstRune(c.Escapechar) }

// TemplatePathConfig is template_path's wire-form config.
type TemplatePathConfig struct {
	OutputPathTemplate string `yaml:"output_path_template"`
}

// SingleFileConfig is single_file's wire-form config.
type SingleFileConfig struct {
	Path string `yaml:"path"`
}

// ErrUnsupportedKind is returned by reserved-but-unimplemented registry
// slots (e.g. a "drive" source kind), per spec §1's explicit non-goals.
var ErrUnsupportedKind = errors.New("kind is reserved but not implemented")
