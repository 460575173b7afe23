// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pipeline implements the driver (C7): it runs every configured
// source in order, applies every transformation to each resulting document,
// then feeds the document (or, once extract_json has run, its extracted
// records) through every output sink (spec §4.7).
package pipeline

import (
	"os"

	"github.com/pkg/errors"

	"github.com/aschults/docscraper/internal/config"
	"github.com/aschults/docscraper/internal/extract"
	"github.com/aschults/docscraper/internal/match"
	"github.com/aschults/docscraper/internal/model"
	"github.com/aschults/docscraper/internal/output"
	"github.com/aschults/docscraper/internal/queryengine"
	"github.com/aschults/docscraper/internal/registry"
	"github.com/aschults/docscraper/internal/source/htmlsource"
	"github.com/aschults/docscraper/internal/transform"
	"github.com/aschults/docscraper/internal/vars"
)

// Record is the unit a transformation kind operates on: the in-progress
// document, plus whatever extract_json has produced from it so far. A
// transformation that never runs extract_json leaves Items nil, and the
// driver then emits the document itself.
type Record struct {
	Doc   *model.Document
	Items []any
}

// TransformFunc mutates a Record in place; it is what every registered
// transformation kind resolves to.
type TransformFunc func(*Record) error

// SourceFunc produces the documents a configured source contributes to the
// stream.
type SourceFunc func() ([]*model.Document, error)

// RegisterDefaults registers every built-in source/transformation/output
// kind named in spec §6.1 into reg. qe is shared across every tag_matching
// and extract_json instance so their compiled-query caches are reused
// within one pipeline run.
func RegisterDefaults(reg *registry.Registry, qe *queryengine.Engine) {
	registerSources(reg)
	registerTransforms(reg, qe)
	registerOutputs(reg)
}

func registerSources(reg *registry.Registry) {
	reg.Register(registry.DomainSource, "html_fixture", func(cfg registry.ConfigNode) (interface{}, error) {
		var c config.HTMLFixtureConfig
		if err := cfg.Decode(&c); err != nil {
			return nil, err
		}
		return SourceFunc(func() ([]*model.Document, error) {
			f, err := os.Open(c.Path)
			if err != nil {
				return nil, errors.Wrapf(err, "open %s", c.Path)
			}
			defer f.Close()
			doc, err := htmlsource.Parse(f, htmlsource.Config{Name: c.Name})
			if err != nil {
				return nil, err
			}
			return []*model.Document{doc}, nil
		}), nil
	})

	// "drive" is a reserved, unimplemented registry slot: fetching documents
	// from the Google Drive API is an explicit non-goal (spec §1).
	reg.Register(registry.DomainSource, "drive", func(registry.ConfigNode) (interface{}, error) {
		return nil, config.ErrUnsupportedKind
	})
}

func registerTransforms(reg *registry.Registry, qe *queryengine.Engine) {
	reg.Register(registry.DomainTransform, "drop_elements", func(cfg registry.ConfigNode) (interface{}, error) {
		var c config.DropElementsConfig
		if err := cfg.Decode(&c); err != nil {
			return nil, err
		}
		spec := transform.DropElementsSpec{Criteria: c.Criteria.ToCriteria()}
		return TransformFunc(func(rec *Record) error { return transform.DropElements(rec.Doc, spec) }), nil
	})

	reg.Register(registry.DomainTransform, "merge_by_tag", func(cfg registry.ConfigNode) (interface{}, error) {
		var c config.MergeByTagConfig
		if err := cfg.Decode(&c); err != nil {
			return nil, err
		}
		pairExprs := make([]match.ElementExpression, 0, len(c.PairExpressions))
		for _, e := range c.PairExpressions {
			pairExprs = append(pairExprs, e.ToMatch())
		}
		spec := transform.MergeByTagSpec{
			Criteria:        c.Criteria.ToCriteria(),
			PairExpressions: pairExprs,
			MergeAsTextRun:  c.MergeAsTextRun,
		}
		return TransformFunc(func(rec *Record) error { return transform.MergeByTag(rec.Doc, spec) }), nil
	})

	reg.Register(registry.DomainTransform, "nest_bullets", func(registry.ConfigNode) (interface{}, error) {
		return TransformFunc(func(rec *Record) error { return transform.NestBullets(rec.Doc) }), nil
	})

	reg.Register(registry.DomainTransform, "nest_sections", func(cfg registry.ConfigNode) (interface{}, error) {
		var c config.NestSectionsConfig
		if err := cfg.Decode(&c); err != nil {
			return nil, err
		}
		spec := transform.NestSectionsSpec{HeadingLevelTag: c.HeadingLevelTag}
		return TransformFunc(func(rec *Record) error { return transform.NestSections(rec.Doc, spec) }), nil
	})

	reg.Register(registry.DomainTransform, "regex_replace", func(cfg registry.ConfigNode) (interface{}, error) {
		var c config.RegexReplaceConfig
		if err := cfg.Decode(&c); err != nil {
			return nil, err
		}
		subs := make([]vars.Substitution, 0, len(c.Substitutions))
		for _, s := range c.Substitutions {
			subs = append(subs, vars.Substitution{Regex: s.Regex, Substitute: s.Substitute, Operation: s.Operation})
		}
		spec := transform.RegexReplaceSpec{Criteria: c.Criteria.ToCriteria(), Substitutions: subs}
		return TransformFunc(func(rec *Record) error { return transform.RegexReplace(rec.Doc, spec) }), nil
	})

	reg.Register(registry.DomainTransform, "split_text", func(cfg registry.ConfigNode) (interface{}, error) {
		var c config.SplitTextConfig
		if err := cfg.Decode(&c); err != nil {
			return nil, err
		}
		spec := transform.SplitTextSpec{
			Criteria:       c.Criteria.ToCriteria(),
			TextRegex:      c.TextRegex,
			ElementTags:    c.ElementTags,
			AllTags:        c.AllTags,
			AllowNoMatches: c.AllowNoMatches,
		}
		return TransformFunc(func(rec *Record) error { return transform.SplitText(rec.Doc, spec) }), nil
	})

	reg.Register(registry.DomainTransform, "strip_elements", func(cfg registry.ConfigNode) (interface{}, error) {
		var c config.StripElementsConfig
		if err := cfg.Decode(&c); err != nil {
			return nil, err
		}
		spec := transform.StripElementsSpec{
			RemoveAttrsRe:      c.RemoveAttrsRe,
			RemoveStylesRe:     c.RemoveStylesRe,
			RemoveStyleRulesRe: c.RemoveStyleRulesRe,
		}
		return TransformFunc(func(rec *Record) error { return transform.StripElements(rec.Doc, spec) }), nil
	})

	reg.Register(registry.DomainTransform, "tag_matching", func(cfg registry.ConfigNode) (interface{}, error) {
		var c config.TagMatchingConfig
		if err := cfg.Decode(&c); err != nil {
			return nil, err
		}
		spec := transform.TagMatchingSpec{
			Criteria:     c.Criteria.ToCriteria(),
			Variables:    config.ToVarSpecs(c.Variables),
			Add:          c.Add,
			Remove:       c.Remove,
			IgnoreErrors: c.IgnoreErrors,
		}
		return TransformFunc(func(rec *Record) error { return transform.TagMatching(rec.Doc, spec, qe) }), nil
	})

	reg.Register(registry.DomainTransform, "extract_json", func(cfg registry.ConfigNode) (interface{}, error) {
		var c config.ExtractJSONConfig
		if err := cfg.Decode(&c); err != nil {
			return nil, err
		}
		ev := extract.New(qe)
		spec := c.ToSpec()
		return TransformFunc(func(rec *Record) error {
			results, err := ev.Evaluate(spec, rec.Doc)
			if err != nil {
				return err
			}
			rec.Items = results
			return nil
		}), nil
	})
}

func registerOutputs(reg *registry.Registry) {
	reg.Register(registry.DomainOutput, "stdout", func(registry.ConfigNode) (interface{}, error) {
		return output.NewStdout(os.Stdout), nil
	})

	reg.Register(registry.DomainOutput, "single_file", func(cfg registry.ConfigNode) (interface{}, error) {
		var c config.SingleFileConfig
		if err := cfg.Decode(&c); err != nil {
			return nil, err
		}
		return output.NewSingleFile(c.Path)
	})

	reg.Register(registry.DomainOutput, "template_path", func(cfg registry.ConfigNode) (interface{}, error) {
		var c config.TemplatePathConfig
		if err := cfg.Decode(&c); err != nil {
			return nil, err
		}
		return output.NewTemplatePath(c.OutputPathTemplate), nil
	})

	reg.Register(registry.DomainOutput, "csv_file", func(cfg registry.ConfigNode) (interface{}, error) {
		var c config.CSVFileConfig
		if err := cfg.Decode(&c); err != nil {
			return nil, err
		}
		dialect := output.CSVDialect{
			Delimiter:      c.DelimiterRune(),
			Quotechar:      c.QuotecharRune(),
			Escapechar:     c.EscapecharRune(),
			Doublequote:    c.Doublequote,
			LineTerminator: c.LineTerminator,
			Quoting:        output.QuoteMode(c.Quoting),
		}
		return output.NewCSVFile(c.Path, c.Fields, c.FlattenList, dialect)
	})
}
