// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config binds a serialized pipeline configuration (spec §6.1) to
// the engine's component registry: three ordered lists of (kind, raw
// config) entries, decoded lazily so each registered constructor can
// interpret its own config shape.
package config

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/aschults/docscraper/internal/registry"
)

// Entry is one (kind, config) pair shared by all three top-level lists.
type Entry struct {
	Kind   string    `yaml:"kind"`
	Config yaml.Node `yaml:"config"`
}

// Decode implements registry.ConfigNode over the entry's raw yaml.Node.
func (e Entry) Decode(into interface{}) error {
	if err := e.Config.Decode(into); err != nil {
		return errors.Wrapf(err, "decode config for kind %q", e.Kind)
	}
	return nil
}

// Document is the top-level configuration document (spec §6.1).
type Document struct {
	Sources         []Entry `yaml:"sources"`
	Transformations []Entry `yaml:"transformations"`
	Outputs         []Entry `yaml:"outputs"`
}

// Parse decodes a YAML configuration document from r.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "parse config document")
	}
	return &doc, nil
}

// Validate reports a configuration error (spec §7 "fatal before pipeline
// start") for any entry whose kind is unregistered in reg.
func (d *Document) Validate(reg *registry.Registry) error {
	for _, e := range d.Sources {
		if !reg.Has(registry.DomainSource, e.Kind) {
			return errors.Errorf("unknown source kind %q", e.Kind)
		}
	}
	for _, e := range d.Transformations {
		if !reg.Has(registry.DomainTransform, e.Kind) {
			return errors.Errorf("unknown transformation kind %q", e.Kind)
		}
	}
	for _, e := range d.Outputs {
		if !reg.Has(registry.DomainOutput, e.Kind) {
			return errors.Errorf("unknown output kind %q", e.Kind)
		}
	}
	return nil
}
