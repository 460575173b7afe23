// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package registry binds the "kind" identifiers used throughout a pipeline
// configuration document (§6.1) to concrete constructors. It is a direct
// generalization of the teacher's inject.Injector: instead of keying a
// type-map by reflect.Type and falling back to a parent injector, it keys a
// string-map by (Domain, kind) and falls back to a parent Registry. The
// config binding component (C8) is built entirely on top of this type.
package registry

import (
	"github.com/pkg/errors"
)

// Domain groups kinds that live in the same configuration section.
type Domain string

const (
	DomainSource    Domain = "source"
	DomainTransform Domain = "transform"
	DomainOutput    Domain = "output"
)

// ConfigNode decodes a raw configuration block into a typed Go value. It is
// implemented by internal/config's YAML node wrapper, keeping this package
// ignorant of the serialization format in use.
type ConfigNode interface {
	Decode(into interface{}) error
}

// Constructor builds a component instance from its declared configuration.
type Constructor func(cfg ConfigNode) (interface{}, error)

type key struct {
	domain Domain
	kind   string
}

// Registry maps (domain, kind) pairs to component constructors.
type Registry struct {
	values map[key]Constructor
	parent *Registry
}

// New returns a new, empty Registry.
func New() *Registry {
	return &Registry{values: make(map[key]Constructor)}
}

// SetParent sets the parent of the registry. If the registry cannot find a
// kind registered directly, it checks its parent before returning an error.
func (r *Registry) SetParent(parent *Registry) {
	r.parent = parent
}

// Register maps a constructor to the given domain and kind. Registering the
// same (domain, kind) pair twice overwrites the previous constructor.
func (r *Registry) Register(domain Domain, kind string, ctor Constructor) {
	r.values[key{domain, kind}] = ctor
}

// Build resolves kind within domain and invokes its constructor with cfg.
// Per §6.1, an unregistered kind is a configuration error.
func (r *Registry) Build(domain Domain, kind string, cfg ConfigNode) (interface{}, error) {
	ctor, ok := r.lookup(domain, kind)
	if !ok {
		return nil, errors.Errorf("unknown %s kind %q", domain, kind)
	}
	v, err := ctor(cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %q", domain, kind)
	}
	return v, nil
}

// Has reports whether kind is registered within domain, directly or via a
// parent registry.
func (r *Registry) Has(domain Domain, kind string) bool {
	_, ok := r.lookup(domain, kind)
	return ok
}

func (r *Registry) lookup(domain Domain, kind string) (Constructor, bool) {
	if ctor, ok := r.values[key{domain, kind}]; ok {
		return ctor, true
	}
	if r.parent != nil {
		return r.parent.lookup(domain, kind)
	}
	return nil, false
}

func (d Domain) String() string {
	return string(d)
}
