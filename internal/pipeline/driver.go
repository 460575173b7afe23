// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"fmt"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/aschults/docscraper/internal/model"
	"github.com/aschults/docscraper/internal/output"
)

// Driver runs the configured sources, transformations and outputs in
// declared order (spec §4.7).
type Driver struct {
	Sources    []SourceFunc
	Transforms []TransformFunc
	Outputs    []output.Sink

	// FatalOnError stops the run on the first per-document failure instead
	// of reporting and continuing with the next document.
	FatalOnError bool

	Logger *log.Logger
}

// New returns a Driver with a default stderr logger.
func New() *Driver {
	return &Driver{Logger: log.Default()}
}

// Run pulls every source's documents into one stream and, for each
// document, applies every transformation in order, then every output in
// order. A document whose pass chain panics or returns an error is reported
// and, unless FatalOnError, skipped in favor of the next document (spec §7's
// "reported per-document; pipeline continues unless configured fatal").
func (d *Driver) Run() error {
	defer d.closeOutputs()

	for srcIdx, src := range d.Sources {
		docs, err := src()
		if err != nil {
			return errors.Wrapf(err, "source %d", srcIdx)
		}
		for _, doc := range docs {
			if err := d.runDocument(doc); err != nil {
				if d.FatalOnError {
					return err
				}
				d.logger().Error("document failed", "error", err)
			}
		}
	}
	return nil
}

func (d *Driver) runDocument(doc *model.Document) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()

	name := doc.Attrs["name"]

	rec := &Record{Doc: doc}
	for i, t := range d.Transforms {
		if err := t(rec); err != nil {
			return errors.Wrapf(err, "transformation %d", i)
		}
	}
	d.logger().Debug("document transformed", "name", name)

	values := rec.Items
	if values == nil {
		values = []any{model.Project(doc)}
	}
	for _, v := range values {
		for outIdx, sink := range d.Outputs {
			if err := writeToSink(sink, v, name); err != nil {
				return errors.Wrapf(err, "output %d", outIdx)
			}
		}
	}
	return nil
}

// writeToSink prefers a sink's WriteNamed when it implements output.NamedSink
// (spec §6.4's template_path "{name}" token), falling back to the plain
// Sink.Write otherwise.
func writeToSink(sink output.Sink, value any, name string) error {
	if ns, ok := sink.(output.NamedSink); ok {
		return ns.WriteNamed(value, name)
	}
	return sink.Write(value)
}

func (d *Driver) closeOutputs() {
	for i, sink := range d.Outputs {
		if err := sink.Close(); err != nil {
			d.logger().Error(fmt.Sprintf("close output %d", i), "error", err)
		}
	}
}

func (d *Driver) logger() *log.Logger {
	if d.Logger == nil {
		return log.Default()
	}
	return d.Logger
}
