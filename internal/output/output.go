// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package output implements the pipeline's serialization sinks (spec §6.4):
// stdout, single_file, template_path, and csv_file. A Sink receives one
// rendered value per extracted document and decides when/how to flush it.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Sink consumes one document's extracted value at a time.
type Sink interface {
	Write(value any) error
	Close() error
}

// NamedSink is implemented by sinks that need the source document's name to
// render their output (spec §6.4's template_path "{name}" token). The driver
// prefers WriteNamed over Write whenever a sink implements this interface.
type NamedSink interface {
	Sink
	WriteNamed(value any, name string) error
}

const recordSeparator = "\n"

func renderJSON(value any) (string, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return "", errors.Wrap(err, "render json")
	}
	return string(b), nil
}

// stdoutSink emits newline-separated JSON records to an io.Writer (os.Stdout
// in production; swappable for tests).
type stdoutSink struct {
	w io.Writer
}

// NewStdout returns a Sink writing newline-separated JSON to w.
func NewStdout(w io.Writer) Sink {
	return &stdoutSink{w: w}
}

func (s *stdoutSink) Write(value any) error {
	rendered, err := renderJSON(value)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(s.w, rendered+recordSeparator)
	return err
}

func (s *stdoutSink) Close() error { return nil }

// singleFileSink concatenates every document's rendered JSON into one file,
// separated the same way as stdout.
type singleFileSink struct {
	f *os.File
}

// NewSingleFile opens path for writing (truncating any existing content).
func NewSingleFile(path string) (Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return &singleFileSink{f: f}, nil
}

func (s *singleFileSink) Write(value any) error {
	rendered, err := renderJSON(value)
	if err != nil {
		return err
	}
	_, err = s.f.WriteString(rendered + recordSeparator)
	return err
}

func (s *singleFileSink) Close() error { return s.f.Close() }

// templatePathSink writes one file per document; PathTemplate's "{i}" is a
// monotonically increasing counter and "{name}" is Document.attrs[name],
// supplied per-call through WriteNamed.
type templatePathSink struct {
	pathTemplate string
	counter      int
}

// NewTemplatePath returns a NamedSink keyed by a path template (spec §6.4).
// The pipeline driver calls WriteNamed with the source document's name
// whenever a sink implements NamedSink; Write alone leaves "{name}" empty.
func NewTemplatePath(pathTemplate string) NamedSink {
	return &templatePathSink{pathTemplate: pathTemplate}
}

func (s *templatePathSink) Write(value any) error {
	return s.WriteNamed(value, "")
}

// WriteNamed renders value to its own file, computing the path from
// PathTemplate with "{i}" replaced by the call counter and "{name}" by name.
func (s *templatePathSink) WriteNamed(value any, name string) error {
	rendered, err := renderJSON(value)
	if err != nil {
		return err
	}
	path := s.pathTemplate
	path = strings.ReplaceAll(path, "{i}", strconv.Itoa(s.counter))
	path = strings.ReplaceAll(path, "{name}", name)
	s.counter++

	return errors.Wrapf(os.WriteFile(path, []byte(rendered), 0o644), "write %s", path)
}

func (s *templatePathSink) Close() error { return nil }
