// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// QuoteMode mirrors Python's csv.QUOTE_* constants (spec §6.4).
type QuoteMode string

const (
	QuoteMinimal    QuoteMode = "minimal"
	QuoteAll        QuoteMode = "all"
	QuoteNonNumeric QuoteMode = "nonnumeric"
	QuoteNone       QuoteMode = "none"
)

// CSVDialect configures delimiter/quoting knobs (spec §6.4). Delimiter,
// Quotechar and Escapechar are single characters; zero values fall back to
// RFC 4180 defaults (',', '"', unset).
type CSVDialect struct {
	Delimiter      rune
	Quotechar      rune
	Escapechar     rune
	Doublequote    bool
	LineTerminator string
	Quoting        QuoteMode
}

func (d CSVDialect) delimiter() rune {
	if d.Delimiter == 0 {
		return ','
	}
	return d.Delimiter
}

func (d CSVDialect) quotechar() rune {
	if d.Quotechar == 0 {
		return '"'
	}
	return d.Quotechar
}

// CSVSink writes one row per extracted record (or per FlattenList-expanded
// entry) with Fields as the declared columns.
type CSVSink struct {
	w           io.Writer
	closer      io.Closer
	dialect     CSVDialect
	fields      []string
	flattenList string
	wroteHeader bool
}

// NewCSVFile opens path and returns a CSVSink for it.
func NewCSVFile(path string, fields []string, flattenList string, dialect CSVDialect) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return &CSVSink{w: f, closer: f, dialect: dialect, fields: fields, flattenList: flattenList}, nil
}

// NewCSVWriter returns a CSVSink writing to w directly, for tests and
// in-memory use.
func NewCSVWriter(w io.Writer, fields []string, flattenList string, dialect CSVDialect) *CSVSink {
	return &CSVSink{w: w, dialect: dialect, fields: fields, flattenList: flattenList}
}

// Write renders value (expected to be a map[string]any keyed by Fields) into
// one or more CSV rows, expanding FlattenList if set and value[FlattenList]
// is a list.
func (s *CSVSink) Write(value any) error {
	if !s.wroteHeader {
		if err := s.writeRow(s.fields); err != nil {
			return err
		}
		s.wroteHeader = true
	}

	record, ok := value.(map[string]any)
	if !ok {
		return errors.Errorf("csv_file: expected a record map, got %T", value)
	}

	rows := s.expandRows(record)
	for _, row := range rows {
		if err := s.writeRow(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *CSVSink) expandRows(record map[string]any) [][]string {
	if s.flattenList == "" {
		return [][]string{s.renderRow(record, -1)}
	}

	list, ok := record[s.flattenList].([]any)
	if !ok || len(list) == 0 {
		return [][]string{s.renderRow(record, -1)}
	}

	rows := make([][]string, len(list))
	for i := range list {
		rows[i] = s.renderRow(record, i)
	}
	return rows
}

func (s *CSVSink) renderRow(record map[string]any, listIndex int) []string {
	row := make([]string, len(s.fields))
	for i, field := range s.fields {
		v := record[field]
		if field == s.flattenList && listIndex >= 0 {
			if list, ok := v.([]any); ok && listIndex < len(list) {
				v = list[listIndex]
			}
		}
		row[i] = cellString(v)
	}
	return row
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func (s *CSVSink) writeRow(row []string) error {
	if s.dialect.Quoting == "" || s.dialect.Quoting == QuoteMinimal {
		return s.writeViaStdlib(row)
	}
	return s.writeCustomQuoted(row)
}

// writeViaStdlib delegates to encoding/csv for the default "minimal"
// quoting behavior, which already matches RFC 4180 (quote only when a field
// contains the delimiter, a quote char, or a newline).
func (s *CSVSink) writeViaStdlib(row []string) error {
	cw := csv.NewWriter(s.w)
	cw.Comma = s.dialect.delimiter()
	if err := cw.Write(row); err != nil {
		return errors.Wrap(err, "write csv row")
	}
	cw.Flush()
	return cw.Error()
}

// writeCustomQuoted handles "all"/"nonnumeric"/"none", none of which
// encoding/csv.Writer can express directly: it always applies "minimal"
// quoting internally. Fields are pre-quoted/escaped here and the joined line
// is written raw.
func (s *CSVSink) writeCustomQuoted(row []string) error {
	delim := string(s.dialect.delimiter())
	quote := string(s.dialect.quotechar())
	term := s.dialect.LineTerminator
	if term == "" {
		term = "\r\n"
	}

	cells := make([]string, len(row))
	for i, v := range row {
		cells[i] = s.quoteCell(v, quote)
	}

	_, err := fmt.Fprint(s.w, strings.Join(cells, delim)+term)
	return err
}

func (s *CSVSink) quoteCell(v, quote string) string {
	switch s.dialect.Quoting {
	case QuoteNone:
		return v
	case QuoteAll:
		return quote + s.escape(v, quote) + quote
	case QuoteNonNumeric:
		if isNumeric(v) {
			return v
		}
		return quote + s.escape(v, quote) + quote
	default:
		return v
	}
}

func (s *CSVSink) escape(v, quote string) string {
	if s.dialect.Escapechar != 0 {
		return strings.ReplaceAll(v, quote, string(s.dialect.Escapechar)+quote)
	}
	if s.dialect.Doublequote {
		return strings.ReplaceAll(v, quote, quote+quote)
	}
	return v
}

func (s *CSVSink) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
