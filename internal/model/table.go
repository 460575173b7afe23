// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// internal/model/table.go
package model

import "github.com/pkg/errors"

// DocContent is a container cell holding an ordered sequence of
// paragraphs/lists. As a Table cell it also carries its (Row, Col)
// coordinates within that table.
type DocContent struct {
	Annotations
	Elements []Element
	Row      int
	Col      int
}

// NewDocContent constructs a DocContent cell at the given coordinates.
func NewDocContent(row, col int, elements ...Element) *DocContent {
	return &DocContent{Annotations: newAnnotations(), Elements: elements, Row: row, Col: col}
}

// Type implements Element.
func (e *DocContent) Type() Type { return TypeDocContent }

// Table is a 2-D grid of DocContent cells.
type Table struct {
	Annotations
	Rows  int
	Cols  int
	Cells []*DocContent // arbitrary order; geometry is keyed by (Row, Col)
}

// NewTable validates that cells exactly cover the rows x cols grid (spec
// §3.2 "Table.rows x cols matches the number of DocContent cells; each cell
// has unique (row, col)") and returns a structural error otherwise.
func NewTable(rows, cols int, cells []*DocContent) (*Table, error) {
	if rows < 0 || cols < 0 {
		return nil, errors.Errorf("table: negative dimensions %dx%d", rows, cols)
	}
	if len(cells) != rows*cols {
		return nil, errors.Errorf("table: expected %d cells for a %dx%d grid, got %d", rows*cols, rows, cols, len(cells))
	}

	seen := make(map[[2]int]bool, len(cells))
	for _, c := range cells {
		if c.Row < 0 || c.Row >= rows || c.Col < 0 || c.Col >= cols {
			return nil, errors.Errorf("table: cell (%d,%d) out of bounds for a %dx%d grid", c.Row, c.Col, rows, cols)
		}
		key := [2]int{c.Row, c.Col}
		if seen[key] {
			return nil, errors.Errorf("table: duplicate cell at (%d,%d)", c.Row, c.Col)
		}
		seen[key] = true
	}

	return &Table{Annotations: newAnnotations(), Rows: rows, Cols: cols, Cells: cells}, nil
}

// Type implements Element.
func (e *Table) Type() Type { return TypeTable }

// CellAt returns the cell at (row, col), if present.
func (e *Table) CellAt(row, col int) (*DocContent, bool) {
	for _, c := range e.Cells {
		if c.Row == row && c.Col == col {
			return c, true
		}
	}
	return nil, false
}
