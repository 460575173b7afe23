// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package match

import "github.com/aschults/docscraper/internal/model"

// Position describes an element's coordinates within its enclosing Table, if
// any.
type Position struct {
	Row, Col   int
	Rows, Cols int
	Has        bool
}

// positionFromAncestors recomputes the Position of ancestors[idx] by
// retracing the chain from the root, looking for the nearest Table ->
// DocContent transition at or before idx. This lets ancestor-level element
// predicates apply start_col/end_col/start_row/end_row bounds exactly like
// the matched element itself can.
func positionFromAncestors(ancestors []model.Element, idx int) Position {
	var pos Position
	for i := 1; i <= idx; i++ {
		if tbl, ok := ancestors[i-1].(*model.Table); ok {
			if cell, ok := ancestors[i].(*model.DocContent); ok {
				pos = Position{Row: cell.Row, Col: cell.Col, Rows: tbl.Rows, Cols: tbl.Cols, Has: true}
			}
		}
	}
	return pos
}

func normalizeIndex(v, total int) int {
	if v < 0 {
		return total + v
	}
	return v
}

func inBounds(value, total int, start, end *int) bool {
	lo := 0
	if start != nil {
		lo = normalizeIndex(*start, total)
	}
	hi := total
	if end != nil {
		hi = normalizeIndex(*end, total)
	}
	return value >= lo && value < hi
}

func positionMatches(pos Position, em *ElementMatch) bool {
	anyBound := em.StartCol != nil || em.EndCol != nil || em.StartRow != nil || em.EndRow != nil
	if !anyBound {
		return true
	}
	if !pos.Has {
		return false
	}
	if !inBounds(pos.Col, pos.Cols, em.StartCol, em.EndCol) {
		return false
	}
	if !inBounds(pos.Row, pos.Rows, em.StartRow, em.EndRow) {
		return false
	}
	return true
}
