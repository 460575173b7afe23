// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package traverse

import "github.com/aschults/docscraper/internal/model"

// VisitFunc is called once per element in preorder. Returning false stops the
// walk early, including any remaining siblings and ancestors' siblings.
type VisitFunc func(ctx Context) bool

// Walk performs a preorder depth-first traversal starting at root. root need
// not be a Document: the engine resumes traversal at an arbitrary subtree for
// nested queries (e.g. match_descendent, or a nested extraction spec), which
// is simply another call to Walk with a different root (spec §4.2).
func Walk(root model.Element, visit VisitFunc) {
	walk(root, nil, -1, -1, false, 0, true, true, visit)
}

// All materializes the full preorder sequence. Prefer Walk for large trees or
// when early termination matters; All is convenient for tests and for
// passes that need random access to the whole list.
func All(root model.Element) []Context {
	var out []Context
	Walk(root, func(ctx Context) bool {
		out = append(out, ctx)
		return true
	})
	return out
}

func walk(e model.Element, ancestors []model.Element, row, col int, hasPosition bool, index int, first, last bool, visit VisitFunc) bool {
	ctx := Context{
		Element:     e,
		Ancestors:   ancestors,
		Row:         row,
		Col:         col,
		HasPosition: hasPosition,
		Index:       index,
		First:       first,
		Last:        last,
	}
	if !visit(ctx) {
		return false
	}

	childAncestors := make([]model.Element, len(ancestors)+1)
	copy(childAncestors, ancestors)
	childAncestors[len(ancestors)] = e

	children := model.Children(e)
	_, isTable := e.(*model.Table)
	for i, c := range children {
		cr, cc, hasP := row, col, hasPosition
		if isTable {
			if cell, ok := c.(*model.DocContent); ok {
				cr, cc, hasP = cell.Row, cell.Col, true
			}
		}
		if !walk(c, childAncestors, cr, cc, hasP, i, i == 0, i == len(children)-1, visit) {
			return false
		}
	}
	return true
}
