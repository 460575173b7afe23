// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package traverse implements the engine's lazy, restartable preorder
// depth-first walk over the document tree (spec §4.2), yielding for each
// element a Context carrying its ancestor path, its (row, col) within any
// enclosing Table, and its position among siblings.
package traverse

import "github.com/aschults/docscraper/internal/model"

// Context is what the traversal yields for a single element.
type Context struct {
	// Element is the node being visited.
	Element model.Element
	// Ancestors lists every ancestor from the root to the immediate parent,
	// in that order. It is empty for the root itself.
	Ancestors []model.Element

	// Row and Col are the element's coordinates within its enclosing Table,
	// valid only when HasPosition is true.
	Row, Col    int
	HasPosition bool

	// Index is the element's 0-based position among its siblings.
	Index int
	// First and Last report whether Index is the first/last sibling.
	First, Last bool
}

// Parent returns the element's immediate parent, or nil at the root.
func (c Context) Parent() model.Element {
	if len(c.Ancestors) == 0 {
		return nil
	}
	return c.Ancestors[len(c.Ancestors)-1]
}
