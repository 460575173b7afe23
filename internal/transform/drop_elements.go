// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transform

import (
	"github.com/aschults/docscraper/internal/match"
	"github.com/aschults/docscraper/internal/model"
)

// DropElementsSpec removes every element matching Criteria, taking its
// descendants with it.
type DropElementsSpec struct {
	Criteria match.Criteria
}

// DropElements removes matched elements from doc in place, preserving
// sibling order among survivors (spec §4.5).
func DropElements(doc *model.Document, spec DropElementsSpec) error {
	m := match.New()
	dropped, err := matchedSet(m, doc, spec.Criteria)
	if err != nil {
		return wrapPassErr("drop_elements", err)
	}
	pruneTree(doc, dropped)
	return nil
}
