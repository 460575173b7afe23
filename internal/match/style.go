// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package match

import (
	"strings"

	"github.com/aschults/docscraper/internal/model"
)

// effectiveStyle resolves an element's style map, folding in any class-based
// rules inherited from Document.shared_data.style_rules via attribs.class
// (spec §4.3). The element's own style entries take precedence over
// inherited class rules, mirroring CSS's inline-beats-stylesheet cascade --
// an Open Question the spec leaves unresolved (see DESIGN.md).
func effectiveStyle(e model.Element, doc *model.Document, quoteStrip bool) map[string]string {
	resolved := map[string]string{}

	if doc != nil {
		if classAttr, ok := e.GetAttribs()["class"]; ok {
			for _, cls := range strings.Fields(classAttr) {
				if rules, ok := doc.SharedData.StyleRules[cls]; ok {
					for k, v := range rules {
						resolved[k] = v
					}
				}
			}
		}
	}

	for k, v := range e.GetStyle() {
		resolved[k] = v
	}

	if quoteStrip {
		for k, v := range resolved {
			resolved[k] = stripQuotes(v)
		}
	}
	return resolved
}

// stripQuotes removes a single matching pair of leading/trailing quote
// characters, e.g. `"Arial"` -> `Arial`.
func stripQuotes(v string) string {
	if len(v) < 2 {
		return v
	}
	first, last := v[0], v[len(v)-1]
	if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
		return v[1 : len(v)-1]
	}
	return v
}
