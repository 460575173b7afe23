// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transform

import "github.com/aschults/docscraper/internal/model"

// NestBullets interprets each BulletItem's Level to build the nested tree
// described in spec §3.2: a level n+1 item directly following a level n
// sibling becomes that sibling's child. Every maximal run of consecutive
// BulletItem siblings within a container is replaced by one BulletList
// wrapping its top-level items.
func NestBullets(doc *model.Document) error {
	nestBulletsIn(doc)
	return nil
}

func nestBulletsIn(e model.Element) {
	switch v := e.(type) {
	case *model.Document:
		v.Content = nestBulletRuns(v.Content)
		for _, c := range v.Content {
			nestBulletsIn(c)
		}
		return
	case *model.Section:
		v.Content = nestBulletRuns(v.Content)
		for _, c := range v.Content {
			nestBulletsIn(c)
		}
		return
	case *model.DocContent:
		v.Elements = nestBulletRuns(v.Elements)
		for _, c := range v.Elements {
			nestBulletsIn(c)
		}
		return
	case *model.BulletList:
		v.Items = foldBulletLevels(v.Items)
		for _, it := range v.Items {
			nestBulletsIn(it)
		}
		return
	case *model.BulletItem:
		for _, n := range v.Nested {
			nestBulletsIn(n)
		}
		return
	case *model.Table:
		for _, c := range v.Cells {
			nestBulletsIn(c)
		}
		return
	}
}

// nestBulletRuns replaces every maximal run of consecutive BulletItem
// siblings in elems with a single BulletList of its folded top-level items.
func nestBulletRuns(elems []model.Element) []model.Element {
	out := make([]model.Element, 0, len(elems))
	i := 0
	for i < len(elems) {
		first, ok := elems[i].(*model.BulletItem)
		if !ok {
			out = append(out, elems[i])
			i++
			continue
		}
		run := []*model.BulletItem{first}
		j := i + 1
		for j < len(elems) {
			bi, ok := elems[j].(*model.BulletItem)
			if !ok {
				break
			}
			run = append(run, bi)
			j++
		}
		out = append(out, model.NewBulletList(foldBulletLevels(run)...))
		i = j
	}
	return out
}

// foldBulletLevels builds the nested tree from a flat, already-ordered run
// of BulletItems, using a level stack: an item is nested under the nearest
// preceding still-open item of strictly lower level, and closes every open
// item at an equal-or-deeper level. Re-running this over an already-folded
// top-level slice is a no-op, since no item in such a slice is ever
// subordinate to an earlier one in the same slice.
func foldBulletLevels(items []*model.BulletItem) []*model.BulletItem {
	var top []*model.BulletItem
	var stack []*model.BulletItem
	for _, item := range items {
		for len(stack) > 0 && stack[len(stack)-1].Level >= item.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			top = append(top, item)
		} else {
			parent := stack[len(stack)-1]
			parent.Nested = append(parent.Nested, item)
		}
		stack = append(stack, item)
	}
	return top
}
