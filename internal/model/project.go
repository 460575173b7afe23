// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package model

// Project converts an element subtree into the generic JSON-shaped value
// consumed by the embedded query engine (spec §4.6): every element becomes a
// map with "type", "tags", "style", "attribs", and variant-specific fields.
// Tables expose their cells as a row-major list under "elements".
func Project(e Element) map[string]any {
	out := map[string]any{
		"type":    string(e.Type()),
		"tags":    stringMapToAny(e.GetTags()),
		"style":   stringMapToAny(e.GetStyle()),
		"attribs": stringMapToAny(e.GetAttribs()),
	}

	switch v := e.(type) {
	case *TextRun:
		out["text"] = v.Text
		out["url"] = v.URL
	case *Chips:
		out["text"] = v.Text
		out["url"] = v.URL
	case *Paragraph:
		out["elements"] = projectParagraphElements(v.Elements)
	case *BulletItem:
		out["elements"] = projectParagraphElements(v.Elements)
		out["nested"] = projectBulletItems(v.Nested)
		out["list_type"] = v.ListType
		out["level"] = v.Level
	case *BulletList:
		out["elements"] = projectBulletItems(v.Items)
	case *DocContent:
		out["elements"] = projectElements(v.Elements)
		out["row"] = v.Row
		out["col"] = v.Col
	case *Table:
		out["elements"] = projectTableCells(v)
		out["rows"] = v.Rows
		out["cols"] = v.Cols
	case *Section:
		if v.Heading != nil {
			out["heading"] = Project(v.Heading)
		} else {
			out["heading"] = nil
		}
		out["level"] = v.Level
		out["content"] = projectElements(v.Content)
	case *Document:
		out["attrs"] = stringMapToAny(v.Attrs)
		out["shared_data"] = map[string]any{"style_rules": styleRulesToAny(v.SharedData.StyleRules)}
		out["content"] = projectElements(v.Content)
	}

	return out
}

func stringMapToAny(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func styleRulesToAny(m map[string]map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = stringMapToAny(v)
	}
	return out
}

func projectElements(elems []Element) []any {
	out := make([]any, len(elems))
	for i, e := range elems {
		out[i] = Project(e)
	}
	return out
}

func projectParagraphElements(elems []ParagraphElement) []any {
	out := make([]any, len(elems))
	for i, e := range elems {
		out[i] = Project(e)
	}
	return out
}

func projectBulletItems(items []*BulletItem) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = Project(it)
	}
	return out
}

// projectTableCells lists a Table's cells in row-major order, i.e. by
// increasing row then increasing col, regardless of Cells' storage order.
func projectTableCells(t *Table) []any {
	out := make([]any, 0, len(t.Cells))
	for r := 0; r < t.Rows; r++ {
		for c := 0; c < t.Cols; c++ {
			if cell, ok := t.CellAt(r, c); ok {
				out = append(out, Project(cell))
			}
		}
	}
	return out
}
