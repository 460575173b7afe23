// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package htmlsource parses a Google Docs HTML export into the engine's
// document tree (spec §6.2): headings and paragraphs become Paragraph
// elements, list items become BulletItem siblings (nest_bullets folds them
// later), tables become Table/DocContent grids with coordinates set, and the
// export's embedded <style> block populates Document.SharedData.StyleRules
// for attribs.class-based style inheritance (spec §4.3).
package htmlsource

import (
	"io"
	"strings"

	"github.com/grafana/regexp"
	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/aschults/docscraper/internal/model"
)

// Config carries a caller-given document name, which the source stamps into
// Document.attrs["name"] (left unset when Name is empty) for output sinks
// (spec §6.4 "{name}" path template token).
type Config struct {
	Name string
}

// Parse reads a single Google Docs HTML export from r and returns its
// Document tree.
func Parse(r io.Reader, cfg Config) (*model.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}

	attrs := map[string]string{}
	if cfg.Name != "" {
		attrs["name"] = cfg.Name
	}
	doc := model.NewDocument(attrs)

	body := findNode(root, "body")
	styleNode := findNode(root, "style")
	if styleNode != nil {
		doc.SharedData.StyleRules = parseStyleRules(textContent(styleNode))
	}
	if body == nil {
		return doc, nil
	}

	p := &parser{}
	doc.Content = p.blockChildren(body)
	return doc, nil
}

func findNode(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// cssRulePattern matches one class selector block, e.g. ".c0{color:#ff0000}".
var cssRulePattern = regexp.MustCompile(`\.([A-Za-z0-9_-]+)\s*\{([^}]*)\}`)

func parseStyleRules(css string) map[string]map[string]string {
	out := map[string]map[string]string{}
	for _, m := range cssRulePattern.FindAllStringSubmatch(css, -1) {
		class, body := m[1], m[2]
		rules := map[string]string{}
		for _, decl := range strings.Split(body, ";") {
			decl = strings.TrimSpace(decl)
			if decl == "" {
				continue
			}
			parts := strings.SplitN(decl, ":", 2)
			if len(parts) != 2 {
				continue
			}
			rules[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
		if len(rules) > 0 {
			out[class] = rules
		}
	}
	return out
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func applyAnnotations(e model.Element, n *html.Node) {
	if class, ok := attr(n, "class"); ok {
		e.GetAttribs()["class"] = class
	}
	if style, ok := attr(n, "style"); ok {
		for k, v := range parseInlineStyle(style) {
			e.GetStyle()[k] = v
		}
	}
}

func parseInlineStyle(style string) map[string]string {
	out := map[string]string{}
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return out
}

var headingLevel = regexp.MustCompile(`^h([1-6])$`)

// parser carries no state beyond Table coordinate tracking, which is scoped
// to a single table's recursive call rather than held here.
type parser struct{}

// blockChildren converts n's block-level children (paragraphs, headings,
// lists, tables) into top-level elements. Inline text at block scope is
// wrapped in an anonymous Paragraph.
func (p *parser) blockChildren(n *html.Node) []model.Element {
	var out []model.Element
	var pendingInline []model.ParagraphElement

	flush := func() {
		if len(pendingInline) > 0 {
			out = append(out, model.NewParagraph(pendingInline...))
			pendingInline = nil
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			switch {
			case headingLevel.MatchString(c.Data):
				flush()
				out = append(out, p.heading(c))
			case c.Data == "p" || c.Data == "div":
				flush()
				out = append(out, p.paragraph(c))
			case c.Data == "ul" || c.Data == "ol":
				flush()
				out = append(out, p.bulletItems(c, 0)...)
			case c.Data == "table":
				flush()
				if tbl, err := p.table(c); err == nil {
					out = append(out, tbl)
				}
			default:
				pendingInline = append(pendingInline, p.inlineChildren(c)...)
			}
		case html.TextNode:
			if text := c.Data; strings.TrimSpace(text) != "" {
				pendingInline = append(pendingInline, model.NewTextRun(text, ""))
			}
		}
	}
	flush()
	return out
}

func (p *parser) heading(n *html.Node) *model.Paragraph {
	para := p.paragraph(n)
	m := headingLevel.FindStringSubmatch(n.Data)
	para.Tags["heading_level"] = m[1]
	return para
}

func (p *parser) paragraph(n *html.Node) *model.Paragraph {
	para := model.NewParagraph(p.inlineChildren(n)...)
	applyAnnotations(para, n)
	return para
}

func (p *parser) inlineChildren(n *html.Node) []model.ParagraphElement {
	var out []model.ParagraphElement
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if c.Data != "" {
				out = append(out, model.NewTextRun(c.Data, ""))
			}
		case html.ElementNode:
			out = append(out, p.inlineElement(c)...)
		}
	}
	return out
}

func (p *parser) inlineElement(n *html.Node) []model.ParagraphElement {
	if n.Data == "a" {
		url, _ := attr(n, "href")
		text := textContent(n)
		if chipType, ok := attr(n, "data-chip-type"); ok {
			c := model.NewChips(text, url)
			c.Tags["chip_type"] = chipType
			applyAnnotations(c, n)
			return []model.ParagraphElement{c}
		}
		tr := model.NewTextRun(text, url)
		applyAnnotations(tr, n)
		return []model.ParagraphElement{tr}
	}

	var out []model.ParagraphElement
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if c.Data != "" {
				tr := model.NewTextRun(c.Data, "")
				applyAnnotations(tr, n)
				out = append(out, tr)
			}
		case html.ElementNode:
			out = append(out, p.inlineElement(c)...)
		}
	}
	return out
}

// bulletItems walks <li> children of a <ul>/<ol> node, emitting a flat run
// of BulletItem siblings carrying their nesting level; the items stay
// unnested here so nest_bullets owns the folding (spec §6.2, §4.5). A <ul>
// nested inside an <li> contributes its items to the run right after their
// parent item, at level+1.
func (p *parser) bulletItems(n *html.Node, level int) []model.Element {
	listType := n.Data
	var out []model.Element
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		var inline []model.ParagraphElement
		var nestedRuns []model.Element
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
				nestedRuns = append(nestedRuns, p.bulletItems(c, level+1)...)
				continue
			}
			if c.Type == html.TextNode || c.Type == html.ElementNode {
				inline = append(inline, p.inlineElementOrText(c)...)
			}
		}
		item := model.NewBulletItem(listType, level, inline...)
		applyAnnotations(item, li)
		out = append(out, item)
		out = append(out, nestedRuns...)
	}
	return out
}

func (p *parser) inlineElementOrText(n *html.Node) []model.ParagraphElement {
	if n.Type == html.TextNode {
		if n.Data == "" {
			return nil
		}
		return []model.ParagraphElement{model.NewTextRun(n.Data, "")}
	}
	return p.inlineElement(n)
}

func (p *parser) table(n *html.Node) (*model.Table, error) {
	tbody := n
	if body := findNode(n, "tbody"); body != nil {
		tbody = body
	}

	var cells []*model.DocContent
	row := 0
	cols := 0
	for tr := tbody.FirstChild; tr != nil; tr = tr.NextSibling {
		if tr.Type != html.ElementNode || tr.Data != "tr" {
			continue
		}
		col := 0
		for td := tr.FirstChild; td != nil; td = td.NextSibling {
			if td.Type != html.ElementNode || (td.Data != "td" && td.Data != "th") {
				continue
			}
			cell := model.NewDocContent(row, col, p.blockChildren(td)...)
			applyAnnotations(cell, td)
			cells = append(cells, cell)
			col++
		}
		if col > cols {
			cols = col
		}
		row++
	}

	tbl, err := model.NewTable(row, cols, cells)
	if err != nil {
		return nil, errors.Wrap(err, "build table")
	}
	return tbl, nil
}
