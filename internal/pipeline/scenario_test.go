// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aschults/docscraper/internal/config"
	"github.com/aschults/docscraper/internal/output"
	"github.com/aschults/docscraper/internal/registry"
)

// runPipeline executes a full YAML-configured pipeline and returns everything
// the stdout sink received.
func runPipeline(t *testing.T, yamlDoc string) string {
	t.Helper()

	doc, err := config.Parse(strings.NewReader(yamlDoc))
	require.NoError(t, err)

	reg, _ := newRegistry()
	require.NoError(t, doc.Validate(reg))

	var buf bytes.Buffer
	driver := New()
	driver.FatalOnError = true
	for _, e := range doc.Sources {
		v, err := reg.Build(registry.DomainSource, e.Kind, e)
		require.NoError(t, err)
		driver.Sources = append(driver.Sources, v.(SourceFunc))
	}
	for _, e := range doc.Transformations {
		v, err := reg.Build(registry.DomainTransform, e.Kind, e)
		require.NoError(t, err)
		driver.Transforms = append(driver.Transforms, v.(TransformFunc))
	}
	driver.Outputs = []output.Sink{output.NewStdout(&buf)}

	require.NoError(t, driver.Run())
	return buf.String()
}

func writeFixture(t *testing.T, html string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.html")
	require.NoError(t, os.WriteFile(path, []byte(html), 0o644))
	return path
}

const tableGridHTML = `<html><body>
<h1>Table Grid</h1>
<table><tbody>
<tr><td></td><td><p>Name</p></td><td><p>col1</p></td><td><p>col2</p></td></tr>
<tr><td><p>row1</p></td><td><p>First Row grid</p></td><td><p>value11</p></td><td><p>value12</p></td></tr>
<tr><td><p>row2</p></td><td><p>Second Row grid</p></td><td><p>value21</p></td><td><p>value22</p></td></tr>
</tbody></table>
<h1>Non-Matching</h1>
<table><tbody>
<tr><td><p>rowX</p></td><td><p>BAD</p></td></tr>
</tbody></table>
</body></html>`

// tableGridPipeline is the 2-D table extraction pipeline: normalize each
// element's enclosing-section heading into a "section" tag, scope to the
// table_grid section, tag every cell with its row/column header text via
// element_at lookups, and fold the tagged cells into one nested record.
func tableGridPipeline(htmlPath string) string {
	return `
sources:
  - kind: html_fixture
    config:
      path: ` + htmlPath + `
      name: grid
transformations:
  - kind: nest_bullets
    config: {}
  - kind: nest_sections
    config: {}
  - kind: drop_elements
    config:
      criteria:
        match_element:
          element_types: [TextRun]
          aggregated_text_regex: '^\s*$'
  - kind: tag_matching
    config:
      variables:
        secname:
          substitutions:
            section_heading_only: true
            substitutions:
              - regex: '[^A-Za-z0-9]+'
                substitute: '_'
                operation: lower
      tags_add:
        section: '{secname}'
  - kind: tag_matching
    config:
      criteria:
        match_element:
          required_tag_sets:
            - section: table_grid
      tags_add:
        in_scope: 'Y'
  - kind: tag_matching
    config:
      criteria:
        match_element:
          element_types: [DocContent]
          required_tag_sets:
            - in_scope: ''
          start_col: 0
          end_col: 1
      variables:
        celltext:
          substitutions:
            substitutions:
              - regex: '^(.*)$'
                substitute: '\1'
                operation: lower
      tags_add:
        first_col_text: '{celltext}'
  - kind: tag_matching
    config:
      criteria:
        match_element:
          element_types: [DocContent]
          required_tag_sets:
            - in_scope: ''
          start_row: 0
          end_row: 1
      variables:
        celltext:
          substitutions:
            substitutions:
              - regex: '^(.*)$'
                substitute: '\1'
                operation: lower
      tags_add:
        first_row_text: '{celltext}'
  - kind: tag_matching
    config:
      criteria:
        match_element:
          element_types: [DocContent]
          required_tag_sets:
            - in_scope: ''
          start_row: 1
          start_col: 1
      variables:
        first_col:
          element_at:
            col: first
        first_row:
          element_at:
            row: first
        celltext:
          substitutions:
            substitutions: []
      tags_add:
        row: '{first_col.tags[first_col_text]}'
        col: '{first_row.tags[first_row_text]}'
        value: '{celltext}'
  - kind: strip_elements
    config:
      remove_styles_re: ['.*']
      remove_style_rules_re: ['.*']
  - kind: extract_json
    config:
      extract_all: '.'
      render: |
        [.. | objects | select((.tags? // {}) | has("value"))]
        | group_by(.tags.row)
        | map({key: .[0].tags.row,
               value: {
                 name: (map(select(.tags.col == "name")) | .[0].tags.value),
                 details: (map(select(.tags.col != "name"))
                           | map({key: .tags.col, value: .tags.value})
                           | from_entries)
               }})
        | from_entries
outputs:
  - kind: stdout
    config: {}
`
}

func TestScenarioTableGridExtraction(t *testing.T) {
	htmlPath := writeFixture(t, tableGridHTML)

	out := runPipeline(t, tableGridPipeline(htmlPath))

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &got))

	want := map[string]any{
		"row1": map[string]any{
			"name":    "First Row grid",
			"details": map[string]any{"col1": "value11", "col2": "value12"},
		},
		"row2": map[string]any{
			"name":    "Second Row grid",
			"details": map[string]any{"col1": "value21", "col2": "value22"},
		},
	}
	assert.Equal(t, want, got)
}

// TestScenarioTableGridIdempotent runs the same pipeline twice against the
// same fixture; every pass re-parses the source and owns its own caches, so
// the two runs must be byte-identical.
func TestScenarioTableGridIdempotent(t *testing.T) {
	htmlPath := writeFixture(t, tableGridHTML)
	yamlDoc := tableGridPipeline(htmlPath)

	first := runPipeline(t, yamlDoc)
	second := runPipeline(t, yamlDoc)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

const bulletRecordHTML = `<html><body>
<h1>With prefix</h1>
<ul>
<li>Name: Prefix First entry<ul><li>Field1: prefix value1</li><li>Field2: prefix value2</li></ul></li>
</ul>
<h1>Non-Matching</h1>
<ul>
<li>Name: BAD ENTRY</li>
</ul>
</body></html>`

func TestScenarioNestedBulletRecordExtraction(t *testing.T) {
	htmlPath := writeFixture(t, bulletRecordHTML)

	yamlDoc := `
sources:
  - kind: html_fixture
    config:
      path: ` + htmlPath + `
      name: bullets
transformations:
  - kind: nest_bullets
    config: {}
  - kind: nest_sections
    config: {}
  - kind: tag_matching
    config:
      variables:
        secname:
          substitutions:
            section_heading_only: true
            substitutions:
              - regex: '[^A-Za-z0-9]+'
                substitute: '_'
                operation: lower
      tags_add:
        section: '{secname}'
  - kind: extract_json
    config:
      extract_all: '[.. | objects | select(.type == "BulletItem" and .tags.section == "with_prefix")] | .[]'
      filters:
        - '.elements | map(.text // "") | join("") | test("^Name:")'
      first_item_only: true
      render: |
        (.elements | map(.text // "") | join("")) as $t
        | { name: ($t | sub("^Name:\\s*"; "")),
            details: (.nested
                      | map((.elements | map(.text // "") | join("")) as $f
                            | {key: ($f | sub(":.*$"; "") | ascii_downcase),
                               value: ($f | sub("^[^:]*:\\s*"; ""))})
                      | from_entries) }
outputs:
  - kind: stdout
    config: {}
`

	out := runPipeline(t, yamlDoc)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &got))

	want := map[string]any{
		"name":    "Prefix First entry",
		"details": map[string]any{"field1": "prefix value1", "field2": "prefix value2"},
	}
	assert.Equal(t, want, got)
}
