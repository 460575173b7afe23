// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aschults/docscraper/internal/config"
	"github.com/aschults/docscraper/internal/model"
	"github.com/aschults/docscraper/internal/output"
	"github.com/aschults/docscraper/internal/queryengine"
	"github.com/aschults/docscraper/internal/registry"
)

const sampleHTML = `<html><body>
<h1>Title</h1>
<p>   </p>
<p>Keep me</p>
</body></html>`

func newRegistry() (*registry.Registry, *queryengine.Engine) {
	qe := queryengine.New()
	reg := registry.New()
	RegisterDefaults(reg, qe)
	return reg, qe
}

func TestRegisterDefaultsCoversEveryConfiguredKind(t *testing.T) {
	reg, _ := newRegistry()

	for _, kind := range []string{"html_fixture", "drive"} {
		assert.True(t, reg.Has(registry.DomainSource, kind), kind)
	}
	for _, kind := range []string{
		"drop_elements", "merge_by_tag", "nest_bullets", "nest_sections",
		"regex_replace", "split_text", "strip_elements", "tag_matching", "extract_json",
	} {
		assert.True(t, reg.Has(registry.DomainTransform, kind), kind)
	}
	for _, kind := range []string{"stdout", "single_file", "template_path", "csv_file"} {
		assert.True(t, reg.Has(registry.DomainOutput, kind), kind)
	}
}

func TestDriverRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "doc.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte(sampleHTML), 0o644))

	yamlDoc := `
sources:
  - kind: html_fixture
    config:
      path: ` + htmlPath + `
      name: sample
transformations:
  - kind: drop_elements
    config:
      criteria:
        match_element:
          aggregated_text_regex: '^\s*$'
outputs:
  - kind: stdout
    config: {}
`
	doc, err := config.Parse(strings.NewReader(yamlDoc))
	require.NoError(t, err)

	reg, _ := newRegistry()
	require.NoError(t, doc.Validate(reg))

	var buf bytes.Buffer
	driver := New()
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
	driver.Outputs = append(driver.Outputs, output.NewStdout(&buf))

	require.NoError(t, driver.Run())
	assert.Contains(t, buf.String(), "Title")
	assert.Contains(t, buf.String(), "Keep me")
}

func TestDriverWiresDocumentNameIntoTemplatePath(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "doc.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte(sampleHTML), 0o644))

	yamlDoc := `
sources:
  - kind: html_fixture
    config:
      path: ` + htmlPath + `
      name: sample
transformations: []
outputs:
  - kind: template_path
    config:
      output_path_template: ` + dir + `/{name}-{i}.json
`
	doc, err := config.Parse(strings.NewReader(yamlDoc))
	require.NoError(t, err)

	reg, _ := newRegistry()
	require.NoError(t, doc.Validate(reg))

	driver := New()
	for _, e := range doc.Sources {
		v, err := reg.Build(registry.DomainSource, e.Kind, e)
		require.NoError(t, err)
		driver.Sources = append(driver.Sources, v.(SourceFunc))
	}
	for _, e := range doc.Outputs {
		v, err := reg.Build(registry.DomainOutput, e.Kind, e)
		require.NoError(t, err)
		driver.Outputs = append(driver.Outputs, v.(output.Sink))
	}

	require.NoError(t, driver.Run())

	b, err := os.ReadFile(filepath.Join(dir, "sample-0.json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "Title")
}

func TestDriverContinuesAfterDocumentFailureUnlessFatal(t *testing.T) {
	failing := SourceFunc(func() ([]*model.Document, error) {
		return []*model.Document{model.NewDocument(nil)}, nil
	})
	boom := TransformFunc(func(*Record) error { return assert.AnError })

	var buf bytes.Buffer
	driver := New()
	driver.Sources = []SourceFunc{failing}
	driver.Transforms = []TransformFunc{boom}
	driver.Outputs = []output.Sink{output.NewStdout(&buf)}

	require.NoError(t, driver.Run())
	assert.Empty(t, buf.String())

	driver.FatalOnError = true
	assert.Error(t, driver.Run())
}
