package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	r := New("cube.city.json")
	r.Set("json_syntax", OK())
	r.Set("schema", Errors([]string{"expected string, got number [path:/version]"}))
	r.Set("extensions", NotRun("no extensions declared"))
	r.Set("parents_children_consistency", OK())
	r.Set("wrong_vertex_index", NotRun("schema check failed"))
	r.Set("extra_root_properties", Warnings([]string{`Root property "bogus" is not a standard CityJSON property`}))
	return r
}

func TestTextReporter_Concise(t *testing.T) {
	tr := &TextReporter{Verbose: false}
	var buf bytes.Buffer
	require.NoError(t, tr.Write(&buf, sampleReport()))

	output := buf.String()
	assert.Contains(t, output, "Subject: cube.city.json")
	assert.Contains(t, output, "[FAIL] schema")
	assert.Contains(t, output, "expected string, got number")
	assert.Contains(t, output, "[SKIP] extensions")
	assert.Contains(t, output, "no extensions declared")
	assert.Contains(t, output, "[WARN] extra_root_properties")
	assert.NotContains(t, output, "[OK] json_syntax\n    ")
	assert.Contains(t, output, "Summary: 1 errors, 1 warnings")
}

func TestTextReporter_Verbose(t *testing.T) {
	tr := &TextReporter{Verbose: true}
	var buf bytes.Buffer
	require.NoError(t, tr.Write(&buf, sampleReport()))
	assert.Contains(t, buf.String(), "[OK] json_syntax")
}

func TestTextReporter_Colour(t *testing.T) {
	tr := &TextReporter{Verbose: false, UseColour: true}
	var buf bytes.Buffer
	require.NoError(t, tr.Write(&buf, sampleReport()))

	output := buf.String()
	assert.Contains(t, output, "\033[31m[FAIL]\033[0m")
	assert.Contains(t, output, "\033[33m[WARN]\033[0m")
	assert.Contains(t, output, "\033[1;31m1 errors, 1 warnings\033[0m")
}

func TestTextReporter_AllOKSummaryIsGreen(t *testing.T) {
	r := New("clean.city.json")
	r.Set("json_syntax", OK())
	r.Set("schema", OK())
	tr := &TextReporter{UseColour: true}
	var buf bytes.Buffer
	require.NoError(t, tr.Write(&buf, r))
	assert.Contains(t, buf.String(), "\033[1;32m0 errors, 0 warnings\033[0m")
}

func TestJSONReporter(t *testing.T) {
	tr := &JSONReporter{}
	var buf bytes.Buffer
	require.NoError(t, tr.Write(&buf, sampleReport()))

	output := buf.String()
	assert.Contains(t, output, `"subject": "cube.city.json"`)
	assert.Contains(t, output, `"valid": false`)
	assert.Contains(t, output, `"check": "schema"`)
	assert.Contains(t, output, `"status": "errors"`)
	assert.Contains(t, output, `"status": "not run"`)
	assert.Contains(t, output, `"reason": "no extensions declared"`)
}

func TestReport_ValidIgnoresWarningsAndNotRun(t *testing.T) {
	r := New("x.city.json")
	r.Set("schema", OK())
	r.Set("extensions", NotRun("no extensions declared"))
	r.Set("extra_root_properties", Warnings([]string{"bogus"}))
	assert.True(t, r.Valid())
	assert.True(t, r.HasWarnings())
}

func TestReport_OrderedFollowsCanonicalOrder(t *testing.T) {
	r := New("x.city.json")
	r.Set("unused_vertices", OK())
	r.Set("json_syntax", OK())
	r.Set("schema", OK())
	entries := r.Ordered()
	require.Len(t, entries, 3)
	assert.Equal(t, "json_syntax", entries[0].Check)
	assert.Equal(t, "schema", entries[1].Check)
	assert.Equal(t, "unused_vertices", entries[2].Check)
}
