package seqvalidator

import (
	"strings"
	"testing"

	"github.com/cityjson/cjval/internal/engine"
	"github.com/cityjson/cjval/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = `{"type":"CityJSON","version":"2.0","CityObjects":{},"vertices":[],"metadata":{}}`
const feature1 = `{"type":"CityJSONFeature","id":"f1","CityObjects":{"b1":{"type":"Building"}},"vertices":[]}`
const feature2 = `{"type":"CityJSONFeature","id":"f2","CityObjects":{"b2":{"type":"Building"}},"vertices":[]}`

func TestSequenceValidator_ValidStream(t *testing.T) {
	stream := strings.Join([]string{header, feature1, feature2}, "\n")
	sv := New(schema.NewDefaultRegistry())
	summary := sv.Validate(strings.NewReader(stream), nil)

	require.NoError(t, summary.FatalError)
	assert.True(t, summary.Valid())
	assert.Len(t, summary.Lines, 3)
	assert.Equal(t, StateTerminated, sv.State())
}

func TestSequenceValidator_BlankLinesAreSkippedNotFatal(t *testing.T) {
	stream := strings.Join([]string{header, "", feature1, "", feature2}, "\n")
	sv := New(schema.NewDefaultRegistry())
	summary := sv.Validate(strings.NewReader(stream), nil)

	require.NoError(t, summary.FatalError)
	assert.True(t, summary.Valid())
	// Blank lines don't get their own report.
	assert.Len(t, summary.Lines, 3)
}

func TestSequenceValidator_InvalidFeatureCountsAsError(t *testing.T) {
	badFeature := `{"type":"CityJSONFeature","CityObjects":{},"vertices":[]}` // missing required "id"
	stream := strings.Join([]string{header, badFeature}, "\n")
	sv := New(schema.NewDefaultRegistry())
	summary := sv.Validate(strings.NewReader(stream), nil)

	require.NoError(t, summary.FatalError)
	assert.False(t, summary.Valid())
	assert.Greater(t, summary.TotalErrors, 0)
}

func TestSequenceValidator_FirstLineNotCityJSONIsFatal(t *testing.T) {
	stream := strings.Join([]string{feature1, feature2}, "\n")
	sv := New(schema.NewDefaultRegistry())
	summary := sv.Validate(strings.NewReader(stream), nil)

	require.Error(t, summary.FatalError)
	assert.Contains(t, summary.FatalError.Error(), "CityJSON header")
}

func TestSequenceValidator_LaterLineWrongTypeFailsOnlyThatLine(t *testing.T) {
	// A second full CityJSON header instead of a CityJSONFeature must
	// not be silently schema-validated as if it were a feature.
	stream := strings.Join([]string{header, header, feature1}, "\n")
	sv := New(schema.NewDefaultRegistry())
	summary := sv.Validate(strings.NewReader(stream), nil)

	require.NoError(t, summary.FatalError)
	require.Len(t, summary.Lines, 3)
	assert.False(t, summary.Lines[1].Report.Valid())
	// The other lines are unaffected (spec.md's "Seq independence").
	assert.True(t, summary.Lines[0].Report.Valid())
	assert.True(t, summary.Lines[2].Report.Valid())
}

func TestSequenceValidator_FeatureBorrowsHeaderVertices(t *testing.T) {
	h := `{"type":"CityJSON","version":"2.0","CityObjects":{},"vertices":[[0,0,0],[1,0,0]],"metadata":{}}`
	// This feature's only own vertex is index 2 in the concatenated
	// table; indices 0 and 1 reach back into the header's vertices.
	f := `{"type":"CityJSONFeature","id":"f1","CityObjects":{
		"b1":{"type":"Building","geometry":[
			{"type":"MultiSurface","lod":"2","boundaries":[[[0,1,2]]]}
		]}
	},"vertices":[[1,1,0]]}`
	stream := strings.Join([]string{h, f}, "\n")
	sv := New(schema.NewDefaultRegistry())
	summary := sv.Validate(strings.NewReader(stream), nil)

	require.NoError(t, summary.FatalError)
	require.Len(t, summary.Lines, 2)
	assert.True(t, summary.Lines[1].Report.Valid())
}

func TestSequenceValidator_ExtendSharesExtensionStoreWithFeatures(t *testing.T) {
	h := `{"type":"CityJSON","version":"2.0","CityObjects":{},"vertices":[],
		"extensions":{"Noise":{"url":"https://example.org/noise.ext.json","version":"1.0"}}}`
	f := `{"type":"CityJSONFeature","id":"f1","CityObjects":{"b1":{"type":"+NoiseCityObject"}},"vertices":[]}`
	extDoc := []byte(`{
		"type":"Extension","name":"Noise","versionCityJSON":"2.0",
		"url":"https://example.org/noise.ext.json","version":"1.0",
		"extraCityObjects":{"+NoiseCityObject":{}}
	}`)

	stream := strings.Join([]string{h, f}, "\n")
	sv := New(schema.NewDefaultRegistry())
	called := false
	summary := sv.Validate(strings.NewReader(stream), func(header *engine.Validator) {
		called = true
		require.NoError(t, header.AddOneExtensionFromStr(extDoc))
	})

	require.True(t, called)
	require.NoError(t, summary.FatalError)
	require.Len(t, summary.Lines, 2)
	// The feature's extra City Object type is covered by the Extension
	// registered only on the header — it must not be flagged unschemed.
	for _, e := range summary.Lines[1].Report.Ordered() {
		if e.Check == "extensions" {
			assert.Equal(t, "ok", e.Outcome.Status.String())
		}
	}
}
