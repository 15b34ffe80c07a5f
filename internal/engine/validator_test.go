package engine

import (
	"testing"

	"github.com/cityjson/cjval/internal/report"
	"github.com/cityjson/cjval/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcome(t *testing.T, r *report.Report, check string) report.Outcome {
	t.Helper()
	for _, e := range r.Ordered() {
		if e.Check == check {
			return e.Outcome
		}
	}
	t.Fatalf("check %q not found in report", check)
	return report.Outcome{}
}

func TestValidate_InvalidJSONGatesEverything(t *testing.T) {
	v := FromBytes([]byte(`{"type":`), schema.NewDefaultRegistry())
	r := v.Validate("bad.city.json")

	assert.Equal(t, report.StatusErrors, outcome(t, r, "json_syntax").Status)
	assert.Equal(t, report.StatusNotRun, outcome(t, r, "schema").Status)
	assert.Equal(t, report.StatusNotRun, outcome(t, r, "unused_vertices").Status)
	assert.False(t, r.Valid())
}

func TestValidate_ValidDocumentAllOK(t *testing.T) {
	doc := `{
		"type":"CityJSON","version":"2.0",
		"vertices":[[0,0,0],[1,0,0],[1,1,0]],
		"CityObjects":{
			"b1":{"type":"Building","geometry":[
				{"type":"MultiSurface","boundaries":[[[0,1,2]]]}
			]}
		}
	}`
	v := FromBytes([]byte(doc), schema.NewDefaultRegistry())
	r := v.Validate("cube.city.json")

	require.True(t, r.Valid())
	assert.Equal(t, report.StatusOK, outcome(t, r, "schema").Status)
	assert.Equal(t, report.StatusOK, outcome(t, r, "wrong_vertex_index").Status)
	assert.Equal(t, report.StatusNotRun, outcome(t, r, "extensions").Status)
}

func TestValidate_SchemaFailureGatesStructuralChecks(t *testing.T) {
	doc := `{"type":"CityJSON","version":"2.0"}` // missing required CityObjects/vertices
	v := FromBytes([]byte(doc), schema.NewDefaultRegistry())
	r := v.Validate("broken.city.json")

	assert.Equal(t, report.StatusErrors, outcome(t, r, "schema").Status)
	assert.Equal(t, report.StatusNotRun, outcome(t, r, "wrong_vertex_index").Status)
	assert.Equal(t, report.StatusNotRun, outcome(t, r, "extra_root_properties").Status)
	assert.False(t, r.Valid())
}

func TestValidate_VersionRoutingHazard(t *testing.T) {
	// A document declaring 1.0 must not accidentally validate under a
	// looser 1.1/2.0 schema.
	doc := `{
		"type":"CityJSON","version":"1.0",
		"vertices":[],
		"CityObjects":{},
		"metadata":{}
	}`
	v := FromBytes([]byte(doc), schema.NewDefaultRegistry())
	r := v.Validate("v10.city.json")
	assert.Equal(t, report.StatusOK, outcome(t, r, "schema").Status)
}

func TestValidate_StructuralErrorSuppressesWarningChecks(t *testing.T) {
	doc := `{
		"type":"CityJSON","version":"2.0",
		"vertices":[[0,0,0],[1,0,0],[1,1,0]],
		"CityObjects":{
			"b1":{"type":"Building","geometry":[
				{"type":"MultiSurface","boundaries":[[[0,1,9]]]}
			]}
		}
	}`
	v := FromBytes([]byte(doc), schema.NewDefaultRegistry())
	r := v.Validate("badvertex.city.json")

	assert.Equal(t, report.StatusErrors, outcome(t, r, "wrong_vertex_index").Status)
	assert.Equal(t, report.StatusNotRun, outcome(t, r, "unused_vertices").Status)
	assert.False(t, r.Valid())
}

func TestValidate_ExtensionsDoNotGateStructuralChecks(t *testing.T) {
	doc := `{
		"type":"CityJSON","version":"2.0",
		"vertices":[[0,0,0],[1,0,0],[1,1,0]],
		"extensions": {"Noise": {"url":"https://example.org/noise.ext.json","version":"1.0"}},
		"CityObjects":{
			"b1":{"type":"Building","geometry":[
				{"type":"MultiSurface","boundaries":[[[0,1,2]]]}
			]}
		}
	}`
	v := FromBytes([]byte(doc), schema.NewDefaultRegistry())
	r := v.Validate("ext.city.json")

	// Extension "Noise" was declared but never supplied via
	// AddOneExtensionFromStr, so the extensions check fails...
	assert.Equal(t, report.StatusErrors, outcome(t, r, "extensions").Status)
	// ...yet structural checks still ran to completion.
	assert.Equal(t, report.StatusOK, outcome(t, r, "wrong_vertex_index").Status)
}

func TestFromFeatureBytes_BorrowsHeaderVerticesAndExtStore(t *testing.T) {
	headerDoc := `{
		"type":"CityJSON","version":"2.0",
		"vertices":[[0,0,0],[1,0,0]],
		"CityObjects":{},
		"extensions": {"Noise": {"url":"https://example.org/noise.ext.json","version":"1.0"}}
	}`
	header := FromBytes([]byte(headerDoc), schema.NewDefaultRegistry())
	extDoc := []byte(`{
		"type":"Extension","name":"Noise","versionCityJSON":"2.0",
		"url":"https://example.org/noise.ext.json","version":"1.0",
		"extraCityObjects":{"+NoiseCityObject":{}}
	}`)
	require.NoError(t, header.AddOneExtensionFromStr(extDoc))

	fc := FeatureContext{ExtStore: header.ExtStore(), HeaderVertices: header.Document().Vertices()}
	featureDoc := `{
		"type":"CityJSONFeature","id":"f1",
		"vertices":[[1,1,0]],
		"CityObjects":{
			"n1":{"type":"+NoiseCityObject","geometry":[
				{"type":"MultiSurface","boundaries":[[[0,1,2]]]}
			]}
		}
	}`
	feature := FromFeatureBytes([]byte(featureDoc), schema.NewDefaultRegistry(), fc)
	r := feature.Validate("line 2")

	// Vertex #2 is the feature's own; #0/#1 reach back into the header.
	assert.Equal(t, report.StatusOK, outcome(t, r, "wrong_vertex_index").Status)
	// "+NoiseCityObject" is only schemed on the header's ExtensionStore.
	assert.Equal(t, report.StatusOK, outcome(t, r, "extensions").Status)
}

func TestFromFeatureBytes_NilExtStoreFallsBackToEmptyStore(t *testing.T) {
	featureDoc := `{"type":"CityJSONFeature","id":"f1","vertices":[],"CityObjects":{}}`
	feature := FromFeatureBytes([]byte(featureDoc), schema.NewDefaultRegistry(), FeatureContext{})
	assert.NotPanics(t, func() {
		feature.Validate("line 2")
	})
}

func TestGetExtensionsURLs(t *testing.T) {
	doc := `{
		"type":"CityJSON","version":"2.0","vertices":[],"CityObjects":{},
		"extensions": {"Noise": {"url":"https://example.org/noise.ext.json","version":"1.0"}}
	}`
	v := FromBytes([]byte(doc), schema.NewDefaultRegistry())
	urls := v.GetExtensionsURLs()
	assert.Equal(t, "https://example.org/noise.ext.json", urls["Noise"])
	assert.True(t, v.HasExtensions())
}
