package structural

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateVertices_None(t *testing.T) {
	doc := mustParse(t, `{"type":"CityJSON","version":"2.0","vertices":[[0,0,0],[1,0,0]],"CityObjects":{}}`)
	assert.Empty(t, DuplicateVertices(doc, nil))
}

func TestDuplicateVertices_OneDuplicate(t *testing.T) {
	doc := mustParse(t, `{"type":"CityJSON","version":"2.0","vertices":[[0,0,0],[1,0,0],[0,0,0]],"CityObjects":{}}`)
	warnings := DuplicateVertices(doc, nil)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "#2")
}

func TestUnusedVertices_AllUsed(t *testing.T) {
	doc := mustParse(t, `{
		"type":"CityJSON","version":"2.0",
		"vertices":[[0,0,0],[1,0,0],[1,1,0]],
		"CityObjects":{
			"b1":{"type":"Building","geometry":[
				{"type":"MultiSurface","boundaries":[[[0,1,2]]]}
			]}
		}
	}`)
	assert.Empty(t, UnusedVertices(doc, nil))
}

func TestUnusedVertices_OneUnused(t *testing.T) {
	doc := mustParse(t, `{
		"type":"CityJSON","version":"2.0",
		"vertices":[[0,0,0],[1,0,0],[1,1,0]],
		"CityObjects":{
			"b1":{"type":"Building","geometry":[
				{"type":"MultiSurface","boundaries":[[[0,1]]]}
			]}
		}
	}`)
	warnings := UnusedVertices(doc, nil)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "#2")
}

func TestUnusedVertices_ManyUnusedSummarised(t *testing.T) {
	doc := mustParse(t, `{
		"type":"CityJSON","version":"2.0",
		"vertices":[[0,0,0],[1,0,0],[2,0,0],[3,0,0],[4,0,0],[5,0,0],[6,0,0]],
		"CityObjects":{}
	}`)
	warnings := UnusedVertices(doc, nil)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "7 vertices are unused")
}

func TestDuplicateVertices_FeatureDuplicatesHeaderVertex(t *testing.T) {
	header := []any{[]any{0, 0, 0}, []any{1, 0, 0}}
	feature := mustParse(t, `{"type":"CityJSONFeature","vertices":[[1,0,0]],"CityObjects":{}}`)
	warnings := DuplicateVertices(feature, header)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "#2 is a duplicate of vertex #1")
}

func TestUnusedVertices_FeatureOnlyReportsItsOwnVertices(t *testing.T) {
	header := []any{[]any{0, 0, 0}, []any{1, 0, 0}}
	feature := mustParse(t, `{
		"type":"CityJSONFeature",
		"vertices":[[2,2,0]],
		"CityObjects":{
			"f1":{"type":"Building","geometry":[
				{"type":"MultiSurface","boundaries":[[[0,1,2]]]}
			]}
		}
	}`)
	assert.Empty(t, UnusedVertices(feature, header))
}
