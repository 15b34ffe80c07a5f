package structural

import (
	"fmt"
	"sort"

	"github.com/cityjson/cjval/internal/cjdoc"
)

// addressCOTypes are the City-Object types whose "address" entries may carry
// a "/location/boundaries" vertex-index pointer, per original_source.
var addressCOTypes = map[string]bool{
	"Building":     true,
	"BuildingPart": true,
	"BuildingUnit": true,
	"Bridge":       true,
	"BridgePart":   true,
}

// WrongVertexIndex implements the spec.md §4.4 item 5 check: every leaf
// boundary index must reference an existing vertex. Geometry belonging to
// "geometry-templates" indexes the template vertex pool, never the
// document's main "vertices" — mixing the two pools is the historical bug
// this check exists to catch (spec.md §8, "Template vertex bounds").
//
// precedingVertices is the CityJSONSeq header's vertex table, conceptually
// concatenated before doc's own vertices per spec.md §4.6, so a feature's
// boundary indices may validly reach into it; it is nil when doc is a
// standalone CityJSON document.
func WrongVertexIndex(doc *cjdoc.Document, precedingVertices []any) []string {
	var errs []string
	maxIndex := len(precedingVertices) + len(doc.Vertices())

	for _, id := range sortedKeys(doc.CityObjects()) {
		co, _ := doc.CityObjects()[id].(map[string]any)
		errs = append(errs, checkGeometryArray(co["geometry"], maxIndex, id)...)

		if addressCOTypes[typeOf(co)] {
			errs = append(errs, checkAddressBoundaries(co["address"], maxIndex)...)
		}
	}

	maxTemplateIndex := len(doc.TemplateVertices())
	for i, tmpl := range doc.Templates() {
		tm, _ := tmpl.(map[string]any)
		if tm == nil {
			continue
		}
		errs = append(errs, checkGeometry(tm, maxTemplateIndex, fmt.Sprintf("geometry-templates/templates/%d", i))...)
	}

	return errs
}

func checkGeometryArray(geom any, maxIndex int, coID string) []string {
	arr, _ := geom.([]any)
	var errs []string
	for gi, g := range arr {
		gm, _ := g.(map[string]any)
		if gm == nil {
			continue
		}
		errs = append(errs, checkGeometry(gm, maxIndex, fmt.Sprintf("CityObjects/%s/geometry/%d", coID, gi))...)
	}
	return errs
}

func checkGeometry(g map[string]any, maxIndex int, path string) []string {
	gtype, _ := g["type"].(string)
	depth, ok := BoundaryDepth(gtype)
	if !ok {
		return nil
	}
	var bad []int
	walkLeaves(g["boundaries"], depth, func(v any) {
		idx, ok := asIndex(v)
		if !ok || idx < 0 || idx >= maxIndex {
			bad = append(bad, idx)
		}
	})
	if len(bad) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("%s: vertex indices %v don't exist (max=%d)", path, bad, maxIndex-1)}
}

func checkAddressBoundaries(address any, maxIndex int) []string {
	arr, _ := address.([]any)
	var errs []string
	for _, a := range arr {
		am, _ := a.(map[string]any)
		if am == nil {
			continue
		}
		loc, _ := am["location"].(map[string]any)
		if loc == nil {
			continue
		}
		b, _ := loc["boundaries"].([]any)
		if len(b) == 0 {
			continue
		}
		idx, ok := asIndex(b[0])
		if !ok || idx < 0 || idx >= maxIndex {
			errs = append(errs, fmt.Sprintf("address/location/boundaries: vertex index %v doesn't exist (max=%d)", b[0], maxIndex-1))
		}
	}
	return errs
}

func typeOf(co map[string]any) string {
	t, _ := co["type"].(string)
	return t
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
