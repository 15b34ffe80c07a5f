package structural

import (
	"fmt"

	"github.com/cityjson/cjval/internal/cjdoc"
)

// UnusedVertices implements spec.md §4.4 item 10: a warning for every
// vertex in the document's main "vertices" array that no geometry
// boundary or address boundary references. Reported as a single count
// once more than five vertices are unused, matching DuplicateVertices'
// same readability threshold.
//
// precedingVertices is the CityJSONSeq header's vertex table, conceptually
// concatenated before doc's own vertices per spec.md §4.6: a boundary index
// may validly land in that range, so it counts towards "used", but only
// doc's own vertices (the ones appended after it) are ever reported
// unused — the header's vertices are the header line's own concern.
func UnusedVertices(doc *cjdoc.Document, precedingVertices []any) []string {
	offset := len(precedingVertices)
	maxIndex := offset + len(doc.Vertices())
	used := make(map[int]bool, maxIndex)

	for _, id := range sortedKeys(doc.CityObjects()) {
		co, _ := doc.CityObjects()[id].(map[string]any)
		collectGeometryArray(co["geometry"], used)
		if addressCOTypes[typeOf(co)] {
			collectAddressBoundaries(co["address"], used)
		}
	}

	var unused []int
	for i := offset; i < maxIndex; i++ {
		if !used[i] {
			unused = append(unused, i)
		}
	}
	if len(unused) > 5 {
		return []string{fmt.Sprintf("%d vertices are unused", len(unused))}
	}
	out := make([]string, len(unused))
	for i, idx := range unused {
		out[i] = fmt.Sprintf("Vertex #%d is unused", idx)
	}
	return out
}

func collectGeometryArray(geom any, used map[int]bool) {
	arr, _ := geom.([]any)
	for _, g := range arr {
		gm, _ := g.(map[string]any)
		if gm == nil {
			continue
		}
		collectGeometry(gm, used)
	}
}

func collectGeometry(g map[string]any, used map[int]bool) {
	gtype, _ := g["type"].(string)
	depth, ok := BoundaryDepth(gtype)
	if !ok {
		return
	}
	walkLeaves(g["boundaries"], depth, func(v any) {
		if idx, isNum := asIndex(v); isNum && idx >= 0 {
			used[idx] = true
		}
	})
}

func collectAddressBoundaries(address any, used map[int]bool) {
	arr, _ := address.([]any)
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
		if idx, isNum := asIndex(b[0]); isNum && idx >= 0 {
			used[idx] = true
		}
	}
}
