package structural

import (
	"fmt"

	"github.com/cityjson/cjval/internal/cjdoc"
)

// DuplicateVertices implements spec.md §4.4 item 9: a warning for every
// vertex that repeats an earlier vertex's coordinates exactly. Reported
// as a single count once more than five duplicates exist, to keep a
// badly-deduplicated file's report readable, matching the same
// many-vs-enumerate threshold unused_vertices uses.
//
// precedingVertices is the CityJSONSeq header's vertex table, conceptually
// concatenated before doc's own vertices per spec.md §4.6: a feature
// vertex that merely repeats a header vertex is flagged the same way a
// repeat within one document would be.
func DuplicateVertices(doc *cjdoc.Document, precedingVertices []any) []string {
	seen := make(map[string]int)
	for i, v := range precedingVertices {
		key := vertexKey(v)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; !ok {
			seen[key] = i
		}
	}

	offset := len(precedingVertices)
	var dups []string
	for i, v := range doc.Vertices() {
		key := vertexKey(v)
		if key == "" {
			continue
		}
		idx := offset + i
		if first, ok := seen[key]; ok {
			dups = append(dups, fmt.Sprintf("Vertex #%d is a duplicate of vertex #%d", idx, first))
			continue
		}
		seen[key] = idx
	}
	if len(dups) > 5 {
		return []string{fmt.Sprintf("%d vertices are duplicates", len(dups))}
	}
	return dups
}

func vertexKey(v any) string {
	coords, ok := v.([]any)
	if !ok {
		return ""
	}
	key := ""
	for _, c := range coords {
		key += fmt.Sprintf("/%v", c)
	}
	return key
}
