package structural

import (
	"fmt"

	"github.com/cityjson/cjval/internal/cjdoc"
)

// ParentsChildrenConsistency implements spec.md §4.4 item 4: for every
// City Object c listed in some p.children, c must exist and list p in
// c.parents, and symmetrically for every p listed in some c.parents, p
// must exist and list c in p.children. Both directions are checked
// (a superset of original_source's children-only pass), so a one-sided
// parent/child reference is always caught from whichever side declares it.
func ParentsChildrenConsistency(doc *cjdoc.Document) []string {
	cos := doc.CityObjects()
	var errs []string

	for _, id := range sortedKeys(cos) {
		co, _ := cos[id].(map[string]any)
		for _, childID := range stringSlice(co["children"]) {
			child, exists := cos[childID].(map[string]any)
			if !exists {
				errs = append(errs, fmt.Sprintf(
					"City Object %q lists child %q which does not exist", id, childID))
				continue
			}
			if !containsString(stringSlice(child["parents"]), id) {
				errs = append(errs, fmt.Sprintf(
					"City Object %q lists child %q which does not list it back as a parent", id, childID))
			}
		}
		for _, parentID := range stringSlice(co["parents"]) {
			parent, exists := cos[parentID].(map[string]any)
			if !exists {
				errs = append(errs, fmt.Sprintf(
					"City Object %q lists parent %q which does not exist", id, parentID))
				continue
			}
			if !containsString(stringSlice(parent["children"]), id) {
				errs = append(errs, fmt.Sprintf(
					"City Object %q lists parent %q which does not list it back as a child", id, parentID))
			}
		}
	}
	return errs
}

func stringSlice(v any) []string {
	arr, _ := v.([]any)
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
