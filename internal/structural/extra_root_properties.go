package structural

import (
	"fmt"
	"strings"

	"github.com/cityjson/cjval/internal/cjdoc"
)

// standardRootProperties are the root keys a CityJSON document defines
// without an Extension. A CityJSONFeature has no root properties of its
// own to police (spec.md §3) — the check is a no-op for it.
var standardRootProperties = map[string]bool{
	"type":               true,
	"version":            true,
	"extensions":         true,
	"transform":          true,
	"metadata":           true,
	"CityObjects":        true,
	"vertices":           true,
	"appearance":         true,
	"geometry-templates": true,
}

// ExtraRootProperties implements spec.md §4.4 item 9: a warning for every
// top-level key that is neither a standard CityJSON root property nor
// "+"-prefixed (an Extension-declared property, checked separately by
// the Extension machinery).
func ExtraRootProperties(doc *cjdoc.Document) []string {
	if doc.Kind() != cjdoc.KindCityJSON {
		return nil
	}
	var warnings []string
	for _, key := range sortedKeys(doc.Object()) {
		if standardRootProperties[key] || strings.HasPrefix(key, "+") {
			continue
		}
		warnings = append(warnings, fmt.Sprintf("Root property %q is not a standard CityJSON property", key))
	}
	return warnings
}
