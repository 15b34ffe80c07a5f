package structural

import (
	"fmt"
	"reflect"

	"github.com/cityjson/cjval/internal/cjdoc"
)

// SemanticsArrays implements spec.md §4.4 item 6: a Geometry carrying a
// "semantics" object must have a "values" array whose nesting shape
// mirrors "boundaries" two levels short (surface-level addressing, per
// SemanticsDepth), and every non-null leaf must index into
// "semantics.surfaces".
//
// Both "boundaries" and "values" are walked with the *same* depth
// (SemanticsDepth): at that depth a boundaries branch collapses to "how
// many surfaces does this shell/solid have", which is exactly the
// granularity "values" is expressed at, so the two shapeAt results are
// directly comparable.
func SemanticsArrays(doc *cjdoc.Document) []string {
	var errs []string
	for _, id := range sortedKeys(doc.CityObjects()) {
		co, _ := doc.CityObjects()[id].(map[string]any)
		geoms, _ := co["geometry"].([]any)
		for gi, g := range geoms {
			gm, _ := g.(map[string]any)
			if gm == nil {
				continue
			}
			errs = append(errs, semanticsForGeometry(gm, id, gi)...)
		}
	}
	return errs
}

func semanticsForGeometry(g map[string]any, coID string, gi int) []string {
	sem, _ := g["semantics"].(map[string]any)
	if sem == nil {
		return nil
	}
	gtype, _ := g["type"].(string)
	depth, ok := SemanticsDepth(gtype)
	if !ok {
		return nil
	}

	boundariesShape := shapeAt(g["boundaries"], depth)
	valuesShape := shapeAt(sem["values"], depth)
	var errs []string
	if !reflect.DeepEqual(boundariesShape, valuesShape) {
		errs = append(errs, fmt.Sprintf(
			"Semantic \"values\" not same dimension as \"boundaries\"; #%s and geom-#%d", coID, gi))
		return errs
	}

	surfaces, _ := sem["surfaces"].([]any)
	maxSurface := len(surfaces)
	walkLeaves(sem["values"], depth, func(v any) {
		if v == nil {
			return
		}
		idx, isNum := asIndex(v)
		if !isNum || idx < 0 || idx >= maxSurface {
			errs = append(errs, fmt.Sprintf(
				"Reference in semantic \"values\" overflows; #%s and geom-#%d", coID, gi))
		}
	})
	return errs
}
