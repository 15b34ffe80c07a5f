package structural

import (
	"fmt"
	"reflect"

	"github.com/cityjson/cjval/internal/cjdoc"
)

// MaterialArrays implements spec.md §4.4 item 8: a Geometry carrying a
// "material" theme assigns a material either as one "value" for the
// whole geometry, or as per-surface "values" shaped like "semantics.values"
// (surface-level addressing, per SemanticsDepth — the same granularity as
// semantics, not the ring-level granularity textures need, since a
// material applies to a whole surface rather than per-ring).
func MaterialArrays(doc *cjdoc.Document) []string {
	var errs []string
	app := doc.Appearance()
	maxMaterial := 0
	if app != nil {
		if m, ok := app["materials"].([]any); ok {
			maxMaterial = len(m)
		}
	}

	for _, id := range sortedKeys(doc.CityObjects()) {
		co, _ := doc.CityObjects()[id].(map[string]any)
		geoms, _ := co["geometry"].([]any)
		for gi, g := range geoms {
			gm, _ := g.(map[string]any)
			if gm == nil {
				continue
			}
			errs = append(errs, materialForGeometry(gm, maxMaterial, id, gi)...)
		}
	}
	return errs
}

func materialForGeometry(g map[string]any, maxMaterial int, coID string, gi int) []string {
	themes, _ := g["material"].(map[string]any)
	if themes == nil {
		return nil
	}
	gtype, _ := g["type"].(string)
	depth, ok := SemanticsDepth(gtype)
	if !ok {
		return nil
	}

	var errs []string
	for _, name := range sortedKeys(themes) {
		theme, _ := themes[name].(map[string]any)
		if theme == nil {
			continue
		}

		if v, has := theme["value"]; has && v != nil {
			if idx, isNum := asIndex(v); !isNum || idx < 0 || idx >= maxMaterial {
				errs = append(errs, fmt.Sprintf(
					"Material \"value\" overflow; #%s / geom-#%d / material-%q", coID, gi, name))
			}
		}

		values, has := theme["values"]
		if !has || values == nil {
			continue
		}
		boundariesShape := shapeAt(g["boundaries"], depth)
		valuesShape := shapeAt(values, depth)
		if !reflect.DeepEqual(boundariesShape, valuesShape) {
			errs = append(errs, fmt.Sprintf(
				"Material \"values\" not same dimension as \"boundaries\"; #%s / geom-#%d / material-%q",
				coID, gi, name))
			continue
		}
		walkLeaves(values, depth, func(v any) {
			if v == nil {
				return
			}
			idx, isNum := asIndex(v)
			if !isNum || idx < 0 || idx >= maxMaterial {
				errs = append(errs, fmt.Sprintf(
					"Reference in material \"values\" overflows (max=%d); #%s and geom-#%d / material-%q",
					maxMaterial-1, coID, gi, name))
			}
		})
	}
	return errs
}
