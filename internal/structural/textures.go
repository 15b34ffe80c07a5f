package structural

import (
	"fmt"
	"reflect"

	"github.com/cityjson/cjval/internal/cjdoc"
)

// TextureArrays implements spec.md §4.4 item 7: a Geometry carrying a
// "texture" theme must have a "values" tree whose ring-level shape
// mirrors "boundaries", and every non-null ring entry's texture id and
// vertex-texture references must stay in bounds.
//
// A null ring entry is equivalent to an array of nulls of any length:
// neither is compared against the boundary ring's length, and neither
// has a texture id or vertex-texture refs to bounds-check.
func TextureArrays(doc *cjdoc.Document) []string {
	var errs []string
	app := doc.Appearance()
	maxTexture := 0
	maxTexVertex := 0
	if app != nil {
		if t, ok := app["textures"].([]any); ok {
			maxTexture = len(t)
		}
		if v, ok := app["vertices-texture"].([]any); ok {
			maxTexVertex = len(v)
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
			errs = append(errs, textureForGeometry(gm, maxTexture, maxTexVertex, id, gi)...)
		}
	}
	return errs
}

func textureForGeometry(g map[string]any, maxTexture, maxTexVertex int, coID string, gi int) []string {
	themes, _ := g["texture"].(map[string]any)
	if themes == nil {
		return nil
	}
	gtype, _ := g["type"].(string)
	boundaryDepth, ok := BoundaryDepth(gtype)
	if !ok || boundaryDepth == 0 {
		return nil
	}
	ringDepth := boundaryDepth - 1

	var errs []string
	for _, name := range sortedKeys(themes) {
		theme, _ := themes[name].(map[string]any)
		if theme == nil {
			continue
		}
		boundariesShape := shapeAt(g["boundaries"], ringDepth)
		valuesShape := shapeAt(theme["values"], ringDepth)
		if !reflect.DeepEqual(boundariesShape, valuesShape) {
			errs = append(errs, fmt.Sprintf(
				"/texture/values/ not same structure as /boundaries; #%s and geom-#%d and theme-%q",
				coID, gi, name))
			continue
		}
		pairedWalkLeaves(g["boundaries"], theme["values"], ringDepth, func(ringB, ringT any) {
			boundary, _ := ringB.([]any)
			texRing, isArr := ringT.([]any)
			if !isArr {
				return // null ring entry: valid, nothing to check
			}
			allNull := true
			for _, e := range texRing {
				if e != nil {
					allNull = false
					break
				}
			}
			if allNull {
				return // [null, null, …] is the same as a null ring entry
			}
			expected := len(boundary)
			actual := len(texRing) - 1
			if expected != actual {
				errs = append(errs, fmt.Sprintf(
					"/texture/values/ not same structure as /boundaries; #%s and geom-#%d and theme-%q",
					coID, gi, name))
				return
			}
			if texID, ok := asIndex(texRing[0]); ok && (texID < 0 || texID >= maxTexture) {
				errs = append(errs, fmt.Sprintf(
					"/texture/values/ %q overflows for texture reference; #%s and geom-#%d", name, coID, gi))
			}
			for _, ref := range texRing[1:] {
				if ref == nil {
					continue
				}
				if idx, ok := asIndex(ref); ok && (idx < 0 || idx >= maxTexVertex) {
					errs = append(errs, fmt.Sprintf(
						"/texture/values/ %q overflows for texture-vertices (max=%d); #%s and geom-#%d",
						name, maxTexVertex-1, coID, gi))
				}
			}
		})
	}
	return errs
}
