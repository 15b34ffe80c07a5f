package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cityjson/cjval/internal/cjdoc"
	"github.com/cityjson/cjval/internal/extension"
)

// sortedKeys returns m's keys in sorted order, so a map walked for error
// reporting produces the same errs ordering on every call — required for
// "Idempotence of validate()" (spec.md), matching the convention used
// throughout internal/structural.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// validateExtensions implements spec.md §4.3/§4.4's extensions check,
// extended per SPEC_FULL §4 with the original implementation's
// unschemed-extension detection: beyond evaluating extra City Objects,
// root properties, attributes, and (2.0+) semantic surfaces against
// their Extension schemas, it also flags any "+"-prefixed type,
// property, attribute, or surface that has no matching Extension
// schema registered at all.
func validateExtensions(doc *cjdoc.Document, store *extension.Store) []string {
	var errs []string

	registered := make(map[string]bool, len(store.Docs()))
	for _, d := range store.Docs() {
		registered[d.Name] = true
	}
	for _, name := range sortedKeys(doc.ExtensionRefs()) {
		if !registered[name] {
			errs = append(errs, fmt.Sprintf("extension %q is declared but was not supplied", name))
		}
	}

	for _, id := range sortedKeys(doc.CityObjects()) {
		co, _ := doc.CityObjects()[id].(map[string]any)
		if co == nil {
			continue
		}
		coType, _ := co["type"].(string)
		if strings.HasPrefix(coType, "+") {
			if store.HasCityObjectType(coType) {
				if err, _ := store.ValidateCityObject(coType, co); err != nil {
					errs = append(errs, fmt.Sprintf("City Object %q of extra type %q: %v", id, coType, err))
				}
			} else {
				errs = append(errs, fmt.Sprintf(
					"City Object %q has extra type %q with no matching Extension schema", id, coType))
			}
		}

		attrs, _ := co["attributes"].(map[string]any)
		for _, attrName := range sortedKeys(attrs) {
			if !strings.HasPrefix(attrName, "+") {
				continue
			}
			val := attrs[attrName]
			if store.HasAttribute(coType, attrName) {
				if err, _ := store.ValidateAttribute(coType, attrName, val); err != nil {
					errs = append(errs, fmt.Sprintf(
						"City Object %q attribute %q: %v", id, attrName, err))
				}
			} else {
				errs = append(errs, fmt.Sprintf(
					"City Object %q has extra attribute %q with no matching Extension schema", id, attrName))
			}
		}
	}

	if obj := doc.Object(); obj != nil {
		for _, key := range sortedKeys(obj) {
			val := obj[key]
			if !strings.HasPrefix(key, "+") {
				continue
			}
			if store.HasRootProperty(key) {
				if err, _ := store.ValidateRootProperty(key, val); err != nil {
					errs = append(errs, fmt.Sprintf("root property %q: %v", key, err))
				}
			} else {
				errs = append(errs, fmt.Sprintf("root property %q has no matching Extension schema", key))
			}
		}
	}

	if atLeast20(doc.Version()) {
		errs = append(errs, validateExtraSemanticSurfaces(doc, store)...)
	}

	return errs
}

func validateExtraSemanticSurfaces(doc *cjdoc.Document, store *extension.Store) []string {
	var errs []string
	for _, id := range sortedKeys(doc.CityObjects()) {
		co, _ := doc.CityObjects()[id].(map[string]any)
		if co == nil {
			continue
		}
		geoms, _ := co["geometry"].([]any)
		for gi, gRaw := range geoms {
			g, _ := gRaw.(map[string]any)
			if g == nil {
				continue
			}
			sem, _ := g["semantics"].(map[string]any)
			if sem == nil {
				continue
			}
			surfaces, _ := sem["surfaces"].([]any)
			for si, sRaw := range surfaces {
				s, _ := sRaw.(map[string]any)
				if s == nil {
					continue
				}
				sType, _ := s["type"].(string)
				if !strings.HasPrefix(sType, "+") {
					continue
				}
				if store.HasSemanticSurface(sType) {
					if err, _ := store.ValidateSemanticSurface(sType, s); err != nil {
						errs = append(errs, fmt.Sprintf(
							"City Object %q geom-#%d surface-#%d of extra semantic type %q: %v",
							id, gi, si, sType, err))
					}
				} else {
					errs = append(errs, fmt.Sprintf(
						"City Object %q geom-#%d surface-#%d has extra semantic type %q with no matching Extension schema",
						id, gi, si, sType))
				}
			}
		}
	}
	return errs
}

func atLeast20(version string) bool {
	major := strings.SplitN(version, ".", 2)[0]
	n, err := strconv.Atoi(major)
	return err == nil && n >= 2
}
