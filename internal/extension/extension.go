// Package extension parses CityJSON Extension documents and compiles
// the ad hoc schemas they declare for extra City Object types, root
// properties, attributes, and (CityJSON 2.0+) semantic surfaces.
package extension

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Doc is a parsed Extension document.
type Doc struct {
	Name            string
	URL             string
	Version         string
	VersionCityJSON string
	Description     string

	ExtraCityObjects      map[string]any
	ExtraRootProperties   map[string]any
	ExtraAttributes       map[string]map[string]any // CityObject type -> attribute name -> schema
	ExtraSemanticSurfaces map[string]any
}

// InvalidExtensionError means an Extension document is missing required
// metadata or is not an Extension document at all.
type InvalidExtensionError struct {
	Reason string
}

func (e *InvalidExtensionError) Error() string {
	return "invalid Extension: " + e.Reason
}

// Parse decodes raw bytes into a Doc.
func Parse(raw []byte) (*Doc, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, &InvalidExtensionError{Reason: err.Error()}
	}
	if t, _ := obj["type"].(string); t != "Extension" {
		return nil, &InvalidExtensionError{Reason: `"type" must be "Extension"`}
	}
	d := &Doc{
		Name:            stringField(obj, "name"),
		URL:             stringField(obj, "url"),
		Version:         stringField(obj, "version"),
		VersionCityJSON: stringField(obj, "versionCityJSON"),
		Description:     stringField(obj, "description"),
	}
	if d.Name == "" || d.VersionCityJSON == "" {
		return nil, &InvalidExtensionError{Reason: `"name" and "versionCityJSON" are required`}
	}

	if m, ok := obj["extraCityObjects"].(map[string]any); ok {
		d.ExtraCityObjects = m
	}
	if m, ok := obj["extraRootProperties"].(map[string]any); ok {
		d.ExtraRootProperties = m
	}
	if m, ok := obj["extraSemanticSurfaces"].(map[string]any); ok {
		d.ExtraSemanticSurfaces = m
	}
	if m, ok := obj["extraAttributes"].(map[string]any); ok {
		d.ExtraAttributes = make(map[string]map[string]any, len(m))
		for coType, v := range m {
			attrs, ok := v.(map[string]any)
			if !ok {
				continue
			}
			d.ExtraAttributes[coType] = attrs
		}
	}
	return d, nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// IncompatibleVersionError means an Extension's declared versionCityJSON
// does not match the document it is being registered against.
type IncompatibleVersionError struct {
	Extension       string
	VersionCityJSON string
	DocumentVersion string
}

func (e *IncompatibleVersionError) Error() string {
	return fmt.Sprintf("Extension %q declares versionCityJSON %q, incompatible with document version %q",
		e.Extension, e.VersionCityJSON, e.DocumentVersion)
}

// ShadowedRootPropertyError means an Extension declared an
// extraRootProperties name that collides with a standard CityJSON root
// property, or one already registered by another Extension. The
// Extension is not registered rather than silently letting one
// definition shadow the other.
type ShadowedRootPropertyError struct {
	Extension string
	Property  string
}

func (e *ShadowedRootPropertyError) Error() string {
	return fmt.Sprintf("Extension %q declares root property %q which is already defined", e.Extension, e.Property)
}

// majorMinor reduces a full CityJSON version string ("2.0.1") to its
// "major.minor" form ("2.0"), matching the format Extensions declare
// versionCityJSON in.
func majorMinor(version string) string {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}
