// Package cjdoc holds the dynamically-typed view over a parsed CityJSON or
// CityJSONFeature document. It deliberately does not decode into a typed
// domain model: CityJSON's shape varies by geometry type and by version, so
// every check decodes only the keys it needs from the raw tree, exactly as
// the reference implementation does.
package cjdoc

import (
	"encoding/json"
)

// Kind distinguishes the two top-level document shapes the spec supports.
type Kind int

const (
	// KindUnknown means Type() was neither "CityJSON" nor "CityJSONFeature".
	KindUnknown Kind = iota
	KindCityJSON
	KindCityJSONFeature
)

// Document is the in-memory form of one CityJSON object or CityJSONFeature.
// It is immutable after construction.
type Document struct {
	Raw  []byte
	Root any // decoded via encoding/json; map[string]any for objects

	kind    Kind
	version string
}

// Parse decodes raw JSON bytes into a Document. It does not itself validate
// the CityJSON schema; it only establishes enough structure (type, version)
// for the caller to pick a SchemaRegistry bundle.
func Parse(raw []byte) (*Document, error) {
	var root any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, &InvalidJSONError{Err: err}
	}
	d := &Document{Raw: raw, Root: root}
	obj, _ := root.(map[string]any)
	switch s, _ := obj["type"].(string); s {
	case "CityJSON":
		d.kind = KindCityJSON
	case "CityJSONFeature":
		d.kind = KindCityJSONFeature
	default:
		d.kind = KindUnknown
	}
	if v, ok := obj["version"].(string); ok {
		d.version = v
	}
	return d, nil
}

// Kind reports which top-level document shape was parsed.
func (d *Document) Kind() Kind { return d.kind }

// Version returns the document's declared "version" field, or "" if absent.
func (d *Document) Version() string { return d.version }

// Object returns the root as a JSON object, or nil if the root is not one.
func (d *Document) Object() map[string]any {
	obj, _ := d.Root.(map[string]any)
	return obj
}

// CityObjects returns the "CityObjects" map, or nil if absent/malformed.
func (d *Document) CityObjects() map[string]any {
	obj := d.Object()
	if obj == nil {
		return nil
	}
	cos, _ := obj["CityObjects"].(map[string]any)
	return cos
}

// Vertices returns the document's "vertices" array, or nil if absent.
func (d *Document) Vertices() []any {
	obj := d.Object()
	if obj == nil {
		return nil
	}
	v, _ := obj["vertices"].([]any)
	return v
}

// GeometryTemplates returns the "geometry-templates" object, or nil if absent.
func (d *Document) GeometryTemplates() map[string]any {
	obj := d.Object()
	if obj == nil {
		return nil
	}
	gt, _ := obj["geometry-templates"].(map[string]any)
	return gt
}

// TemplateVertices returns "geometry-templates.vertices-templates", or nil.
func (d *Document) TemplateVertices() []any {
	gt := d.GeometryTemplates()
	if gt == nil {
		return nil
	}
	v, _ := gt["vertices-templates"].([]any)
	return v
}

// Templates returns "geometry-templates.templates", or nil.
func (d *Document) Templates() []any {
	gt := d.GeometryTemplates()
	if gt == nil {
		return nil
	}
	t, _ := gt["templates"].([]any)
	return t
}

// Appearance returns the "appearance" object, or nil if absent.
func (d *Document) Appearance() map[string]any {
	obj := d.Object()
	if obj == nil {
		return nil
	}
	a, _ := obj["appearance"].(map[string]any)
	return a
}

// ExtensionRefs returns the root "extensions" map of name -> {url, version}.
func (d *Document) ExtensionRefs() map[string]any {
	obj := d.Object()
	if obj == nil {
		return nil
	}
	e, _ := obj["extensions"].(map[string]any)
	return e
}

// ID returns the "id" field of a CityJSONFeature, or "".
func (d *Document) ID() string {
	obj := d.Object()
	if obj == nil {
		return ""
	}
	id, _ := obj["id"].(string)
	return id
}

// InvalidJSONError wraps a JSON parse failure.
type InvalidJSONError struct {
	Err error
}

func (e *InvalidJSONError) Error() string {
	return "invalid JSON: " + e.Err.Error()
}

func (e *InvalidJSONError) Unwrap() error { return e.Err }
