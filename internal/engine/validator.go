// Package engine wires the schema registry, extension store, and
// structural checks together into the validation sequence spec.md §4.4
// describes: a fixed, gated order over one document that produces a
// Report.
package engine

import (
	"fmt"

	"github.com/cityjson/cjval/internal/cjdoc"
	"github.com/cityjson/cjval/internal/extension"
	"github.com/cityjson/cjval/internal/report"
	"github.com/cityjson/cjval/internal/schema"
	"github.com/cityjson/cjval/internal/structural"
	"github.com/cityjson/cjval/internal/validator"
)

// Validator validates one CityJSON document or CityJSONFeature.
type Validator struct {
	raw      []byte
	doc      *cjdoc.Document
	parseErr error

	registry *schema.Registry
	extStore *extension.Store

	// headerVertices is the CityJSONSeq header's vertex table, borrowed
	// by a feature Validator built with FromFeatureBytes so vertex-index
	// structural checks can treat it as concatenated before the
	// feature's own vertices, per spec.md §4.6. Nil for a standalone
	// CityJSON/CityJSONFeature Validator built with FromBytes.
	headerVertices []any
}

// FromBytes parses raw as JSON and returns a Validator for it. A JSON
// parse failure is not returned as a Go error: it is recorded so
// Validate reports it as the json_syntax check's failure and gates
// every later check, exactly like any other check failure.
func FromBytes(raw []byte, registry *schema.Registry) *Validator {
	v := &Validator{raw: raw, registry: registry}
	doc, err := cjdoc.Parse(raw)
	if err != nil {
		v.parseErr = err
		return v
	}
	v.doc = doc
	v.extStore = extension.NewStore(validator.NewSanthoshCompiler())
	return v
}

// FeatureContext is what a CityJSONSeq header lends to every feature line
// validated against it: the same ExtensionStore (so an Extension fetched
// and registered once against the header applies to every feature,
// instead of each line silently validating against an empty store) and
// the header's own vertex table (so a feature's boundary indices may
// validly land in the header's range). See spec.md §4.6.
type FeatureContext struct {
	ExtStore       *extension.Store
	HeaderVertices []any
}

// FromFeatureBytes parses raw as a CityJSONFeature line and returns a
// Validator that borrows fc's ExtensionStore and header vertex table
// instead of building its own, per spec.md §4.6. If fc.ExtStore is nil
// (the header itself failed to parse), it falls back to a fresh empty
// store rather than leaving the Validator without one.
func FromFeatureBytes(raw []byte, registry *schema.Registry, fc FeatureContext) *Validator {
	v := &Validator{raw: raw, registry: registry, headerVertices: fc.HeaderVertices}
	doc, err := cjdoc.Parse(raw)
	if err != nil {
		v.parseErr = err
		return v
	}
	v.doc = doc
	if fc.ExtStore != nil {
		v.extStore = fc.ExtStore
	} else {
		v.extStore = extension.NewStore(validator.NewSanthoshCompiler())
	}
	return v
}

// Document returns the parsed document, or nil if parsing failed.
func (v *Validator) Document() *cjdoc.Document { return v.doc }

// ExtStore returns the Validator's ExtensionStore, so a CityJSONSeq header
// Validator's store can be handed to each feature line via FeatureContext.
func (v *Validator) ExtStore() *extension.Store { return v.extStore }

// HasExtensions reports whether the document declares any Extensions.
func (v *Validator) HasExtensions() bool {
	return v.doc != nil && len(v.doc.ExtensionRefs()) > 0
}

// GetExtensionsURLs returns the URL of every Extension the document
// declares, keyed by Extension name.
func (v *Validator) GetExtensionsURLs() map[string]string {
	out := make(map[string]string)
	if v.doc == nil {
		return out
	}
	for name, refRaw := range v.doc.ExtensionRefs() {
		ref, _ := refRaw.(map[string]any)
		if ref == nil {
			continue
		}
		if url, ok := ref["url"].(string); ok {
			out[name] = url
		}
	}
	return out
}

// AddOneExtensionFromStr parses and registers one Extension document
// against this Validator's document version.
func (v *Validator) AddOneExtensionFromStr(raw []byte) error {
	if v.doc == nil {
		return fmt.Errorf("cannot register an extension: document failed to parse")
	}
	doc, err := extension.Parse(raw)
	if err != nil {
		return err
	}
	return v.extStore.Add(doc, v.doc.Version())
}

// Validate runs the full canonical check sequence and returns a Report.
func (v *Validator) Validate(subject string) *report.Report {
	r := report.New(subject)

	if v.parseErr != nil {
		r.Set("json_syntax", report.Errors([]string{v.parseErr.Error()}))
		for _, name := range report.CheckOrder[1:] {
			r.Set(name, report.NotRun("invalid JSON"))
		}
		return r
	}
	r.Set("json_syntax", report.OK())

	schemaFailed := v.runSchema(r)
	v.runExtensions(r)

	structuralFailed := false
	if schemaFailed {
		for _, name := range []string{
			"parents_children_consistency", "wrong_vertex_index",
			"semantics_array", "textures", "materials",
		} {
			r.Set(name, report.NotRun("schema check failed"))
		}
		structuralFailed = true
	} else {
		structuralFailed = v.runStructural(r)
	}

	if schemaFailed || structuralFailed {
		reason := "an earlier check found errors"
		r.Set("extra_root_properties", report.NotRun(reason))
		r.Set("duplicate_vertices", report.NotRun(reason))
		r.Set("unused_vertices", report.NotRun(reason))
	} else {
		r.Set("extra_root_properties", report.Warnings(structural.ExtraRootProperties(v.doc)))
		r.Set("duplicate_vertices", report.Warnings(structural.DuplicateVertices(v.doc, v.headerVertices)))
		r.Set("unused_vertices", report.Warnings(structural.UnusedVertices(v.doc, v.headerVertices)))
	}

	return r
}

// runSchema runs the duplicate-key gate and the schema check, and
// reports whether it failed.
func (v *Validator) runSchema(r *report.Report) bool {
	if dups := structural.DuplicateKeys(v.raw); len(dups) > 0 {
		r.Set("schema", report.Errors(dups))
		return true
	}

	bundle, err := v.registry.Load(v.doc.Version())
	if err != nil {
		r.Set("schema", report.Errors([]string{err.Error()}))
		return true
	}

	sv := bundle.Main
	if v.doc.Kind() == cjdoc.KindCityJSONFeature {
		if bundle.Feature == nil {
			r.Set("schema", report.Errors([]string{
				fmt.Sprintf("CityJSON %s has no CityJSONFeature schema", bundle.Version)}))
			return true
		}
		sv = bundle.Feature
	}

	if err := sv.Validate(v.doc.Root); err != nil {
		r.Set("schema", report.Errors([]string{err.Error()}))
		return true
	}
	r.Set("schema", report.OK())
	return false
}

func (v *Validator) runExtensions(r *report.Report) {
	if !v.HasExtensions() && len(v.extStore.Docs()) == 0 {
		r.Set("extensions", report.NotRun("no extensions declared"))
		return
	}
	r.Set("extensions", report.Errors(validateExtensions(v.doc, v.extStore)))
}

// runStructural runs every structural check and reports whether any of
// them found errors (warnings-only checks are handled by the caller).
func (v *Validator) runStructural(r *report.Report) bool {
	failed := false
	set := func(name string, errs []string) {
		if len(errs) > 0 {
			failed = true
		}
		r.Set(name, report.Errors(errs))
	}
	set("parents_children_consistency", structural.ParentsChildrenConsistency(v.doc))
	set("wrong_vertex_index", structural.WrongVertexIndex(v.doc, v.headerVertices))
	set("semantics_array", structural.SemanticsArrays(v.doc))
	set("textures", structural.TextureArrays(v.doc))
	set("materials", structural.MaterialArrays(v.doc))
	return failed
}
