package extension

import (
	"fmt"

	"github.com/cityjson/cjval/internal/validator"
)

// Store holds every Extension registered against one document, and the
// compiled validators for their extra City Object, root property,
// attribute, and semantic surface fragments.
type Store struct {
	compiler validator.Compiler
	docs     []*Doc

	cityObjects      map[string]validator.Validator
	rootProperties   map[string]validator.Validator
	attributes       map[string]map[string]validator.Validator
	semanticSurfaces map[string]validator.Validator

	seq int
}

// NewStore returns an empty Store backed by compiler.
func NewStore(compiler validator.Compiler) *Store {
	return &Store{
		compiler:         compiler,
		cityObjects:      make(map[string]validator.Validator),
		rootProperties:   make(map[string]validator.Validator),
		attributes:       make(map[string]map[string]validator.Validator),
		semanticSurfaces: make(map[string]validator.Validator),
	}
}

// Add registers doc against a document declaring docVersion. It compiles
// every extra* fragment doc declares into its own schema.
func (s *Store) Add(doc *Doc, docVersion string) error {
	if majorMinor(doc.VersionCityJSON) != majorMinor(docVersion) {
		return &IncompatibleVersionError{
			Extension:       doc.Name,
			VersionCityJSON: doc.VersionCityJSON,
			DocumentVersion: docVersion,
		}
	}

	for name := range doc.ExtraRootProperties {
		if standardRootProperties[trimPlus(name)] {
			return &ShadowedRootPropertyError{Extension: doc.Name, Property: name}
		}
		if _, exists := s.rootProperties[name]; exists {
			return &ShadowedRootPropertyError{Extension: doc.Name, Property: name}
		}
	}

	for name, fragment := range doc.ExtraCityObjects {
		v, err := s.compile(fmt.Sprintf("ext-co-%s", name), fragment)
		if err != nil {
			return err
		}
		s.cityObjects[name] = v
	}
	for name, fragment := range doc.ExtraRootProperties {
		v, err := s.compile(fmt.Sprintf("ext-root-%s", name), fragment)
		if err != nil {
			return err
		}
		s.rootProperties[name] = v
	}
	for coType, attrs := range doc.ExtraAttributes {
		if s.attributes[coType] == nil {
			s.attributes[coType] = make(map[string]validator.Validator)
		}
		for attrName, fragment := range attrs {
			v, err := s.compile(fmt.Sprintf("ext-attr-%s-%s", coType, attrName), fragment)
			if err != nil {
				return err
			}
			s.attributes[coType][attrName] = v
		}
	}
	for name, fragment := range doc.ExtraSemanticSurfaces {
		v, err := s.compile(fmt.Sprintf("ext-sem-%s", name), fragment)
		if err != nil {
			return err
		}
		s.semanticSurfaces[name] = v
	}

	s.docs = append(s.docs, doc)
	return nil
}

func (s *Store) compile(id string, fragment any) (validator.Validator, error) {
	s.seq++
	schemaID := fmt.Sprintf("urn:cjval:%s:%d", id, s.seq)
	schema, ok := fragment.(map[string]any)
	if !ok {
		schema = map[string]any{}
	}
	schema["$id"] = schemaID
	if err := s.compiler.AddSchema(schemaID, schema); err != nil {
		return nil, err
	}
	return s.compiler.Compile(schemaID)
}

// standardRootProperties mirrors structural.standardRootProperties;
// duplicated rather than imported to keep extension free of a
// dependency on structural, which itself has no need of extension.
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

func trimPlus(name string) string {
	if len(name) > 0 && name[0] == '+' {
		return name[1:]
	}
	return name
}

// Docs returns every registered Extension document.
func (s *Store) Docs() []*Doc { return s.docs }

// HasCityObjectType reports whether an extra City Object type is
// declared by some registered Extension.
func (s *Store) HasCityObjectType(name string) bool {
	_, ok := s.cityObjects[name]
	return ok
}

// ValidateCityObject validates co against the Extension schema for
// its type. Returns nil, false if no Extension declares that type.
func (s *Store) ValidateCityObject(name string, co any) (err error, found bool) {
	v, ok := s.cityObjects[name]
	if !ok {
		return nil, false
	}
	return v.Validate(co), true
}

// HasRootProperty reports whether an extra root property is declared.
func (s *Store) HasRootProperty(name string) bool {
	_, ok := s.rootProperties[name]
	return ok
}

// ValidateRootProperty validates value against the Extension schema for
// root property name. Returns nil, false if not declared.
func (s *Store) ValidateRootProperty(name string, value any) (err error, found bool) {
	v, ok := s.rootProperties[name]
	if !ok {
		return nil, false
	}
	return v.Validate(value), true
}

// HasAttribute reports whether coType declares an extra attribute name.
func (s *Store) HasAttribute(coType, name string) bool {
	attrs, ok := s.attributes[coType]
	if !ok {
		return false
	}
	_, ok = attrs[name]
	return ok
}

// ValidateAttribute validates value against the Extension schema for
// coType's attribute name. Returns nil, false if not declared.
func (s *Store) ValidateAttribute(coType, name string, value any) (err error, found bool) {
	attrs, ok := s.attributes[coType]
	if !ok {
		return nil, false
	}
	v, ok := attrs[name]
	if !ok {
		return nil, false
	}
	return v.Validate(value), true
}

// HasSemanticSurface reports whether an extra semantic surface type is
// declared (CityJSON 2.0+ only).
func (s *Store) HasSemanticSurface(name string) bool {
	_, ok := s.semanticSurfaces[name]
	return ok
}

// ValidateSemanticSurface validates surface against the Extension
// schema for surface type name. Returns nil, false if not declared.
func (s *Store) ValidateSemanticSurface(name string, surface any) (err error, found bool) {
	v, ok := s.semanticSurfaces[name]
	if !ok {
		return nil, false
	}
	return v.Validate(surface), true
}
