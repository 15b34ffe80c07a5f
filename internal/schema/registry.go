// Package schema loads the CityJSON JSON Schema bundle matching a
// document's declared version and compiles it once per version,
// deduping concurrent requests for the same version the way the
// original schema-manager deduped concurrent compiles of the same
// schema key.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cityjson/cjval/internal/validator"
	"golang.org/x/sync/singleflight"
)

//go:embed schemas
var embedded embed.FS

// Bundle holds the compiled validators for one CityJSON schema version.
type Bundle struct {
	Version string
	// Main validates a full CityJSON document.
	Main validator.Validator
	// Feature validates a CityJSONFeature. Nil for 1.0, which predates
	// CityJSONSeq.
	Feature validator.Validator
}

// schemaBaseURL is the fixed namespace every embedded schema's "$id" (and
// every cross-document "$ref" into it) lives under.
const schemaBaseURL = "https://3dcityjson.org/schemas/"

// versionSpec describes where a version's schema files live and which
// major.minor family it accepts. Version routing is exact: a document
// declaring "1.0" is rejected by the 1.1/2.0 bundles even though their
// schemas would happily validate a structurally similar document —
// spec.md calls this out explicitly as a regression the router must
// not reintroduce.
type versionSpec struct {
	dir       string
	mainID    string
	featureID string // empty if the version has no CityJSONSeq support
}

var knownVersions = map[string]versionSpec{
	"1.0": {
		dir:    "10",
		mainID: schemaBaseURL + "10/cityjson.schema.json",
	},
	"1.1": {
		dir:       "11",
		mainID:    schemaBaseURL + "11/cityjson.schema.json",
		featureID: schemaBaseURL + "11/cityjsonfeature.schema.json",
	},
	"2.0": {
		dir:       "20",
		mainID:    schemaBaseURL + "20/cityjson.schema.json",
		featureID: schemaBaseURL + "20/cityjsonfeature.schema.json",
	},
}

// UnsupportedVersionError means a document declared a "version" this
// registry has no schema bundle for.
type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported CityJSON version %q", e.Version)
}

// Registry loads and caches Bundles by version.
type Registry struct {
	newCompiler func() validator.Compiler

	mu    sync.RWMutex
	cache map[string]*Bundle

	loadGroup singleflight.Group
}

// NewRegistry returns a Registry whose Compiler is constructed fresh
// per version via newCompiler (one Compiler instance per version
// bundle).
func NewRegistry(newCompiler func() validator.Compiler) *Registry {
	return &Registry{
		newCompiler: newCompiler,
		cache:       make(map[string]*Bundle),
	}
}

// NewDefaultRegistry returns a Registry backed by the santhosh-tekuri
// JSON Schema evaluator.
func NewDefaultRegistry() *Registry {
	return NewRegistry(func() validator.Compiler {
		return validator.NewSanthoshCompiler()
	})
}

// Load returns the Bundle for version, compiling and caching it on
// first use. Concurrent callers requesting the same version block on
// one compile rather than each compiling their own copy.
func (r *Registry) Load(version string) (*Bundle, error) {
	spec, ok := knownVersions[version]
	if !ok {
		return nil, &UnsupportedVersionError{Version: version}
	}

	r.mu.RLock()
	if b, ok := r.cache[version]; ok {
		r.mu.RUnlock()
		return b, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.loadGroup.Do(version, func() (any, error) {
		r.mu.RLock()
		if b, ok := r.cache[version]; ok {
			r.mu.RUnlock()
			return b, nil
		}
		r.mu.RUnlock()

		b, err := r.compile(version, spec)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[version] = b
		r.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Bundle), nil
}

// compile registers every sibling schema document in spec's bundle
// directory (cityjson.min, cityjson, cityobjects, geomprimitives,
// geomtemplates, appearance, and — for 1.1/2.0 — cityjsonfeature) with
// the compiler before compiling the main and feature entry points, so
// their cross-document "$ref"s into one another resolve. Resource IDs
// are derived from each file's path, matching the "$id" baked into the
// file itself, per spec.md's "cross-document references ... are
// pre-resolved at load time".
func (r *Registry) compile(version string, spec versionSpec) (*Bundle, error) {
	c := r.newCompiler()

	names, err := siblingSchemaFiles(spec.dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s schema bundle: %w", version, err)
	}
	for _, name := range names {
		data, err := loadSchemaFile(spec.dir, name)
		if err != nil {
			return nil, err
		}
		id := schemaBaseURL + spec.dir + "/" + name
		if err := c.AddSchema(id, data); err != nil {
			return nil, fmt.Errorf("registering %s %s: %w", version, name, err)
		}
	}

	main, err := c.Compile(spec.mainID)
	if err != nil {
		return nil, fmt.Errorf("compiling %s schema: %w", version, err)
	}

	var feature validator.Validator
	if spec.featureID != "" {
		feature, err = c.Compile(spec.featureID)
		if err != nil {
			return nil, fmt.Errorf("compiling %s feature schema: %w", version, err)
		}
	}

	return &Bundle{Version: version, Main: main, Feature: feature}, nil
}

// siblingSchemaFiles lists every "*.schema.json" resource in a bundle
// directory, sorted, so registration order is deterministic.
func siblingSchemaFiles(dir string) ([]string, error) {
	entries, err := embedded.ReadDir("schemas/" + dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".schema.json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func loadSchemaFile(dir, file string) (validator.JSONSchema, error) {
	raw, err := embedded.ReadFile("schemas/" + dir + "/" + file)
	if err != nil {
		return nil, err
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// SupportedVersions returns every version this registry can load.
func SupportedVersions() []string {
	return []string{"1.0", "1.1", "2.0"}
}
