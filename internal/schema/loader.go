package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mapforge/internal/diagnostic"
)

// File is the root of a YAML entity definition file.
type File struct {
	// Version of the definition format, reserved for compatibility checks.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Entities lists every mapped type.
	Entities []Entity `json:"entities" yaml:"entities"`
}

// LoadFile reads and parses an entity definition file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse definition file %s: %w", path, err)
	}

	return f, nil
}

// Parse parses entity definitions and applies the documented defaults.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse definitions: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// LoadRegistry loads a definition file, validates every entity and
// registers the valid ones. Findings are returned alongside the registry
// so the caller decides whether warnings are fatal; entities with
// validation errors are not registered.
func LoadRegistry(path string) (*Registry, *diagnostic.Diagnostics, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, nil, err
	}

	reg := NewRegistry()
	diags := &diagnostic.Diagnostics{}

	for i := range f.Entities {
		e := &f.Entities[i]

		found := Validate(e)
		diags.Merge(*found)

		if found.HasErrors() {
			continue
		}

		if err := reg.Register(e); err != nil {
			diags.AddError("entity_rejected", err.Error(), e.Name, "")
		}
	}

	return reg, diags, nil
}

// applyDefaults fills in the documented defaults for optional values, so
// the rest of the pipeline never re-derives them.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	for i := range f.Entities {
		e := &f.Entities[i]

		if e.Dynamic == "" {
			e.Dynamic = DynamicInherit
		}

		for j := range e.Properties {
			applyPropertyDefaults(&e.Properties[j])
		}
	}
}

func applyPropertyDefaults(p *Property) {
	if p.Field != nil {
		applyFieldDefaults(p.Field)
	}

	if p.MultiField != nil {
		applyFieldDefaults(&p.MultiField.Main)

		for i := range p.MultiField.Others {
			applyFieldDefaults(&p.MultiField.Others[i].FieldMeta)
		}
	}

	if p.GeoShape != nil {
		if p.GeoShape.Orientation == "" {
			p.GeoShape.Orientation = DefaultOrientation
		}

		if p.GeoShape.IgnoreZValue == nil {
			p.GeoShape.IgnoreZValue = ptrTo(true)
		}
	}

	if p.Completion != nil {
		c := p.Completion

		if c.MaxInputLength == 0 {
			c.MaxInputLength = DefaultMaxInputLength
		}

		if c.PreservePositionIncrements == nil {
			c.PreservePositionIncrements = ptrTo(true)
		}

		if c.PreserveSeparators == nil {
			c.PreserveSeparators = ptrTo(true)
		}
	}
}

func applyFieldDefaults(f *FieldMeta) {
	if f.Type == "" {
		f.Type = FieldTypeAuto
	}

	if f.Dynamic == "" {
		f.Dynamic = DynamicInherit
	}

	if f.IndexPrefixes != nil {
		if f.IndexPrefixes.MinChars == 0 {
			f.IndexPrefixes.MinChars = DefaultIndexPrefixMinChars
		}

		if f.IndexPrefixes.MaxChars == 0 {
			f.IndexPrefixes.MaxChars = DefaultIndexPrefixMaxChars
		}
	}
}

func ptrTo[T any](v T) *T {
	return &v
}
