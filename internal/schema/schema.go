package schema

// Engine defaults applied at load time. The params encoder omits values
// that still equal these after loading.
const (
	DefaultMaxInputLength      = 50
	DefaultOrientation         = "ccw"
	DefaultIndexPrefixMinChars = 2
	DefaultIndexPrefixMaxChars = 5
)

// Entity is the mapping-relevant description of one indexed type.
type Entity struct {
	// Name identifies the entity; object-valued properties reference it.
	Name string `json:"name" yaml:"name"`

	// TypeHints controls whether the reserved type-hint field is written
	// when the entity is the compilation root. Defaults to true.
	TypeHints *bool `json:"type_hints,omitempty" yaml:"type_hints,omitempty"`

	// Dynamic is the declared dynamic mode. Inherit, the default, defers
	// to the surrounding scope and is never emitted.
	Dynamic Dynamic `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`

	// DynamicMapping is the ambient hint applied when neither the entity
	// nor an enclosing field declares an explicit mode.
	DynamicMapping *Dynamic `json:"dynamic_mapping,omitempty" yaml:"dynamic_mapping,omitempty"`

	// Mapping carries the entity-level mapping controls.
	Mapping *MappingMeta `json:"mapping,omitempty" yaml:"mapping,omitempty"`

	// DynamicTemplatesPath references an external JSON document whose
	// dynamic_templates array is embedded at the mapping root.
	DynamicTemplatesPath string `json:"dynamic_templates_path,omitempty" yaml:"dynamic_templates_path,omitempty"`

	// Properties in declaration order. Output preserves this order.
	Properties []Property `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// WriteTypeHints reports whether the type-hint field is enabled for this
// entity (the default).
func (e *Entity) WriteTypeHints() bool {
	return e.TypeHints == nil || *e.TypeHints
}

// HasFieldProperty reports whether at least one property carries plain
// field metadata.
func (e *Entity) HasFieldProperty() bool {
	for i := range e.Properties {
		if e.Properties[i].Field != nil {
			return true
		}
	}

	return false
}

// MappingMeta is the entity-level mapping controls: the disabled marker,
// detection overrides and the runtime fields reference.
type MappingMeta struct {
	// Enabled false replaces the whole entity mapping with enabled:false.
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// DateDetection and NumericDetection override the engine defaults;
	// nil keeps the engine default and emits nothing.
	DateDetection    *bool `json:"date_detection,omitempty" yaml:"date_detection,omitempty"`
	NumericDetection *bool `json:"numeric_detection,omitempty" yaml:"numeric_detection,omitempty"`

	// DynamicDateFormats lists custom dynamic date patterns.
	DynamicDateFormats StringArray `json:"dynamic_date_formats,omitempty" yaml:"dynamic_date_formats,omitempty"`

	// RuntimeFieldsPath references an external JSON object embedded under
	// the runtime key at the mapping root.
	RuntimeFieldsPath string `json:"runtime_fields_path,omitempty" yaml:"runtime_fields_path,omitempty"`
}

// IsEnabled reports whether mapping is enabled (the default).
func (m *MappingMeta) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// Property is the mapping-relevant description of one field of an entity.
// At most one field-kind block (field, multi_field, geo_point, geo_shape,
// join, completion) is expected; the compiler resolves overlaps by a fixed
// precedence and rejects contradictory ones.
type Property struct {
	// Name is the serialized field name.
	Name string `json:"name" yaml:"name"`

	// Transient properties are never mapped.
	Transient bool `json:"transient,omitempty" yaml:"transient,omitempty"`

	// ID marks the entity identifier. At the compilation root an
	// identifier with field metadata defaults to an indexed keyword.
	ID bool `json:"id,omitempty" yaml:"id,omitempty"`

	// SeqNoPrimaryTerm marks engine bookkeeping that is never mapped.
	SeqNoPrimaryTerm bool `json:"seq_no_primary_term,omitempty" yaml:"seq_no_primary_term,omitempty"`

	// Entity names the referenced type for object-valued properties.
	Entity string `json:"entity,omitempty" yaml:"entity,omitempty"`

	// Field is plain single-field metadata.
	Field *FieldMeta `json:"field,omitempty" yaml:"field,omitempty"`

	// MultiField declares one main encoding plus named alternates.
	MultiField *MultiFieldMeta `json:"multi_field,omitempty" yaml:"multi_field,omitempty"`

	// GeoPoint marks a geo_point property.
	GeoPoint bool `json:"geo_point,omitempty" yaml:"geo_point,omitempty"`

	// GeoShape carries geo_shape parameters.
	GeoShape *GeoShapeMeta `json:"geo_shape,omitempty" yaml:"geo_shape,omitempty"`

	// Join declares parent/child relations.
	Join *JoinMeta `json:"join,omitempty" yaml:"join,omitempty"`

	// Completion declares an auto-completion field.
	Completion *CompletionMeta `json:"completion,omitempty" yaml:"completion,omitempty"`

	// Mapping is the per-property override: an external raw fragment or a
	// disabled marker.
	Mapping *PropertyMapping `json:"mapping,omitempty" yaml:"mapping,omitempty"`

	// DynamicMapping is the ambient hint handed down when this property
	// embeds another entity.
	DynamicMapping *Dynamic `json:"dynamic_mapping,omitempty" yaml:"dynamic_mapping,omitempty"`
}

// IsNestedOrObject reports whether the declared field kind is nested or
// object. Properties without plain field metadata are neither.
func (p *Property) IsNestedOrObject() bool {
	return p.Field != nil && (p.Field.Type == FieldTypeNested || p.Field.Type == FieldTypeObject)
}

// PropertyMapping is the per-property mapping override.
type PropertyMapping struct {
	// Enabled false replaces the property mapping with type:object,
	// enabled:false.
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Path references an external JSON object emitted verbatim as the
	// property mapping.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// IsEnabled reports whether the property mapping is enabled (the default).
func (m *PropertyMapping) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// FieldMeta is the declarative parameter set of one field. The params
// package turns it into mapping entries, omitting engine defaults.
type FieldMeta struct {
	// Type of the field. Auto, the default, omits the type entry and lets
	// the engine infer one.
	Type FieldType `json:"type,omitempty" yaml:"type,omitempty"`

	// Index, DocValues, Norms and Coerce default to true and are emitted
	// only when explicitly false.
	Index     *bool `json:"index,omitempty" yaml:"index,omitempty"`
	DocValues *bool `json:"doc_values,omitempty" yaml:"doc_values,omitempty"`
	Norms     *bool `json:"norms,omitempty" yaml:"norms,omitempty"`
	Coerce    *bool `json:"coerce,omitempty" yaml:"coerce,omitempty"`

	// Store, Fielddata, IgnoreMalformed and EagerGlobalOrdinals default to
	// false and are emitted only when true.
	Store               bool `json:"store,omitempty" yaml:"store,omitempty"`
	Fielddata           bool `json:"fielddata,omitempty" yaml:"fielddata,omitempty"`
	IgnoreMalformed     bool `json:"ignore_malformed,omitempty" yaml:"ignore_malformed,omitempty"`
	EagerGlobalOrdinals bool `json:"eager_global_ordinals,omitempty" yaml:"eager_global_ordinals,omitempty"`

	Analyzer            string `json:"analyzer,omitempty" yaml:"analyzer,omitempty"`
	SearchAnalyzer      string `json:"search_analyzer,omitempty" yaml:"search_analyzer,omitempty"`
	SearchQuoteAnalyzer string `json:"search_quote_analyzer,omitempty" yaml:"search_quote_analyzer,omitempty"`
	Normalizer          string `json:"normalizer,omitempty" yaml:"normalizer,omitempty"`
	Similarity          string `json:"similarity,omitempty" yaml:"similarity,omitempty"`
	TermVector          string `json:"term_vector,omitempty" yaml:"term_vector,omitempty"`
	IndexOptions        string `json:"index_options,omitempty" yaml:"index_options,omitempty"`
	NullValue           string `json:"null_value,omitempty" yaml:"null_value,omitempty"`

	// Format lists date format patterns; output joins them with "||".
	// Only date kinds emit the format entry.
	Format StringArray `json:"format,omitempty" yaml:"format,omitempty"`

	// CopyTo lists target fields the value is copied into.
	CopyTo StringArray `json:"copy_to,omitempty" yaml:"copy_to,omitempty"`

	IgnoreAbove          int     `json:"ignore_above,omitempty" yaml:"ignore_above,omitempty"`
	PositionIncrementGap int     `json:"position_increment_gap,omitempty" yaml:"position_increment_gap,omitempty"`
	Dims                 int     `json:"dims,omitempty" yaml:"dims,omitempty"`
	ScalingFactor        float64 `json:"scaling_factor,omitempty" yaml:"scaling_factor,omitempty"`

	IndexPrefixes *IndexPrefixes `json:"index_prefixes,omitempty" yaml:"index_prefixes,omitempty"`

	// Dynamic overrides the dynamic mode when the field is an object or
	// nested kind wrapping another entity.
	Dynamic Dynamic `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`

	// IncludeInParent asks nested fields to also index into the parent.
	IncludeInParent bool `json:"include_in_parent,omitempty" yaml:"include_in_parent,omitempty"`

	// IgnoreFields suppresses the named properties of an embedded entity.
	IgnoreFields StringArray `json:"ignore_fields,omitempty" yaml:"ignore_fields,omitempty"`
}

// IgnoresField reports whether an embedded entity property with the given
// name is suppressed.
func (f *FieldMeta) IgnoresField(name string) bool {
	for _, ignored := range f.IgnoreFields {
		if ignored == name {
			return true
		}
	}

	return false
}

// IndexPrefixes enables prefix indexing with optional character bounds.
type IndexPrefixes struct {
	MinChars int `json:"min_chars,omitempty" yaml:"min_chars,omitempty"`
	MaxChars int `json:"max_chars,omitempty" yaml:"max_chars,omitempty"`
}

// MultiFieldMeta declares a multi-encoded field: one main encoding plus
// named alternates nested under the fields entry.
type MultiFieldMeta struct {
	Main   FieldMeta    `json:"main" yaml:"main"`
	Others []InnerField `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// InnerField is one alternate encoding, addressed by its suffix. Inner
// fields are flat encodings and never object or nested kinds.
type InnerField struct {
	Suffix    string `json:"suffix" yaml:"suffix"`
	FieldMeta `yaml:",inline"`
}

// GeoShapeMeta carries geo_shape parameters.
type GeoShapeMeta struct {
	// Orientation of polygon rings; ccw is the engine default.
	Orientation string `json:"orientation,omitempty" yaml:"orientation,omitempty"`

	// IgnoreMalformed and Coerce default to false, IgnoreZValue to true,
	// matching the engine defaults.
	IgnoreMalformed bool  `json:"ignore_malformed,omitempty" yaml:"ignore_malformed,omitempty"`
	IgnoreZValue    *bool `json:"ignore_z_value,omitempty" yaml:"ignore_z_value,omitempty"`
	Coerce          bool  `json:"coerce,omitempty" yaml:"coerce,omitempty"`
}

// JoinMeta declares the parent/child relations of a join field.
type JoinMeta struct {
	Relations []JoinRelation `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// JoinRelation names one parent and its children.
type JoinRelation struct {
	Parent   string      `json:"parent" yaml:"parent"`
	Children StringArray `json:"children,omitempty" yaml:"children,omitempty"`
}

// CompletionMeta declares an auto-completion field.
type CompletionMeta struct {
	// MaxInputLength defaults to 50 and is always emitted.
	MaxInputLength int `json:"max_input_length,omitempty" yaml:"max_input_length,omitempty"`

	// PreservePositionIncrements and PreserveSeparators default to true
	// and are always emitted.
	PreservePositionIncrements *bool `json:"preserve_position_increments,omitempty" yaml:"preserve_position_increments,omitempty"`
	PreserveSeparators         *bool `json:"preserve_separators,omitempty" yaml:"preserve_separators,omitempty"`

	Analyzer       string `json:"analyzer,omitempty" yaml:"analyzer,omitempty"`
	SearchAnalyzer string `json:"search_analyzer,omitempty" yaml:"search_analyzer,omitempty"`

	Contexts []CompletionContext `json:"contexts,omitempty" yaml:"contexts,omitempty"`
}

// PreservesPositionIncrements reports the effective flag (default true).
func (c *CompletionMeta) PreservesPositionIncrements() bool {
	return c.PreservePositionIncrements == nil || *c.PreservePositionIncrements
}

// PreservesSeparators reports the effective flag (default true).
func (c *CompletionMeta) PreservesSeparators() bool {
	return c.PreserveSeparators == nil || *c.PreserveSeparators
}

// CompletionContext is one completion suggester context.
type CompletionContext struct {
	Name      string      `json:"name" yaml:"name"`
	Type      ContextType `json:"type" yaml:"type"`
	Precision Precision   `json:"precision,omitempty" yaml:"precision,omitempty"`
	Path      string      `json:"path,omitempty" yaml:"path,omitempty"`
}
