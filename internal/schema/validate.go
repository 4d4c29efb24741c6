package schema

import (
	"fmt"

	"mapforge/internal/diagnostic"
)

// Validate checks one entity definition for structural errors. Only checks
// decidable from the descriptor alone happen here; cross-entity references
// and metadata conflicts are diagnosed at compile time.
func Validate(e *Entity) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if e == nil {
		res.AddError("entity_is_nil", "entity is nil", "", "")
		return res
	}

	if e.Name == "" {
		res.AddError("entity_name_missing", "entity has no name", "", "")
	}

	if !e.Dynamic.IsValid() {
		res.AddError("unknown_dynamic_mode", fmt.Sprintf("unknown dynamic mode %q", e.Dynamic), e.Name, "")
	}

	validateDynamicHint(res, e.DynamicMapping, e.Name, "")

	// Detect duplicate property names (output would carry duplicate keys).
	seen := map[string]struct{}{}

	for i := range e.Properties {
		p := &e.Properties[i]

		if p.Name == "" {
			res.AddError("property_name_missing",
				fmt.Sprintf("property #%d has no name", i), e.Name, "")
			continue
		}

		if _, ok := seen[p.Name]; ok {
			res.AddError("duplicate_property",
				fmt.Sprintf("duplicate property %q", p.Name), e.Name, p.Name)
			continue
		}

		seen[p.Name] = struct{}{}

		validateProperty(res, e.Name, p)
	}

	return res
}

// validateProperty validates a single property definition.
func validateProperty(res *diagnostic.Diagnostics, entity string, p *Property) {
	if p.Transient && hasMappingMetadata(p) {
		res.AddWarning("transient_metadata_ignored",
			"transient property carries mapping metadata that is never emitted", entity, p.Name)
	}

	validateDynamicHint(res, p.DynamicMapping, entity, p.Name)

	if p.Field != nil {
		validateFieldMeta(res, entity, p.Name, p.Field)
	}

	if p.MultiField != nil {
		validateMultiField(res, entity, p.Name, p.MultiField)
	}

	if p.GeoShape != nil {
		validateGeoShape(res, entity, p.Name, p.GeoShape)
	}

	if p.Join != nil {
		validateJoin(res, entity, p.Name, p.Join)
	}

	if p.Completion != nil {
		validateCompletion(res, entity, p.Name, p.Completion)
	}

	if p.Mapping != nil && !p.Mapping.IsEnabled() && p.Mapping.Path != "" {
		res.AddWarning("mapping_path_ignored",
			"mapping path is ignored when the property mapping is disabled", entity, p.Name)
	}
}

func validateFieldMeta(res *diagnostic.Diagnostics, entity, property string, f *FieldMeta) {
	if !f.Type.IsValid() {
		res.AddError("unknown_field_type",
			fmt.Sprintf("unknown field type %q", f.Type), entity, property)
	}

	if !f.Dynamic.IsValid() {
		res.AddError("unknown_dynamic_mode",
			fmt.Sprintf("unknown dynamic mode %q", f.Dynamic), entity, property)
	}

	if f.Type == FieldTypeScaledFloat && f.ScalingFactor <= 0 {
		res.AddError("scaling_factor_missing",
			"scaled_float requires a positive scaling_factor", entity, property)
	}

	if f.Type == FieldTypeDenseVector && f.Dims <= 0 {
		res.AddError("dims_missing",
			"dense_vector requires a positive dims", entity, property)
	}

	if f.IndexPrefixes != nil && f.IndexPrefixes.MinChars > f.IndexPrefixes.MaxChars {
		res.AddError("prefix_bounds_invalid",
			fmt.Sprintf("index_prefixes min_chars %d exceeds max_chars %d",
				f.IndexPrefixes.MinChars, f.IndexPrefixes.MaxChars), entity, property)
	}
}

func validateMultiField(res *diagnostic.Diagnostics, entity, property string, m *MultiFieldMeta) {
	validateFieldMeta(res, entity, property, &m.Main)

	seen := map[string]struct{}{}

	for i := range m.Others {
		inner := &m.Others[i]

		if inner.Suffix == "" {
			res.AddError("inner_suffix_missing",
				fmt.Sprintf("inner field #%d has no suffix", i), entity, property)
			continue
		}

		if _, ok := seen[inner.Suffix]; ok {
			res.AddError("duplicate_inner_suffix",
				fmt.Sprintf("duplicate inner field suffix %q", inner.Suffix), entity, property)
			continue
		}

		seen[inner.Suffix] = struct{}{}

		coord := property + "." + inner.Suffix

		if inner.Type == FieldTypeNested || inner.Type == FieldTypeObject {
			res.AddError("inner_field_kind",
				"inner fields cannot be object or nested kinds", entity, coord)
		}

		validateFieldMeta(res, entity, coord, &inner.FieldMeta)
	}
}

func validateGeoShape(res *diagnostic.Diagnostics, entity, property string, g *GeoShapeMeta) {
	switch g.Orientation {
	case "ccw", "counterclockwise", "right", "cw", "clockwise", "left":
	default:
		res.AddError("unknown_orientation",
			fmt.Sprintf("unknown geo_shape orientation %q", g.Orientation), entity, property)
	}
}

func validateJoin(res *diagnostic.Diagnostics, entity, property string, j *JoinMeta) {
	for i := range j.Relations {
		if j.Relations[i].Parent == "" {
			res.AddError("join_parent_missing",
				fmt.Sprintf("join relation #%d has no parent", i), entity, property)
		}
	}
}

func validateCompletion(res *diagnostic.Diagnostics, entity, property string, c *CompletionMeta) {
	if c.MaxInputLength < 0 {
		res.AddError("max_input_length_invalid",
			fmt.Sprintf("max_input_length %d is negative", c.MaxInputLength), entity, property)
	}

	for i := range c.Contexts {
		ctx := &c.Contexts[i]

		if ctx.Name == "" {
			res.AddError("context_name_missing",
				fmt.Sprintf("completion context #%d has no name", i), entity, property)
		}

		if !ctx.Type.IsValid() {
			res.AddError("unknown_context_type",
				fmt.Sprintf("unknown completion context type %q", ctx.Type), entity, property)
		}
	}
}

// validateDynamicHint checks an ambient dynamic hint: hints must name an
// explicit mode, inherit makes no sense as a hint.
func validateDynamicHint(res *diagnostic.Diagnostics, d *Dynamic, entity, property string) {
	if d == nil {
		return
	}

	if !d.IsValid() || *d == DynamicInherit {
		res.AddError("invalid_dynamic_hint",
			fmt.Sprintf("dynamic_mapping hint must be an explicit mode, got %q", *d), entity, property)
	}
}

// hasMappingMetadata reports whether any mapping-relevant metadata is
// declared on the property.
func hasMappingMetadata(p *Property) bool {
	return p.Field != nil || p.MultiField != nil || p.GeoPoint || p.GeoShape != nil ||
		p.Join != nil || p.Completion != nil || p.Mapping != nil
}
