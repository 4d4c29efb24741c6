package mapping

import (
	"fmt"

	"mapforge/internal/common"
	"mapforge/internal/params"
	"mapforge/internal/schema"
)

// propertyClass is the dispatch class a property resolves to before
// anything is written. Classification is total: every property lands in
// exactly one class, and only then does emission start, so a skipped
// property never leaves partial output behind.
type propertyClass int

const (
	classUnmapped propertyClass = iota
	classRawMapping
	classDisabled
	classGeoPoint
	classGeoShapeJoinConflict
	classGeoShape
	classJoin
	classCompletion
	classEntityObject
	classEntitySkipped
	classIdentifier
	classMultiField
	classSingleField
)

func (c propertyClass) String() string {
	switch c {
	case classUnmapped:
		return "unmapped"
	case classRawMapping:
		return "raw_mapping"
	case classDisabled:
		return "disabled"
	case classGeoPoint:
		return "geo_point"
	case classGeoShapeJoinConflict:
		return "geo_shape_join_conflict"
	case classGeoShape:
		return "geo_shape"
	case classJoin:
		return "join"
	case classCompletion:
		return "completion"
	case classEntityObject:
		return "entity_object"
	case classEntitySkipped:
		return "entity_skipped"
	case classIdentifier:
		return "identifier"
	case classMultiField:
		return "multi_field"
	case classSingleField:
		return "single_field"
	default:
		return common.UnknownStr
	}
}

// classify resolves the dispatch class of one property. The raw override
// wins only when its fragment actually resolved; a declared-but-missing
// fragment falls through to the remaining classes. Completion outranks the
// entity branch, so a completion field on an entity-valued property stays
// a completion field.
func classify(p *schema.Property, isRoot, rawResolved bool) propertyClass {
	if p.Mapping != nil {
		if !p.Mapping.IsEnabled() {
			return classDisabled
		}

		if rawResolved {
			return classRawMapping
		}
	}

	if p.GeoPoint {
		return classGeoPoint
	}

	if p.GeoShape != nil {
		if p.Join != nil {
			return classGeoShapeJoinConflict
		}

		return classGeoShape
	}

	if p.Join != nil {
		return classJoin
	}

	if p.Completion != nil {
		return classCompletion
	}

	if p.Entity != "" && hasMappingRelevantMeta(p) {
		if p.Field == nil {
			return classEntitySkipped
		}

		if p.IsNestedOrObject() {
			return classEntityObject
		}
	}

	if isRoot && p.ID && p.Field != nil {
		return classIdentifier
	}

	if p.MultiField != nil {
		return classMultiField
	}

	if p.Field != nil {
		return classSingleField
	}

	return classUnmapped
}

// hasMappingRelevantMeta reports whether the property carries the kind of
// metadata that makes an entity-valued property eligible for traversal.
func hasMappingRelevantMeta(p *schema.Property) bool {
	return p.Field != nil || p.MultiField != nil || p.GeoPoint || p.Completion != nil
}

// mapProperty classifies one property and writes its mapping entry.
func (run *compilation) mapProperty(entity *schema.Entity, p *schema.Property, isRoot bool) error {
	raw, err := run.resolveRawMapping(p)
	if err != nil {
		return err
	}

	class := classify(p, isRoot, len(raw) > 0)

	run.logger.Debug().Str("property", p.Name).Str("class", class.String()).Msg("mapping property")

	switch class {
	case classRawMapping:
		run.builder.RawField(p.Name, raw)

	case classDisabled:
		return run.writeDisabledProperty(entity, p)

	case classGeoPoint:
		run.builder.StartObject(p.Name)
		run.builder.Field("type", "geo_point")
		run.builder.EndObject()

	case classGeoShapeJoinConflict:
		return &ConfigurationError{
			Entity:   entity.Name,
			Property: p.Name,
			Reason:   "geo_shape and join are mutually exclusive",
		}

	case classGeoShape:
		run.builder.StartObject(p.Name)
		params.EncodeGeoShape(p.GeoShape).WriteTo(run.builder)
		run.builder.EndObject()

	case classJoin:
		run.writeJoinProperty(entity, p)

	case classCompletion:
		run.writeCompletionProperty(p)

	case classEntityObject:
		return run.mapEntityProperty(entity, p)

	case classIdentifier:
		// Identifiers default to an indexed keyword; declared parameters
		// do not apply here.
		run.builder.StartObject(p.Name)
		run.builder.Field("type", "keyword")
		run.builder.Field("index", true)
		run.builder.EndObject()

	case classMultiField:
		run.writeMultiFieldProperty(p)

	case classSingleField:
		run.writeSingleFieldProperty(p)

	case classEntitySkipped, classUnmapped:
		// Nothing declared, nothing emitted.
	}

	return nil
}

// mapEntityProperty recurses into the entity referenced by an object or
// nested property. An unresolvable reference still produces the wrapper
// with empty properties, plus a warning.
func (run *compilation) mapEntityProperty(entity *schema.Entity, p *schema.Property) error {
	target, err := run.compiler.model.Entity(p.Entity)
	if err != nil {
		run.diags.AddWarning("entity_unresolved",
			fmt.Sprintf("referenced entity %q is not registered", p.Entity), entity.Name, p.Name)
		run.logger.Warn().Str("property", p.Name).Str("ref", p.Entity).Msg("referenced entity not registered")

		target = nil
	}

	scope := entityScope{
		fieldName:      p.Name,
		nestedOrObject: true,
		fieldType:      p.Field.Type,
		parentField:    p.Field,
		dynamicHint:    p.DynamicMapping,
	}

	return run.mapEntity(target, scope)
}

// writeDisabledProperty writes the enabled:false marker for a property.
// Only object-kind declarations may be disabled; a disabled leaf kind is
// contradictory and aborts the compilation.
func (run *compilation) writeDisabledProperty(entity *schema.Entity, p *schema.Property) error {
	if p.Field == nil || p.Field.Type != schema.FieldTypeObject {
		return &ConfigurationError{
			Entity:   entity.Name,
			Property: p.Name,
			Reason:   "disabled mapping requires a field of type object",
		}
	}

	b := run.builder
	b.StartObject(p.Name)
	b.Field("type", string(p.Field.Type))
	b.Field("enabled", false)
	b.EndObject()

	return nil
}

// writeJoinProperty writes a join field. Single-child relations use the
// scalar form, zero-child relations are dropped.
func (run *compilation) writeJoinProperty(entity *schema.Entity, p *schema.Property) {
	relations := p.Join.Relations
	if common.IsEmpty(relations) {
		run.diags.AddWarning("join_relations_missing",
			"join field declares no relations", entity.Name, p.Name)
		run.logger.Warn().Str("property", p.Name).Msg("join field declares no relations")

		return
	}

	b := run.builder
	b.StartObject(p.Name)
	b.Field("type", "join")
	b.StartObject("relations")

	for _, rel := range relations {
		if common.IsMultiple(rel.Children) {
			b.Array(rel.Parent, rel.Children...)
		} else if common.IsSingle(rel.Children) {
			b.Field(rel.Parent, rel.Children[0])
		}
	}

	b.EndObject()
	b.EndObject()
}

// writeCompletionProperty writes a completion field with its suggester
// parameters and contexts.
func (run *compilation) writeCompletionProperty(p *schema.Property) {
	c := p.Completion
	b := run.builder

	b.StartObject(p.Name)
	b.Field("type", "completion")
	b.Field("max_input_length", c.MaxInputLength)
	b.Field("preserve_position_increments", c.PreservesPositionIncrements())
	b.Field("preserve_separators", c.PreservesSeparators())

	if c.SearchAnalyzer != "" {
		b.Field("search_analyzer", c.SearchAnalyzer)
	}

	if c.Analyzer != "" {
		b.Field("analyzer", c.Analyzer)
	}

	if len(c.Contexts) > 0 {
		b.StartArray("contexts")

		for _, ctx := range c.Contexts {
			b.StartObject("")
			b.Field("name", ctx.Name)
			b.Field("type", string(ctx.Type))

			if ctx.Precision != "" {
				b.Field("precision", string(ctx.Precision))
			}

			if ctx.Path != "" {
				b.Field("path", ctx.Path)
			}

			b.EndObject()
		}

		b.EndArray()
	}

	b.EndObject()
}

// writeMultiFieldProperty writes the main field plus its alternates under
// the fields entry. Inner fields are always flat: they take the non-nested
// store treatment and never carry dynamic modes.
func (run *compilation) writeMultiFieldProperty(p *schema.Property) {
	m := p.MultiField
	nestedOrObject := p.IsNestedOrObject()
	b := run.builder

	b.StartObject(p.Name)
	run.writeFieldDynamic(&m.Main, p.DynamicMapping, nestedOrObject)
	run.writeFieldParams(&m.Main, nestedOrObject)

	b.StartObject("fields")

	for i := range m.Others {
		inner := &m.Others[i]

		b.StartObject(inner.Suffix)
		run.writeFieldParams(&inner.FieldMeta, false)
		b.EndObject()
	}

	b.EndObject()
	b.EndObject()
}

// writeSingleFieldProperty writes a plain field. A field whose encoded
// parameters are empty and whose store flag does not apply is omitted
// entirely: an empty object is not a valid field mapping.
func (run *compilation) writeSingleFieldProperty(p *schema.Property) {
	f := p.Field
	nestedOrObject := p.IsNestedOrObject()

	encoded := params.Encode(f)
	if encoded.IsEmpty() && (nestedOrObject || !f.Store) {
		return
	}

	b := run.builder
	b.StartObject(p.Name)
	run.writeFieldDynamic(f, p.DynamicMapping, nestedOrObject)

	if !nestedOrObject && f.Store {
		b.Field("store", true)
	}

	encoded.WriteTo(b)
	b.EndObject()
}

// writeFieldDynamic writes the dynamic entry of an object or nested
// field: the field's own mode wins over the ambient hint. Flat fields
// never carry one.
func (run *compilation) writeFieldDynamic(f *schema.FieldMeta, hint *schema.Dynamic, nestedOrObject bool) {
	if !nestedOrObject {
		return
	}

	if f.Dynamic.IsExplicit() {
		run.builder.Field("dynamic", string(f.Dynamic))
		return
	}

	if hint != nil {
		run.builder.Field("dynamic", string(*hint))
	}
}

// writeFieldParams writes the store flag (non-nested contexts only) and
// the encoded parameters of a field, store first.
func (run *compilation) writeFieldParams(f *schema.FieldMeta, nestedOrObject bool) {
	if !nestedOrObject && f.Store {
		run.builder.Field("store", true)
	}

	params.Encode(f).WriteTo(run.builder)
}
