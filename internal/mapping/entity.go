package mapping

import (
	"errors"

	"mapforge/internal/schema"
)

// entityScope is the traversal position handed to mapEntity: whether this
// is the document root or a named wrapper object, plus the metadata of the
// field that embedded the entity.
type entityScope struct {
	isRoot         bool
	fieldName      string
	nestedOrObject bool
	fieldType      schema.FieldType
	parentField    *schema.FieldMeta
	dynamicHint    *schema.Dynamic

	// runtimeFields is the compacted runtime fragment; root scope only,
	// recursion never passes one down.
	runtimeFields []byte
}

// mapEntity writes one entity scope: its mapping controls, the wrapper
// object for embedded entities, the dynamic entry, and the properties
// object with every mapped property. A nil entity still produces the
// wrapper and an empty properties object, so a dangling reference keeps
// its declared field kind.
func (run *compilation) mapEntity(entity *schema.Entity, scope entityScope) error {
	b := run.builder

	if entity != nil && entity.Mapping != nil {
		meta := entity.Mapping

		if !meta.IsEnabled() {
			// The disabled marker replaces the scope's whole mapping at
			// the current position, wrapper or not.
			b.Field("enabled", false)

			return nil
		}

		if meta.DateDetection != nil {
			b.Field("date_detection", *meta.DateDetection)
		}

		if meta.NumericDetection != nil {
			b.Field("numeric_detection", *meta.NumericDetection)
		}

		if len(meta.DynamicDateFormats) > 0 {
			b.Array("dynamic_date_formats", meta.DynamicDateFormats...)
		}

		if len(scope.runtimeFields) > 0 {
			b.RawField("runtime", scope.runtimeFields)
		}
	}

	// Embedded entities get a named wrapper when the target declares at
	// least one plain field, or the embedding field is nested/object.
	wrapper := !scope.isRoot && (entityHasFieldProperty(entity) || scope.nestedOrObject)
	if wrapper {
		kind := string(schema.FieldTypeObject)
		if scope.nestedOrObject {
			kind = string(scope.fieldType)
		}

		b.StartObject(scope.fieldName)
		b.Field("type", kind)

		if scope.nestedOrObject && scope.fieldType == schema.FieldTypeNested &&
			scope.parentField != nil && scope.parentField.IncludeInParent {
			b.Field("include_in_parent", true)
		}
	}

	run.writeScopeDynamic(entity, scope)

	b.StartObject("properties")
	run.writeTypeHint()

	if entity != nil {
		for i := range entity.Properties {
			p := &entity.Properties[i]

			if p.Transient || isIgnored(p, scope.parentField) {
				continue
			}

			if p.SeqNoPrimaryTerm {
				if p.Field != nil {
					run.diags.AddWarning("seq_no_never_mapped",
						"sequence-number property carries field metadata but is never mapped",
						entity.Name, p.Name)
				}

				continue
			}

			if err := run.mapProperty(entity, p, scope.isRoot); err != nil {
				var confErr *ConfigurationError
				if errors.As(err, &confErr) {
					return err
				}

				run.logger.Warn().Err(err).Str("property", p.Name).Msg("skipping property")
				run.diags.AddWarning("property_skipped", err.Error(), entity.Name, p.Name)
			}
		}
	}

	b.EndObject()

	if wrapper {
		b.EndObject()
	}

	return nil
}

// writeScopeDynamic emits the dynamic entry of the scope being opened.
// The root entity's declared mode wins, then the embedding field's
// override, then the ambient hint; inherit stays silent.
func (run *compilation) writeScopeDynamic(entity *schema.Entity, scope entityScope) {
	if scope.isRoot && entity != nil && entity.Dynamic.IsExplicit() {
		run.builder.Field("dynamic", string(entity.Dynamic))
		return
	}

	if scope.nestedOrObject && scope.parentField != nil && scope.parentField.Dynamic.IsExplicit() {
		run.builder.Field("dynamic", string(scope.parentField.Dynamic))
		return
	}

	if scope.dynamicHint != nil {
		run.builder.Field("dynamic", string(*scope.dynamicHint))
	}
}

// writeTypeHint writes the reserved field that stores the concrete type of
// a document for read-side resolution. It is keyword-typed but neither
// indexed nor doc-valued: purely a payload.
func (run *compilation) writeTypeHint() {
	if !run.typeHints {
		return
	}

	b := run.builder
	b.StartObject("_class")
	b.Field("type", "keyword")
	b.Field("index", false)
	b.Field("doc_values", false)
	b.EndObject()
}

func entityHasFieldProperty(entity *schema.Entity) bool {
	return entity != nil && entity.HasFieldProperty()
}

// isIgnored reports whether the embedding field suppresses this property
// by name.
func isIgnored(p *schema.Property, parentField *schema.FieldMeta) bool {
	return parentField != nil && parentField.IgnoresField(p.Name)
}
