package schema

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Dynamic is the policy for fields that appear in documents without being
// declared in the mapping.
type Dynamic string

// Recognized dynamic modes.
const (
	DynamicInherit Dynamic = "inherit"
	DynamicTrue    Dynamic = "true"
	DynamicFalse   Dynamic = "false"
	DynamicStrict  Dynamic = "strict"
	DynamicRuntime Dynamic = "runtime"
)

// IsValid reports whether the mode is one of the recognized values.
func (d Dynamic) IsValid() bool {
	switch d {
	case DynamicInherit, DynamicTrue, DynamicFalse, DynamicStrict, DynamicRuntime:
		return true
	default:
		return false
	}
}

// IsExplicit reports whether the mode overrides inheritance. The zero
// value counts as inherit.
func (d Dynamic) IsExplicit() bool {
	return d != "" && d != DynamicInherit
}

// UnmarshalYAML accepts bare YAML booleans alongside the named modes, so
// `dynamic: true` and `dynamic: "true"` read the same.
func (d *Dynamic) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected scalar for dynamic mode, got kind %v", node.Kind)
	}

	if node.Tag == "!!bool" {
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}

		*d = Dynamic(strconv.FormatBool(b))

		return nil
	}

	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	*d = Dynamic(s)

	return nil
}

// FieldType is the declared engine type of a field. Auto, the default,
// declares no type and lets the engine infer one.
type FieldType string

// Recognized field types.
const (
	FieldTypeAuto            FieldType = "auto"
	FieldTypeText            FieldType = "text"
	FieldTypeKeyword         FieldType = "keyword"
	FieldTypeLong            FieldType = "long"
	FieldTypeInteger         FieldType = "integer"
	FieldTypeShort           FieldType = "short"
	FieldTypeByte            FieldType = "byte"
	FieldTypeDouble          FieldType = "double"
	FieldTypeFloat           FieldType = "float"
	FieldTypeHalfFloat       FieldType = "half_float"
	FieldTypeScaledFloat     FieldType = "scaled_float"
	FieldTypeDate            FieldType = "date"
	FieldTypeDateNanos       FieldType = "date_nanos"
	FieldTypeDateRange       FieldType = "date_range"
	FieldTypeBoolean         FieldType = "boolean"
	FieldTypeBinary          FieldType = "binary"
	FieldTypeIP              FieldType = "ip"
	FieldTypeObject          FieldType = "object"
	FieldTypeNested          FieldType = "nested"
	FieldTypeFlattened       FieldType = "flattened"
	FieldTypeTokenCount      FieldType = "token_count"
	FieldTypeSearchAsYouType FieldType = "search_as_you_type"
	FieldTypeRankFeature     FieldType = "rank_feature"
	FieldTypeRankFeatures    FieldType = "rank_features"
	FieldTypeWildcard        FieldType = "wildcard"
	FieldTypeDenseVector     FieldType = "dense_vector"
)

// IsValid reports whether the type is one of the recognized values.
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeAuto, FieldTypeText, FieldTypeKeyword,
		FieldTypeLong, FieldTypeInteger, FieldTypeShort, FieldTypeByte,
		FieldTypeDouble, FieldTypeFloat, FieldTypeHalfFloat, FieldTypeScaledFloat,
		FieldTypeDate, FieldTypeDateNanos, FieldTypeDateRange,
		FieldTypeBoolean, FieldTypeBinary, FieldTypeIP,
		FieldTypeObject, FieldTypeNested, FieldTypeFlattened,
		FieldTypeTokenCount, FieldTypeSearchAsYouType,
		FieldTypeRankFeature, FieldTypeRankFeatures,
		FieldTypeWildcard, FieldTypeDenseVector:
		return true
	default:
		return false
	}
}

// IsDate reports whether the type is one of the date kinds that carry a
// format entry.
func (t FieldType) IsDate() bool {
	return t == FieldTypeDate || t == FieldTypeDateNanos || t == FieldTypeDateRange
}

// ContextType is the kind of a completion suggester context.
type ContextType string

// Recognized completion context types.
const (
	ContextTypeCategory ContextType = "category"
	ContextTypeGeo      ContextType = "geo"
)

// IsValid reports whether the context type is recognized.
func (t ContextType) IsValid() bool {
	return t == ContextTypeCategory || t == ContextTypeGeo
}

// Precision is a geo context precision: either a geohash level or a
// distance string such as "5km". Numbers read as their decimal form.
type Precision string

// UnmarshalYAML accepts numeric and string precision values.
func (p *Precision) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected scalar for precision, got kind %v", node.Kind)
	}

	if node.Tag == "!!int" {
		var n int
		if err := node.Decode(&n); err != nil {
			return err
		}

		*p = Precision(strconv.Itoa(n))

		return nil
	}

	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	*p = Precision(s)

	return nil
}

// StringArray is a string slice that also reads from a single scalar, so
// `copy_to: all_text` and `copy_to: [all_text]` are equivalent.
type StringArray []string

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (s *StringArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str == "" {
			*s = StringArray{}
		} else {
			*s = StringArray{str}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array of strings, got kind %v", node.Kind)
	}
}
