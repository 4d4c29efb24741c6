// Package params turns declarative field metadata into the ordered
// key/value parameters of a field mapping. Values equal to the engine
// defaults are omitted, so an undeclared field encodes to nothing.
package params

import (
	"strings"

	"mapforge/internal/common"
	"mapforge/internal/content"
	"mapforge/internal/schema"
)

// Param is one mapping parameter.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered parameter list. The order is part of the contract:
// serialization preserves it byte-for-byte.
type Params []Param

// Add appends a parameter.
func (p *Params) Add(key string, value any) {
	*p = append(*p, Param{Key: key, Value: value})
}

// IsEmpty reports whether nothing was encoded.
func (p Params) IsEmpty() bool {
	return common.IsEmpty(p)
}

// WriteTo writes every parameter to the builder in order.
func (p Params) WriteTo(b *content.Builder) {
	for _, param := range p {
		b.Field(param.Key, param.Value)
	}
}

// Encode returns the mapping parameters of a field in the documented
// order. The store flag is not encoded here: the compiler writes it
// separately because its placement depends on the enclosing context.
func Encode(f *schema.FieldMeta) Params {
	params := Params{}

	if f.Index != nil && !*f.Index {
		params.Add("index", false)
	}

	if f.Fielddata {
		params.Add("fielddata", true)
	}

	if f.Type != schema.FieldTypeAuto && f.Type != "" {
		params.Add("type", string(f.Type))

		// Only the date kinds carry a format entry.
		if f.Type.IsDate() && len(f.Format) > 0 {
			params.Add("format", strings.Join(f.Format, "||"))
		}
	}

	if f.Analyzer != "" {
		params.Add("analyzer", f.Analyzer)
	}

	if f.SearchAnalyzer != "" {
		params.Add("search_analyzer", f.SearchAnalyzer)
	}

	if f.SearchQuoteAnalyzer != "" {
		params.Add("search_quote_analyzer", f.SearchQuoteAnalyzer)
	}

	if f.Normalizer != "" {
		params.Add("normalizer", f.Normalizer)
	}

	if len(f.CopyTo) > 0 {
		params.Add("copy_to", []string(f.CopyTo))
	}

	if f.IgnoreAbove > 0 {
		params.Add("ignore_above", f.IgnoreAbove)
	}

	if f.Coerce != nil && !*f.Coerce {
		params.Add("coerce", false)
	}

	if f.DocValues != nil && !*f.DocValues {
		params.Add("doc_values", false)
	}

	if f.IgnoreMalformed {
		params.Add("ignore_malformed", true)
	}

	if f.NullValue != "" {
		params.Add("null_value", f.NullValue)
	}

	if f.PositionIncrementGap > 0 {
		params.Add("position_increment_gap", f.PositionIncrementGap)
	}

	if f.Similarity != "" {
		params.Add("similarity", f.Similarity)
	}

	if f.TermVector != "" {
		params.Add("term_vector", f.TermVector)
	}

	if f.Norms != nil && !*f.Norms {
		params.Add("norms", false)
	}

	if f.IndexOptions != "" {
		params.Add("index_options", f.IndexOptions)
	}

	if f.IndexPrefixes != nil {
		params.Add("index_prefixes", prefixesValue(f.IndexPrefixes))
	}

	if f.EagerGlobalOrdinals {
		params.Add("eager_global_ordinals", true)
	}

	if f.Type == schema.FieldTypeScaledFloat && f.ScalingFactor > 0 {
		params.Add("scaling_factor", f.ScalingFactor)
	}

	if f.Type == schema.FieldTypeDenseVector && f.Dims > 0 {
		params.Add("dims", f.Dims)
	}

	return params
}

// EncodeGeoShape returns the parameters of a geo_shape field: the type
// entry first, then the non-default shape parameters.
func EncodeGeoShape(g *schema.GeoShapeMeta) Params {
	params := Params{}
	params.Add("type", "geo_shape")

	if g.Orientation != schema.DefaultOrientation {
		params.Add("orientation", g.Orientation)
	}

	if g.IgnoreMalformed {
		params.Add("ignore_malformed", true)
	}

	if g.IgnoreZValue != nil && !*g.IgnoreZValue {
		params.Add("ignore_z_value", false)
	}

	if g.Coerce {
		params.Add("coerce", true)
	}

	return params
}

// prefixesValue builds the index_prefixes object, keeping only the bounds
// that differ from the engine defaults. An empty object is legal.
func prefixesValue(p *schema.IndexPrefixes) any {
	v := struct {
		MinChars *int `json:"min_chars,omitempty"`
		MaxChars *int `json:"max_chars,omitempty"`
	}{}

	if p.MinChars != schema.DefaultIndexPrefixMinChars {
		v.MinChars = &p.MinChars
	}

	if p.MaxChars != schema.DefaultIndexPrefixMaxChars {
		v.MaxChars = &p.MaxChars
	}

	return v
}
