package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEntity() *Entity {
	f, err := Parse([]byte(`
entities:
  - name: Article
    properties:
      - name: title
        field: { type: text }
`))
	if err != nil {
		panic(err)
	}

	return &f.Entities[0]
}

func TestValidateOK(t *testing.T) {
	diags := Validate(validEntity())
	assert.True(t, diags.IsValid())
	assert.True(t, diags.IsEmpty())
}

func TestValidateNil(t *testing.T) {
	diags := Validate(nil)
	require.True(t, diags.HasErrors())
	assert.Equal(t, "entity_is_nil", diags.Errors[0].Code)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code string
	}{
		{
			name: "entity name missing",
			yaml: `
entities:
  - properties:
      - name: a
        field: { type: text }
`,
			code: "entity_name_missing",
		},
		{
			name: "property name missing",
			yaml: `
entities:
  - name: A
    properties:
      - field: { type: text }
`,
			code: "property_name_missing",
		},
		{
			name: "duplicate property",
			yaml: `
entities:
  - name: A
    properties:
      - name: a
        field: { type: text }
      - name: a
        field: { type: keyword }
`,
			code: "duplicate_property",
		},
		{
			name: "unknown field type",
			yaml: `
entities:
  - name: A
    properties:
      - name: a
        field: { type: telepathy }
`,
			code: "unknown_field_type",
		},
		{
			name: "unknown dynamic mode",
			yaml: `
entities:
  - name: A
    dynamic: maybe
`,
			code: "unknown_dynamic_mode",
		},
		{
			name: "inherit as hint",
			yaml: `
entities:
  - name: A
    dynamic_mapping: inherit
`,
			code: "invalid_dynamic_hint",
		},
		{
			name: "scaled float without factor",
			yaml: `
entities:
  - name: A
    properties:
      - name: price
        field: { type: scaled_float }
`,
			code: "scaling_factor_missing",
		},
		{
			name: "dense vector without dims",
			yaml: `
entities:
  - name: A
    properties:
      - name: embedding
        field: { type: dense_vector }
`,
			code: "dims_missing",
		},
		{
			name: "prefix bounds inverted",
			yaml: `
entities:
  - name: A
    properties:
      - name: title
        field:
          type: text
          index_prefixes: { min_chars: 9, max_chars: 3 }
`,
			code: "prefix_bounds_invalid",
		},
		{
			name: "inner suffix missing",
			yaml: `
entities:
  - name: A
    properties:
      - name: title
        multi_field:
          main: { type: text }
          fields:
            - type: keyword
`,
			code: "inner_suffix_missing",
		},
		{
			name: "duplicate inner suffix",
			yaml: `
entities:
  - name: A
    properties:
      - name: title
        multi_field:
          main: { type: text }
          fields:
            - suffix: raw
              type: keyword
            - suffix: raw
              type: keyword
`,
			code: "duplicate_inner_suffix",
		},
		{
			name: "nested inner field",
			yaml: `
entities:
  - name: A
    properties:
      - name: title
        multi_field:
          main: { type: text }
          fields:
            - suffix: inner
              type: nested
`,
			code: "inner_field_kind",
		},
		{
			name: "unknown orientation",
			yaml: `
entities:
  - name: A
    properties:
      - name: area
        geo_shape: { orientation: sideways }
`,
			code: "unknown_orientation",
		},
		{
			name: "join parent missing",
			yaml: `
entities:
  - name: A
    properties:
      - name: relation
        join:
          relations:
            - children: [answer]
`,
			code: "join_parent_missing",
		},
		{
			name: "context name missing",
			yaml: `
entities:
  - name: A
    properties:
      - name: suggest
        completion:
          contexts:
            - type: category
`,
			code: "context_name_missing",
		},
		{
			name: "unknown context type",
			yaml: `
entities:
  - name: A
    properties:
      - name: suggest
        completion:
          contexts:
            - name: place
              type: galaxy
`,
			code: "unknown_context_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			require.Len(t, f.Entities, 1)

			diags := Validate(&f.Entities[0])
			require.True(t, diags.HasErrors(), "expected validation errors")

			codes := make([]string, 0, len(diags.Errors))
			for _, d := range diags.Errors {
				codes = append(codes, d.Code)
			}

			assert.Contains(t, codes, tt.code)
		})
	}
}

func TestValidateWarnings(t *testing.T) {
	f, err := Parse([]byte(`
entities:
  - name: A
    properties:
      - name: scratch
        transient: true
        field: { type: text }
      - name: override
        mapping:
          enabled: false
          path: override.json
`))
	require.NoError(t, err)

	diags := Validate(&f.Entities[0])
	assert.True(t, diags.IsValid())
	require.Len(t, diags.Warnings, 2)

	assert.Equal(t, "transient_metadata_ignored", diags.Warnings[0].Code)
	assert.Equal(t, "scratch", diags.Warnings[0].Property)
	assert.Equal(t, "mapping_path_ignored", diags.Warnings[1].Code)
	assert.Equal(t, "override", diags.Warnings[1].Property)
}
