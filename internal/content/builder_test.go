package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSample() *Builder {
	b := NewBuilder()
	b.StartObject("")
	b.Field("dynamic", "strict")
	b.StartObject("properties")
	b.StartObject("title")
	b.Field("type", "text")
	b.Field("store", true)
	b.EndObject()
	b.StartObject("tags")
	b.Field("type", "keyword")
	b.EndObject()
	b.EndObject()
	b.EndObject()

	return b
}

func TestBuilderNestedObjects(t *testing.T) {
	out, err := buildSample().Bytes()
	require.NoError(t, err)

	expected := `{"dynamic":"strict","properties":{"title":{"type":"text","store":true},"tags":{"type":"keyword"}}}`
	assert.Equal(t, expected, string(out))
}

func TestBuilderDeterministic(t *testing.T) {
	first, err := buildSample().Bytes()
	require.NoError(t, err)

	second, err := buildSample().Bytes()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuilderArrays(t *testing.T) {
	b := NewBuilder()
	b.StartObject("")
	b.Array(" copy_to", "all_text")
	b.EndObject()

	// Leading space in the name must be preserved, not trimmed.
	out, err := b.Bytes()
	require.NoError(t, err)
	assert.Equal(t, `{" copy_to":["all_text"]}`, string(out))
}

func TestBuilderEmptyArray(t *testing.T) {
	b := NewBuilder()
	b.StartObject("")
	b.Array("copy_to")
	b.EndObject()

	out, err := b.Bytes()
	require.NoError(t, err)
	assert.Equal(t, `{"copy_to":[]}`, string(out))
}

func TestBuilderArrayOfObjects(t *testing.T) {
	b := NewBuilder()
	b.StartObject("")
	b.StartArray("contexts")
	b.StartObject("")
	b.Field("name", "place")
	b.EndObject()
	b.StartObject("")
	b.Field("name", "category")
	b.EndObject()
	b.EndArray()
	b.EndObject()

	out, err := b.Bytes()
	require.NoError(t, err)
	assert.Equal(t, `{"contexts":[{"name":"place"},{"name":"category"}]}`, string(out))
}

func TestBuilderRawField(t *testing.T) {
	b := NewBuilder()
	b.StartObject("")
	b.RawField("runtime", []byte(`{"day":{"type":"keyword"}}`))
	b.EndObject()

	out, err := b.Bytes()
	require.NoError(t, err)
	assert.Equal(t, `{"runtime":{"day":{"type":"keyword"}}}`, string(out))
}

func TestBuilderEscapesNamesAndValues(t *testing.T) {
	b := NewBuilder()
	b.StartObject("")
	b.Field(`we"ird`, `va"lue`)
	b.EndObject()

	out, err := b.Bytes()
	require.NoError(t, err)

	var parsed map[string]string
	require.NoError(t, json.Unmarshal(out, &parsed))
	assert.Equal(t, `va"lue`, parsed[`we"ird`])
}

func TestBuilderMisuse(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
	}{
		{
			name: "unclosed object",
			build: func(b *Builder) {
				b.StartObject("")
				b.StartObject("properties")
				b.EndObject()
			},
		},
		{
			name: "end without start",
			build: func(b *Builder) {
				b.StartObject("")
				b.EndObject()
				b.EndObject()
			},
		},
		{
			name: "end array while object open",
			build: func(b *Builder) {
				b.StartObject("")
				b.EndArray()
			},
		},
		{
			name: "field at root",
			build: func(b *Builder) {
				b.Field("type", "keyword")
			},
		},
		{
			name: "second root value",
			build: func(b *Builder) {
				b.StartObject("")
				b.EndObject()
				b.StartObject("")
			},
		},
		{
			name: "named root",
			build: func(b *Builder) {
				b.StartObject("mappings")
			},
		},
		{
			name: "nameless member in object",
			build: func(b *Builder) {
				b.StartObject("")
				b.Field("", true)
			},
		},
		{
			name: "named element in array",
			build: func(b *Builder) {
				b.StartObject("")
				b.StartArray("contexts")
				b.Field("name", "place")
			},
		},
		{
			name: "empty raw value",
			build: func(b *Builder) {
				b.StartObject("")
				b.RawField("runtime", nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			tt.build(b)

			_, err := b.Bytes()
			assert.Error(t, err)
		})
	}
}

func TestBuilderErrorIsSticky(t *testing.T) {
	b := NewBuilder()
	b.EndObject() // misuse: nothing open
	first := b.Err()
	require.Error(t, first)

	// Later calls must not overwrite the first recorded failure.
	b.StartObject("")
	b.Field("type", "keyword")

	_, err := b.Bytes()
	assert.Equal(t, first, err)
}

func TestBuilderUnsupportedValue(t *testing.T) {
	b := NewBuilder()
	b.StartObject("")
	b.Field("bad", func() {})
	b.EndObject()

	_, err := b.Bytes()
	assert.Error(t, err)
}
