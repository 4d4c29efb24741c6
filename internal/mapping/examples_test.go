package mapping

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapforge/internal/resource"
	"mapforge/internal/schema"
)

// TestExamples_CompileGoldens compiles every definition file shipped under
// examples/ and compares the output against the expected documents next to
// it. The examples double as end-to-end fixtures and as documentation.
func TestExamples_CompileGoldens(t *testing.T) {
	t.Parallel()

	repoRoot, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)

	definitions, err := filepath.Glob(filepath.Join(repoRoot, "examples", "*", "schema.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, definitions)

	for _, definition := range definitions {
		definition := definition
		dir := filepath.Dir(definition)

		t.Run(filepath.Base(dir), func(t *testing.T) {
			t.Parallel()

			registry, diags, err := schema.LoadRegistry(definition)
			require.NoError(t, err)
			require.True(t, diags.IsValid(), "example definitions must validate: %v", diags.Error())

			compiler := New(registry, WithResources(resource.Dir(dir)))

			goldens, err := filepath.Glob(filepath.Join(dir, "expected", "*.mapping.json"))
			require.NoError(t, err)
			require.NotEmpty(t, goldens)

			for _, golden := range goldens {
				name := strings.TrimSuffix(filepath.Base(golden), ".mapping.json")

				want, err := os.ReadFile(golden)
				require.NoError(t, err)

				res, err := compiler.Compile(name)
				require.NoError(t, err, name)

				assert.Equal(t, strings.TrimSpace(string(want)), string(res.Mapping), name)
			}
		})
	}
}
