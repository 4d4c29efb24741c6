package mapping

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mapforge/internal/resource"
	"mapforge/internal/schema"
)

// resolveRawMapping resolves the per-property override fragment. It
// returns nil when no override applies: no metadata, no path, or a
// disabled mapping, and also when the fragment does not exist or is
// blank, so the property falls through to its declared metadata. A
// fragment that exists but cannot be read or is not valid JSON is an
// error; embedding it would corrupt the document.
func (run *compilation) resolveRawMapping(p *schema.Property) ([]byte, error) {
	if p.Mapping == nil || !p.Mapping.IsEnabled() || p.Mapping.Path == "" {
		return nil, nil
	}

	text, err := run.readResource(p.Mapping.Path)
	if errors.Is(err, resource.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read mapping fragment %s: %w", p.Mapping.Path, err)
	}

	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	compacted, err := compactJSON([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON in mapping fragment %s: %w", p.Mapping.Path, err)
	}

	return compacted, nil
}

// resolveRuntimeFields resolves the root entity's runtime fields fragment.
// A declared fragment that cannot be loaded or is not a JSON object yields
// a warning and an absent runtime entry, never a failed compilation.
func (run *compilation) resolveRuntimeFields(entity *schema.Entity) []byte {
	if entity.Mapping == nil || entity.Mapping.RuntimeFieldsPath == "" {
		return nil
	}

	path := entity.Mapping.RuntimeFieldsPath

	text, err := run.readResource(path)
	if err != nil {
		run.diags.AddWarning("runtime_fields_unavailable",
			fmt.Sprintf("runtime fields fragment %s: %v", path, err), entity.Name, "")
		run.logger.Warn().Err(err).Str("path", path).Msg("runtime fields fragment unavailable")

		return nil
	}

	compacted, err := compactJSON([]byte(text))
	if err != nil || len(compacted) == 0 || compacted[0] != '{' {
		run.diags.AddWarning("runtime_fields_invalid",
			fmt.Sprintf("runtime fields fragment %s is not a JSON object", path), entity.Name, "")
		run.logger.Warn().Str("path", path).Msg("runtime fields fragment is not a JSON object")

		return nil
	}

	return compacted
}

// writeDynamicTemplates embeds the entity's dynamic_templates fragment as
// the first entry of the document. Templates are advisory: every failure
// mode leaves the entry out and the mapping usable, logged at debug level.
func (run *compilation) writeDynamicTemplates(entity *schema.Entity) {
	if entity.DynamicTemplatesPath == "" {
		return
	}

	path := entity.DynamicTemplatesPath

	text, err := run.readResource(path)
	if err != nil {
		run.logger.Debug().Err(err).Str("path", path).Msg("dynamic templates fragment unavailable")
		return
	}

	var doc map[string]json.RawMessage

	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		run.logger.Debug().Err(err).Str("path", path).Msg("dynamic templates fragment is not a JSON object")
		return
	}

	node, ok := doc["dynamic_templates"]
	if !ok {
		run.logger.Debug().Str("path", path).Msg("fragment has no dynamic_templates entry")
		return
	}

	compacted, err := compactJSON(node)
	if err != nil || len(compacted) == 0 || compacted[0] != '[' {
		run.logger.Debug().Str("path", path).Msg("dynamic_templates entry is not an array")
		return
	}

	run.builder.RawField("dynamic_templates", compacted)
}

// readResource reads an external fragment through the configured loader.
// A compiler without a loader sees every fragment as missing.
func (run *compilation) readResource(path string) (string, error) {
	if run.compiler.resources == nil {
		return "", fmt.Errorf("%s: %w", path, resource.ErrNotFound)
	}

	return run.compiler.resources.ReadText(path)
}

// compactJSON validates data and strips insignificant whitespace,
// preserving key order.
func compactJSON(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
