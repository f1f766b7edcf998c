// Package params reads pipeline parameter files and merges parameter sets.
package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

var ErrNotAnObject = errors.New("parameters must be an object of key/value pairs")

// Load reads a parameter file. Files ending in .json may contain comments
// and trailing commas; .yaml and .yml files are decoded as YAML. Any other
// extension is sniffed the same way as Parse.
func Load(path string) (map[string]any, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter file: %w", err)
	}

	var out map[string]any

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		out, err = decodeJSON(data)
	case ".yaml", ".yml":
		out, err = decodeYAML(data)
	default:
		out, err = Parse(string(data))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode parameter file %q: %w", path, err)
	}

	return out, nil
}

// Parse decodes parameter text that is either a JSON object or a YAML
// mapping. Empty text yields an empty, non-nil map.
func Parse(text string) (map[string]any, error) {

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return map[string]any{}, nil
	}

	if strings.HasPrefix(trimmed, "{") {
		return decodeJSON([]byte(trimmed))
	}
	return decodeYAML([]byte(trimmed))
}

func decodeJSON(data []byte) (map[string]any, error) {

	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return asObject(v)
}

func decodeYAML(data []byte) (map[string]any, error) {

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	if v == nil {
		return map[string]any{}, nil
	}
	return asObject(stringKeys(v))
}

// stringKeys rewrites YAML mappings with non-string keys, such as `1: x`,
// into string keyed maps so they encode as JSON objects.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = stringKeys(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = stringKeys(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = stringKeys(item)
		}
		return t
	default:
		return v
	}
}

func asObject(v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotAnObject
	}
	return m, nil
}

// Merge returns a new map holding base overlaid with override. Nested maps
// are merged recursively; any other override value replaces the base value.
// Neither input is modified.
func Merge(base, override map[string]any) map[string]any {

	out := make(map[string]any, len(base)+len(override))
	maps.Copy(out, base)

	for k, ov := range override {
		if om, ok := ov.(map[string]any); ok {
			if bm, ok := out[k].(map[string]any); ok {
				out[k] = Merge(bm, om)
				continue
			}
		}
		out[k] = ov
	}

	return out
}

// Encode renders the parameters as compact JSON with sorted keys. An empty
// map encodes to the empty string.
func Encode(p map[string]any) (string, error) {
	if len(p) == 0 {
		return "", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode parameters: %w", err)
	}
	return string(data), nil
}
