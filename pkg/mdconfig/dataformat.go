package mdconfig

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-ini/ini"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ParseDataFile interprets content according to format, returning a
// JSON-like value (string, float64/int64, bool, nil, []any, map[string]any)
// suitable for exposing through a template DataContext.
func ParseDataFile(content []byte, format, pathDisplay string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "string", "raw", "txt":
		return string(content), nil
	case "json":
		var v any
		if err := json.Unmarshal(content, &v); err != nil {
			return nil, fmt.Errorf("mdconfig: %s: %w", pathDisplay, err)
		}
		return v, nil
	case "toml":
		var v map[string]any
		if err := toml.Unmarshal(content, &v); err != nil {
			return nil, fmt.Errorf("mdconfig: %s: %w", pathDisplay, err)
		}
		return v, nil
	case "yaml", "yml":
		var v any
		if err := yaml.Unmarshal(content, &v); err != nil {
			return nil, fmt.Errorf("mdconfig: %s: %w", pathDisplay, err)
		}
		return normalizeYAML(v), nil
	case "kdl":
		v, err := parseKDL(string(content))
		if err != nil {
			return nil, fmt.Errorf("mdconfig: %s: %w", pathDisplay, err)
		}
		return v, nil
	case "ini":
		return parseINI(content, pathDisplay)
	default:
		return nil, fmt.Errorf("mdconfig: %s: unsupported data format %q", pathDisplay, format)
	}
}

// normalizeYAML recursively converts map[any]any (which yaml.v3 produces
// for nested mappings) into map[string]any so downstream template
// expression evaluation sees a consistent JSON-like shape.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeYAML(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return val
	}
}

func parseINI(content []byte, pathDisplay string) (any, error) {
	file, err := ini.Load(content)
	if err != nil {
		return nil, fmt.Errorf("mdconfig: %s: %w", pathDisplay, err)
	}
	out := make(map[string]any)
	for _, section := range file.Sections() {
		name := section.Name()
		if name == ini.DefaultSection && len(section.Keys()) == 0 {
			continue
		}
		keys := make(map[string]any, len(section.Keys()))
		for _, key := range section.Keys() {
			keys[key.Name()] = key.Value()
		}
		if name == ini.DefaultSection {
			for k, v := range keys {
				out[k] = v
			}
			continue
		}
		out[name] = keys
	}
	return out, nil
}
