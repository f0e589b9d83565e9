package mdconfig

import "fmt"

// DataSourceKind discriminates the three shapes a `[data]` entry may take.
type DataSourceKind int

const (
	// PathSource is a bare string: the relative path to a data file, whose
	// format is inferred from its extension.
	PathSource DataSourceKind = iota
	// TypedSource is an inline table with explicit path and format.
	TypedSource
	// ScriptSource runs a shell command and parses its stdout.
	ScriptSource
)

// DataSource is one resolved `[data]` namespace entry.
type DataSource struct {
	Kind    DataSourceKind
	Path    string   // PathSource, TypedSource
	Format  string   // TypedSource (required), ScriptSource (optional, defaults to "text")
	Command string   // ScriptSource
	Watch   []string // ScriptSource
}

// parseDataSource interprets a raw decoded TOML value (string or inline
// table) as a DataSource, mirroring the original's untagged-enum dispatch:
// a bare string is a path, a table with "command" is script-backed, and a
// table with "path"+"format" is a typed file reference.
func parseDataSource(v any) (DataSource, error) {
	switch value := v.(type) {
	case string:
		return DataSource{Kind: PathSource, Path: value}, nil
	case map[string]any:
		if cmd, ok := value["command"].(string); ok {
			src := DataSource{Kind: ScriptSource, Command: cmd}
			if format, ok := value["format"].(string); ok {
				src.Format = format
			}
			if watch, ok := value["watch"].([]any); ok {
				for _, w := range watch {
					if s, ok := w.(string); ok {
						src.Watch = append(src.Watch, s)
					}
				}
			}
			return src, nil
		}
		path, hasPath := value["path"].(string)
		format, hasFormat := value["format"].(string)
		if hasPath && hasFormat {
			return DataSource{Kind: TypedSource, Path: path, Format: format}, nil
		}
		return DataSource{}, fmt.Errorf("%w: expected a string path, or a table with path+format or command", errUnsupportedShape)
	default:
		return DataSource{}, fmt.Errorf("%w: got %T", errUnsupportedShape, v)
	}
}
