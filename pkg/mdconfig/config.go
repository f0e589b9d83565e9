// Package mdconfig loads mdt.toml configuration: data source namespaces,
// exclude/include patterns, template search paths, and padding rules.
package mdconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/yaklabco/mdt/pkg/tag"
)

// DefaultMaxFileSize is applied when a config omits max_file_size.
const DefaultMaxFileSize = 10 * 1024 * 1024

// ConfigFileCandidates lists the discovery order for the project config
// file, highest precedence first.
var ConfigFileCandidates = []string{"mdt.toml", ".mdt.toml", filepath.Join(".config", "mdt.toml")}

// Config is the parsed contents of a project's mdt.toml.
type Config struct {
	Data              map[string]DataSource
	Exclude           ExcludeConfig
	Include           IncludeConfig
	Templates         TemplatesConfig
	MaxFileSize       uint64
	Padding           *PaddingConfig
	DisableGitignore  bool
}

// ExcludeConfig configures gitignore-style exclusion, code-block tag
// filtering, and block-name denylisting.
type ExcludeConfig struct {
	Patterns           []string
	MarkdownCodeblocks tag.CodeBlockFilter
	Blocks             []string
}

// IncludeConfig lists additional glob patterns to scan.
type IncludeConfig struct {
	Patterns []string
}

// TemplatesConfig lists additional directories to search for *.t.md files.
type TemplatesConfig struct {
	Paths []string
}

// rawConfig mirrors the TOML shape before DataSource/CodeBlockFilter/
// PaddingValue union types are resolved from their raw decoded form.
type rawConfig struct {
	Data      map[string]any `toml:"data"`
	Exclude   rawExclude     `toml:"exclude"`
	Include   rawInclude     `toml:"include"`
	Templates rawTemplates   `toml:"templates"`

	MaxFileSize      *uint64 `toml:"max_file_size"`
	Padding          *rawPadding `toml:"padding"`
	DisableGitignore bool        `toml:"disable_gitignore"`
}

type rawExclude struct {
	Patterns           []string `toml:"patterns"`
	MarkdownCodeblocks any      `toml:"markdown_codeblocks"`
	Blocks             []string `toml:"blocks"`
}

type rawInclude struct {
	Patterns []string `toml:"patterns"`
}

type rawTemplates struct {
	Paths []string `toml:"paths"`
}

type rawPadding struct {
	Before any `toml:"before"`
	After  any `toml:"after"`
}

// ResolvePath returns the first existing config file path under root,
// following ConfigFileCandidates' precedence order.
func ResolvePath(root string) (string, bool) {
	for _, candidate := range ConfigFileCandidates {
		path := filepath.Join(root, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Load discovers and parses the project config file under root. It returns
// (nil, nil) when no config file is present — absence is not an error.
func Load(root string) (*Config, error) {
	path, ok := ResolvePath(root)
	if !ok {
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mdconfig: reading %s: %w", path, err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("mdconfig: parsing %s: %w", path, err)
	}

	cfg := &Config{
		MaxFileSize:      DefaultMaxFileSize,
		DisableGitignore: raw.DisableGitignore,
		Exclude: ExcludeConfig{
			Patterns: raw.Exclude.Patterns,
			Blocks:   raw.Exclude.Blocks,
		},
		Include:   IncludeConfig{Patterns: raw.Include.Patterns},
		Templates: TemplatesConfig{Paths: raw.Templates.Paths},
	}
	if raw.MaxFileSize != nil {
		cfg.MaxFileSize = *raw.MaxFileSize
	}

	filter, err := parseCodeBlockFilter(raw.Exclude.MarkdownCodeblocks)
	if err != nil {
		return nil, fmt.Errorf("mdconfig: %s: exclude.markdown_codeblocks: %w", path, err)
	}
	cfg.Exclude.MarkdownCodeblocks = filter

	if raw.Padding != nil {
		padding, err := parsePadding(*raw.Padding)
		if err != nil {
			return nil, fmt.Errorf("mdconfig: %s: padding: %w", path, err)
		}
		cfg.Padding = padding
	}

	cfg.Data = make(map[string]DataSource, len(raw.Data))
	for namespace, v := range raw.Data {
		src, err := parseDataSource(v)
		if err != nil {
			return nil, fmt.Errorf("mdconfig: %s: data.%s: %w", path, namespace, err)
		}
		cfg.Data[namespace] = src
	}

	return cfg, nil
}

var errUnsupportedShape = errors.New("unsupported TOML value shape")
