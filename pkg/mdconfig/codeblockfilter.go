package mdconfig

import (
	"fmt"

	"github.com/yaklabco/mdt/pkg/tag"
)

// parseCodeBlockFilter interprets exclude.markdown_codeblocks, which may be
// a bare bool, a single info-string substring, or an array of substrings.
func parseCodeBlockFilter(v any) (tag.CodeBlockFilter, error) {
	switch value := v.(type) {
	case nil:
		return tag.CodeBlockFilter{}, nil
	case bool:
		return tag.CodeBlockFilter{All: value}, nil
	case string:
		return tag.CodeBlockFilter{Infos: []string{value}}, nil
	case []any:
		var infos []string
		for _, item := range value {
			s, ok := item.(string)
			if !ok {
				return tag.CodeBlockFilter{}, fmt.Errorf("%w: array entries must be strings", errUnsupportedShape)
			}
			infos = append(infos, s)
		}
		return tag.CodeBlockFilter{Infos: infos}, nil
	default:
		return tag.CodeBlockFilter{}, fmt.Errorf("%w: expected bool, string, or array of strings, got %T", errUnsupportedShape, v)
	}
}
