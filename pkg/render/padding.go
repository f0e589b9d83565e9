package render

import (
	"strings"

	"github.com/yaklabco/mdt/pkg/mdconfig"
)

// PadContent adapts newContent's leading/trailing newlines to match
// padding's before/after configuration, using originalContent's trailing
// line as the comment-prefix template for any inserted blank lines. When
// padding is nil, newContent is returned unchanged.
func PadContent(newContent, originalContent string, padding *mdconfig.PaddingConfig) string {
	if padding == nil {
		return newContent
	}

	trailingPrefix := ""
	if idx := strings.LastIndexByte(originalContent, '\n'); idx >= 0 {
		trailingPrefix = originalContent[idx+1:]
	}
	blankLinePrefix := strings.TrimRight(trailingPrefix, " \t")

	var result strings.Builder
	result.Grow(len(newContent) + len(trailingPrefix)*4 + 8)

	applyBefore(&result, newContent, padding.Before, blankLinePrefix)
	result.WriteString(newContent)
	applyAfter(&result, newContent, padding.After, blankLinePrefix, trailingPrefix)

	return result.String()
}

func applyBefore(result *strings.Builder, newContent string, before mdconfig.PaddingValue, blankLinePrefix string) {
	if before.Disabled {
		return
	}
	if !strings.HasPrefix(newContent, "\n") {
		result.WriteByte('\n')
	}
	for i := uint32(0); i < before.Lines; i++ {
		result.WriteString(blankLinePrefix)
		result.WriteByte('\n')
	}
}

func applyAfter(result *strings.Builder, newContent string, after mdconfig.PaddingValue, blankLinePrefix, trailingPrefix string) {
	if after.Disabled {
		return
	}
	if !strings.HasSuffix(newContent, "\n") {
		result.WriteByte('\n')
	}
	for i := uint32(0); i < after.Lines; i++ {
		result.WriteString(blankLinePrefix)
		result.WriteByte('\n')
	}
	result.WriteString(trailingPrefix)
}
