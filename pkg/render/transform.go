package render

import (
	"strings"

	"github.com/yaklabco/mdt/pkg/tag"
)

// ApplyTransformers runs content through t left to right. data is the
// rendered block's data context, consulted only by the `if` transformer.
func ApplyTransformers(content string, transformers []tag.Transformer, data map[string]any) string {
	for _, t := range transformers {
		content = applyOne(content, t, data)
	}
	return content
}

func applyOne(content string, t tag.Transformer, data map[string]any) string {
	switch t.Kind {
	case tag.TrimKind:
		return strings.Trim(content, " \t\r\n")
	case tag.TrimStartKind:
		return strings.TrimLeft(content, " \t\r\n")
	case tag.TrimEndKind:
		return strings.TrimRight(content, " \t\r\n")
	case tag.IndentKind:
		return applyLinePrefix(content, t.Args)
	case tag.LineSuffixKind:
		return applyLineSuffix(content, t.Args)
	case tag.PrefixKind:
		return argString(t.Args, 0) + content
	case tag.SuffixKind:
		return content + argString(t.Args, 0)
	case tag.WrapKind:
		s := argString(t.Args, 0)
		return s + content + s
	case tag.CodeKind:
		return "`" + content + "`"
	case tag.CodeBlockKind:
		lang := argString(t.Args, 0)
		return "```" + lang + "\n" + content + "\n```"
	case tag.ReplaceKind:
		from := argString(t.Args, 0)
		to := argString(t.Args, 1)
		return strings.ReplaceAll(content, from, to)
	case tag.IfKind:
		path := argString(t.Args, 0)
		if isTruthyAtPath(data, path) {
			return content
		}
		return ""
	default:
		return content
	}
}

func argString(args []tag.Argument, i int) string {
	if i >= len(args) {
		return ""
	}
	return args[i].String()
}

func argBool(args []tag.Argument, i int, def bool) bool {
	if i >= len(args) {
		return def
	}
	return args[i].Truthy()
}

// applyLinePrefix prepends prefix to every line. Empty lines get the
// prefix only when includeEmpty, and then only in its right-trimmed form
// so padding-only lines don't pick up trailing whitespace.
func applyLinePrefix(content string, args []tag.Argument) string {
	prefix := argString(args, 0)
	includeEmpty := argBool(args, 1, false)
	if prefix == "" {
		return content
	}
	trimmedPrefix := strings.TrimRight(prefix, " \t")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if line == "" {
			if includeEmpty {
				lines[i] = trimmedPrefix
			}
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// applyLineSuffix is the symmetric tail-side counterpart of applyLinePrefix.
func applyLineSuffix(content string, args []tag.Argument) string {
	suffix := argString(args, 0)
	includeEmpty := argBool(args, 1, false)
	if suffix == "" {
		return content
	}
	trimmedSuffix := strings.TrimLeft(suffix, " \t")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if line == "" {
			if includeEmpty {
				lines[i] = trimmedSuffix
			}
			continue
		}
		lines[i] = line + suffix
	}
	return strings.Join(lines, "\n")
}

// isTruthyAtPath resolves a dot-separated path into data and reports
// whether the resulting value is truthy: present, non-nil, non-false,
// non-empty-string, non-zero.
func isTruthyAtPath(data map[string]any, path string) bool {
	if path == "" {
		return false
	}
	var cur any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return false
		}
		v, ok := m[part]
		if !ok {
			return false
		}
		cur = v
	}
	return truthy(cur)
}
