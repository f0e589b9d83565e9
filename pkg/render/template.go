// Package render turns provider content into the text spliced into a
// consumer: template expansion (a Jinja subset) followed by a transformer
// chain and optional padding.
package render

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// RenderError is returned when a template references a name with no
// matching top-level entry anywhere in the data context.
type RenderError struct {
	Message string
}

func (e *RenderError) Error() string { return e.Message }

// HasTemplateSyntax reports whether content contains any Jinja-subset
// delimiter, the same cheap pre-check the original minijinja-based engine
// used to skip templating entirely for plain content.
func HasTemplateSyntax(content string) bool {
	return strings.Contains(content, "{{") || strings.Contains(content, "{%") || strings.Contains(content, "{#")
}

// Render expands content's `{{ expr }}`, `{% if %}`/`{% for %}` syntax
// against data. When data is empty or content has no template syntax, the
// content is returned unchanged — matching the original engine's
// short-circuit for the common no-templating case. Warnings collects one
// message per expression whose value resolved through an undefined nested
// attribute (rendered as empty rather than aborting).
func Render(content string, data map[string]any, warnings *[]string) (string, error) {
	if len(data) == 0 || !HasTemplateSyntax(content) {
		return content, nil
	}

	nodes, err := parseTemplate(content)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	var buf strings.Builder
	if err := renderNodes(nodes, data, &buf, warnings); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FindUndefinedVariables returns the sorted, de-duplicated list of
// top-level names referenced anywhere in content's template syntax that
// have no entry in data. An empty data context or plain content (no
// template syntax) always yields no results.
func FindUndefinedVariables(content string, data map[string]any) []string {
	if len(data) == 0 || !HasTemplateSyntax(content) {
		return nil
	}

	nodes, err := parseTemplate(content)
	if err != nil {
		return nil
	}

	seen := map[string]bool{}
	var undefined []string
	var walk func(nodes []templateNode)
	record := func(exprStr string) {
		for _, root := range rootIdentifiers(exprStr) {
			if seen[root] {
				continue
			}
			seen[root] = true
			if _, ok := data[root]; !ok && !isExprBuiltin(root) {
				undefined = append(undefined, root)
			}
		}
	}
	walk = func(nodes []templateNode) {
		for _, n := range nodes {
			switch v := n.(type) {
			case outputNode:
				record(v.expr)
			case ifNode:
				for _, b := range v.branches {
					record(b.cond)
					walk(b.body)
				}
				walk(v.elseBody)
			case forNode:
				record(v.iterExpr)
				walk(v.body)
			}
		}
	}
	walk(nodes)

	sortStrings(undefined)
	return undefined
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func renderNodes(nodes []templateNode, data map[string]any, buf *strings.Builder, warnings *[]string) error {
	for _, n := range nodes {
		switch v := n.(type) {
		case textNode:
			buf.WriteString(v.value)
		case outputNode:
			value, err := evalExpr(v.expr, data, warnings)
			if err != nil {
				return err
			}
			buf.WriteString(stringifyValue(value))
		case ifNode:
			matched := false
			for _, b := range v.branches {
				value, err := evalExpr(b.cond, data, warnings)
				if err != nil {
					return err
				}
				if truthy(value) {
					matched = true
					if err := renderNodes(b.body, data, buf, warnings); err != nil {
						return err
					}
					break
				}
			}
			if !matched && v.elseBody != nil {
				if err := renderNodes(v.elseBody, data, buf, warnings); err != nil {
					return err
				}
			}
		case forNode:
			value, err := evalExpr(v.iterExpr, data, warnings)
			if err != nil {
				return err
			}
			items, ok := asSlice(value)
			if !ok {
				continue
			}
			for _, item := range items {
				loopData := make(map[string]any, len(data)+1)
				for k, val := range data {
					loopData[k] = val
				}
				loopData[v.varName] = item
				if err := renderNodes(v.body, loopData, buf, warnings); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// evalExpr checks that every root name the expression references exists
// in data before evaluating. A missing root is a hard error; a nested
// attribute that resolves to nothing during evaluation produces a warning
// and an empty result rather than aborting the whole render.
func evalExpr(exprStr string, data map[string]any, warnings *[]string) (any, error) {
	for _, root := range rootIdentifiers(exprStr) {
		if isExprBuiltin(root) {
			continue
		}
		if _, ok := data[root]; !ok {
			return nil, &RenderError{Message: fmt.Sprintf("undefined variable: %s", root)}
		}
	}

	result, err := expr.Eval(exprStr, data)
	if err != nil {
		if warnings != nil {
			*warnings = append(*warnings, fmt.Sprintf("%s: %v", exprStr, err))
		}
		return nil, nil
	}
	return result, nil
}

func stringifyValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	default:
		return true
	}
}

func asSlice(v any) ([]any, bool) {
	switch val := v.(type) {
	case []any:
		return val, true
	case nil:
		return nil, true
	default:
		return nil, false
	}
}
