package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdt/pkg/render"
	"github.com/yaklabco/mdt/pkg/tag"
)

func TestRender_PlainContentUnchanged(t *testing.T) {
	out, err := render.Render("no templating here", map[string]any{"x": 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, "no templating here", out)
}

func TestRender_EmptyDataShortCircuits(t *testing.T) {
	out, err := render.Render("{{ name }}", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "{{ name }}", out)
}

func TestRender_SimpleExpression(t *testing.T) {
	out, err := render.Render("hello {{ name }}!", map[string]any{"name": "world"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello world!", out)
}

func TestRender_IfElse(t *testing.T) {
	tpl := "{% if flag %}yes{% else %}no{% endif %}"

	out, err := render.Render(tpl, map[string]any{"flag": true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "yes", out)

	out, err = render.Render(tpl, map[string]any{"flag": false}, nil)
	require.NoError(t, err)
	assert.Equal(t, "no", out)
}

func TestRender_ForLoop(t *testing.T) {
	tpl := "{% for item in items %}[{{ item }}]{% endfor %}"
	out, err := render.Render(tpl, map[string]any{"items": []any{"a", "b", "c"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "[a][b][c]", out)
}

func TestRender_UndefinedRootIsError(t *testing.T) {
	_, err := render.Render("{{ missing }}", map[string]any{"name": "x"}, nil)
	require.Error(t, err)
	var renderErr *render.RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestRender_CommentsAreStripped(t *testing.T) {
	out, err := render.Render("a{# this is a comment #}b", map[string]any{"x": 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ab", out)
}

func TestFindUndefinedVariables(t *testing.T) {
	tpl := "{{ known }} and {{ unknown }} and {% if other %}x{% endif %}"
	undefined := render.FindUndefinedVariables(tpl, map[string]any{"known": "k"})
	assert.Equal(t, []string{"other", "unknown"}, undefined)
}

func TestFindUndefinedVariables_NoTemplateSyntax(t *testing.T) {
	undefined := render.FindUndefinedVariables("plain text", map[string]any{"x": 1})
	assert.Empty(t, undefined)
}

func TestHasTemplateSyntax(t *testing.T) {
	assert.True(t, render.HasTemplateSyntax("{{ x }}"))
	assert.True(t, render.HasTemplateSyntax("{% if x %}{% endif %}"))
	assert.True(t, render.HasTemplateSyntax("{# comment #}"))
	assert.False(t, render.HasTemplateSyntax("plain text"))
}

func TestApplyTransformers_TrimThenIndent(t *testing.T) {
	transformers := []tag.Transformer{
		{Kind: tag.TrimKind},
		{Kind: tag.IndentKind, Args: []tag.Argument{{Kind: tag.ArgString, Str: "  "}}},
	}

	out := render.ApplyTransformers("\n  line one\nline two  \n", transformers, nil)
	assert.Equal(t, "  line one\n  line two", out)
}

func TestApplyTransformers_IfGuardsOnDataPath(t *testing.T) {
	transformers := []tag.Transformer{
		{Kind: tag.IfKind, Args: []tag.Argument{{Kind: tag.ArgString, Str: "flags.enabled"}}},
	}

	data := map[string]any{"flags": map[string]any{"enabled": true}}
	out := render.ApplyTransformers("content", transformers, data)
	assert.Equal(t, "content", out)

	data = map[string]any{"flags": map[string]any{"enabled": false}}
	out = render.ApplyTransformers("content", transformers, data)
	assert.Equal(t, "", out)
}

func TestApplyTransformers_CodeBlockWithLanguage(t *testing.T) {
	transformers := []tag.Transformer{
		{Kind: tag.CodeBlockKind, Args: []tag.Argument{{Kind: tag.ArgString, Str: "go"}}},
	}

	out := render.ApplyTransformers("fmt.Println(1)", transformers, nil)
	assert.Equal(t, "```go\nfmt.Println(1)\n```", out)
}

func TestApplyTransformers_ReplaceAll(t *testing.T) {
	transformers := []tag.Transformer{
		{Kind: tag.ReplaceKind, Args: []tag.Argument{
			{Kind: tag.ArgString, Str: "foo"},
			{Kind: tag.ArgString, Str: "bar"},
		}},
	}

	out := render.ApplyTransformers("foo foo foo", transformers, nil)
	assert.Equal(t, "bar bar bar", out)
}
