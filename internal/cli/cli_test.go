package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdt/internal/cli"
	"github.com/yaklabco/mdt/pkg/sync"
)

func TestExitCodeFromCheck_NilResultIsSuccess(t *testing.T) {
	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromCheck(nil))
}

func TestExitCodeFromCheck_OKResultIsSuccess(t *testing.T) {
	result := &sync.CheckResult{}
	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromCheck(result))
}

func TestExitCodeFromCheck_StaleResultIsExitStale(t *testing.T) {
	result := &sync.CheckResult{Stale: []sync.StaleEntry{{File: "README.md"}}}
	assert.Equal(t, cli.ExitStale, cli.ExitCodeFromCheck(result))
}

func TestExitCodeFromCheck_RenderErrorIsExitStale(t *testing.T) {
	result := &sync.CheckResult{RenderErrors: []sync.RenderError{{File: "README.md"}}}
	assert.Equal(t, cli.ExitStale, cli.ExitCodeFromCheck(result))
}

func TestNewRootCommand_RegistersSubcommands(t *testing.T) {
	root := cli.NewRootCommand(cli.BuildInfo{Version: "1.0.0"})

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "init")
	assert.Contains(t, names, "check")
	assert.Contains(t, names, "update")
	assert.Contains(t, names, "list")
	assert.Contains(t, names, "info")
	assert.Contains(t, names, "doctor")
	assert.Contains(t, names, "version")
}

func TestNewHelpFormatter_NoColorProducesPlainStyles(t *testing.T) {
	styles := cli.NewHelpStyles(false)
	require.NotNil(t, styles)
	assert.Equal(t, "plain", styles.Command.Render("plain"))
}

func TestInitCommand_ScaffoldsTemplateFile(t *testing.T) {
	dir := t.TempDir()
	root := cli.NewRootCommand(cli.BuildInfo{Version: "1.0.0"})
	root.SetArgs([]string{"init", dir})

	require.NoError(t, root.Execute())

	path := filepath.Join(dir, ".templates", "template.t.md")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "{@example}")
}

func TestInitCommand_DoesNotOverwriteExistingTemplate(t *testing.T) {
	dir := t.TempDir()
	templatesDir := filepath.Join(dir, ".templates")
	require.NoError(t, os.MkdirAll(templatesDir, 0755))
	path := filepath.Join(templatesDir, "template.t.md")
	require.NoError(t, os.WriteFile(path, []byte("custom content"), 0644))

	root := cli.NewRootCommand(cli.BuildInfo{Version: "1.0.0"})
	root.SetArgs([]string{"init", dir})
	require.NoError(t, root.Execute())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom content", string(content))
}
