package pretty_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdt/internal/ui/pretty"
)

func TestNewStyles_NoColorRendersPlainText(t *testing.T) {
	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)
	assert.Equal(t, "hello", styles.Error.Render("hello"))
	assert.Equal(t, "hello", styles.Success.Render("hello"))
}

func TestIsColorEnabled_NeverIsAlwaysFalse(t *testing.T) {
	assert.False(t, pretty.IsColorEnabled("never", &bytes.Buffer{}))
}

func TestIsColorEnabled_AlwaysIsAlwaysTrue(t *testing.T) {
	assert.True(t, pretty.IsColorEnabled("always", &bytes.Buffer{}))
}

func TestIsColorEnabled_AutoNonTTYWriterIsFalse(t *testing.T) {
	assert.False(t, pretty.IsColorEnabled("auto", &bytes.Buffer{}))
}

func TestIsColorEnabled_NoColorEnvDisablesAuto(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, pretty.IsColorEnabled("auto", &bytes.Buffer{}))
}
