package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdt/internal/logging"
)

func TestFromContext_ReturnsDefaultWhenNilContext(t *testing.T) {
	logger := logging.FromContext(nil)
	assert.Equal(t, logging.Default(), logger)
}

func TestFromContext_ReturnsDefaultWhenNoLoggerAttached(t *testing.T) {
	logger := logging.FromContext(context.Background())
	assert.Equal(t, logging.Default(), logger)
}

func TestWithLogger_RoundTrip(t *testing.T) {
	custom := logging.New("debug")
	ctx := logging.WithLogger(context.Background(), custom)

	got := logging.FromContext(ctx)
	assert.Same(t, custom, got)
}

func TestWithLogger_NilContextDefaultsToBackground(t *testing.T) {
	custom := logging.New("error")
	ctx := logging.WithLogger(nil, custom)

	got := logging.FromContext(ctx)
	assert.Same(t, custom, got)
}
