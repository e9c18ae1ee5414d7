package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabledIsNoop(t *testing.T) {
	tracing, err := Setup(context.Background(), Config{ServiceName: "courtside-backend"})
	require.NoError(t, err)
	assert.False(t, tracing.Enabled())
	assert.NoError(t, tracing.Shutdown(context.Background()))

	var none *Tracing
	assert.False(t, none.Enabled())
	assert.NoError(t, none.Shutdown(context.Background()))
}

func TestSamplerFor(t *testing.T) {
	assert.Contains(t, samplerFor(0).Description(), "AlwaysOnSampler")
	assert.Contains(t, samplerFor(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased{0.25}")
}
