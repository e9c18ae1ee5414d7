package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsAreNamespaced(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newMetrics(reg)

	m.PostsCreatedTotal.Inc()
	m.CacheHitsTotal.WithLabelValues("feed").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
	for _, f := range families {
		assert.True(t, strings.HasPrefix(f.GetName(), "courtside_"), f.GetName())
	}

	err = testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP courtside_posts_created_total Posts created
# TYPE courtside_posts_created_total counter
courtside_posts_created_total 1
`), "courtside_posts_created_total")
	assert.NoError(t, err)
}

func TestGetIsSingleton(t *testing.T) {
	assert.Same(t, Get(), Get())
}
