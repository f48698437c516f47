package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gait-ai/gait/pkg/errors"
)

func TestCounters(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)

	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()
	m.Request("github", OutcomeSuccess)
	m.Request("", OutcomeError)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("github", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("unknown", OutcomeError)))
}

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveStage(errors.StageCompile, 3*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(m.stageDuration))

	_, err = New(reg)
	assert.Error(t, err, "second registration collides")
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.CacheHit()
	m.CacheMiss()
	m.Request("github", OutcomeHit)
	m.ObserveStage(errors.StageInvoke, time.Second)
}
