package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineMetrics(t *testing.T) {
	m := NewPipeline()

	m.ObserveStage("writing", time.Now().Add(-time.Second), nil)
	m.ObserveStage("reviewing", time.Now(), errors.New("boom"))
	m.Fallback("seo")
	m.Fallback("seo")
	m.RunsTotal.WithLabelValues("failed").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("seo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("failed")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.StageDuration))
}

func TestHandler(t *testing.T) {
	m := NewPipeline()
	m.Fallback("image")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `content_pipeline_fallbacks_total{agent="image"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
