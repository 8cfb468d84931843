package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveValuation(t *testing.T) {
	m := New(func() int { return 3 })

	m.ObserveValuation("storage", 20*time.Millisecond, 42, nil)
	m.ObserveValuation("storage", time.Millisecond, 0, errors.New("boom"))
	m.ObserveValuation("swing", time.Millisecond, 8, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Valuations.WithLabelValues("storage", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Valuations.WithLabelValues("storage", OutcomeError)))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.Regressions.WithLabelValues("storage")))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.Regressions.WithLabelValues("swing")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.StoredResults))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New(nil)
	m.ObserveValuation("swing", time.Second, 1, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(string(body), `lsmc_valuations_total{kind="swing",outcome="ok"} 1`))
	assert.True(t, strings.Contains(string(body), "lsmc_valuation_duration_seconds_bucket"))
}
