package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ports "house-price-service/internal/core/ports/output"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.ObservePrediction(ports.OutcomeSuccess, 2*time.Millisecond)
	rec.ObservePrediction(ports.OutcomeSuccess, time.Millisecond)
	rec.ObservePrediction(ports.OutcomeValidationError, time.Microsecond)
	rec.ObserveUnknownLocation()
	rec.ObserveLogAppendFailure()

	r := rec.(*prometheusRecorder)
	assert.Equal(t, 2.0, testutil.ToFloat64(r.predictions.WithLabelValues(ports.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.predictions.WithLabelValues(ports.OutcomeValidationError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.unknownLocations))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.logAppendFailures))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}
