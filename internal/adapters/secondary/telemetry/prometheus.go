package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	ports "house-price-service/internal/core/ports/output"
)

type prometheusRecorder struct {
	predictions       *prometheus.CounterVec
	latency           *prometheus.HistogramVec
	unknownLocations  prometheus.Counter
	logAppendFailures prometheus.Counter
}

// NewPrometheusRecorder registers the prediction metrics on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) ports.MetricsRecorder {
	factory := promauto.With(reg)
	return &prometheusRecorder{
		predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "house_price_predictions_total",
				Help: "Total number of prediction requests by outcome",
			},
			[]string{"outcome"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "house_price_prediction_duration_seconds",
				Help:    "Time spent validating, encoding and scoring a request",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
			[]string{"outcome"},
		),
		unknownLocations: factory.NewCounter(prometheus.CounterOpts{
			Name: "house_price_unknown_locations_total",
			Help: "Predictions whose location was outside the fitted vocabulary",
		}),
		logAppendFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "house_price_prediction_log_failures_total",
			Help: "Prediction log appends that failed",
		}),
	}
}

func (r *prometheusRecorder) ObservePrediction(outcome string, duration time.Duration) {
	r.predictions.WithLabelValues(outcome).Inc()
	r.latency.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (r *prometheusRecorder) ObserveUnknownLocation() {
	r.unknownLocations.Inc()
}

func (r *prometheusRecorder) ObserveLogAppendFailure() {
	r.logAppendFailures.Inc()
}

// Noop discards all telemetry.
type Noop struct{}

var _ ports.MetricsRecorder = Noop{}

func (Noop) ObservePrediction(string, time.Duration) {}
func (Noop) ObserveUnknownLocation()                 {}
func (Noop) ObserveLogAppendFailure()                {}
