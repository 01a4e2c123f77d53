package ports

import (
	"context"
	"time"

	"house-price-service/internal/core/domain"
)

// ============================================================================
// Prediction Log
// ============================================================================

// PredictionLogRepository is an append-only sink for prediction responses.
type PredictionLogRepository interface {
	// Append persists one response; implementations must not interleave partial records
	Append(ctx context.Context, resp *domain.PredictionResponse) error
}

// ============================================================================
// Metrics
// ============================================================================

// Prediction outcomes reported to the MetricsRecorder.
const (
	OutcomeSuccess         = "success"
	OutcomeValidationError = "validation_error"
	OutcomePredictionError = "prediction_error"
)

// MetricsRecorder receives prediction telemetry.
type MetricsRecorder interface {
	ObservePrediction(outcome string, duration time.Duration)
	ObserveUnknownLocation()
	ObserveLogAppendFailure()
}
