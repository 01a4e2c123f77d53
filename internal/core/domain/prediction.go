package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HouseAttributes is the raw attribute record a FeatureEncoder turns into a feature vector.
type HouseAttributes struct {
	Location  string  `json:"location"`
	TotalSqft float64 `json:"total_sqft"`
	Bath      float64 `json:"bath"`
	BHK       int     `json:"bhk"`
}

// PredictionRequest carries the attributes of a single house to price.
type PredictionRequest struct {
	HouseAttributes
}

// Validate applies the range policy: a non-empty location, positive area and at
// least one bathroom and one bedroom.
func (r PredictionRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Location) == "":
		return fmt.Errorf("%w: %w", ErrValidation, ErrMissingLocation)
	case !(r.TotalSqft > 0):
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidTotalSqft)
	case !(r.Bath >= 1):
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidBath)
	case r.BHK < 1:
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidBHK)
	}
	return nil
}

// ResponseMetadata is the model identity block attached to every prediction.
type ResponseMetadata struct {
	ModelName string   `json:"model_name"`
	ModelType string   `json:"model_type,omitempty"`
	Features  []string `json:"features"`
	TestRMSE  *float64 `json:"test_rmse,omitempty"`
	TestR2    *float64 `json:"test_r2,omitempty"`
}

// PredictionResponse is written once per successful prediction and appended to
// the prediction log as-is.
type PredictionResponse struct {
	PredictionID         uuid.UUID        `json:"prediction_id"`
	PredictedPriceLakhs  float64          `json:"predicted_price_lakhs"`
	PredictionInterval95 *float64         `json:"prediction_interval_95,omitempty"`
	Input                HouseAttributes  `json:"input"`
	ModelMetadata        ResponseMetadata `json:"model_metadata"`
	Timestamp            time.Time        `json:"timestamp"`
}

// HealthStatus reports which artifacts the serving process holds.
type HealthStatus struct {
	Status             string `json:"status"`
	ModelLoaded        bool   `json:"model_loaded"`
	PreprocessorLoaded bool   `json:"preprocessor_loaded"`
	MetadataLoaded     bool   `json:"metadata_loaded"`
}

const (
	HealthStatusHealthy  = "healthy"
	HealthStatusDegraded = "degraded"
)

// Healthy is true when all three artifacts are loaded.
func (h HealthStatus) Healthy() bool {
	return h.ModelLoaded && h.PreprocessorLoaded && h.MetadataLoaded
}
