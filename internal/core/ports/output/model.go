package ports

import (
	"house-price-service/internal/core/domain"
)

// ============================================================================
// Model Artifacts
// ============================================================================

// Predictor is a pre-trained regression model: feature vector in, scalar out.
type Predictor interface {
	// Predict returns the price estimate in lakhs for one feature vector
	Predict(features []float64) (float64, error)

	// Width is the number of features the model expects
	Width() int
}

// FeatureEncoder is a pre-fitted transformer from raw attributes to features.
type FeatureEncoder interface {
	// Encode builds the feature vector; unknown locations encode to zeros
	Encode(attrs domain.HouseAttributes) ([]float64, error)

	// Locations returns the fitted location vocabulary, sorted
	Locations() []string

	// HasLocation reports whether the location is part of the fitted vocabulary
	HasLocation(location string) bool

	// Width is the length of every vector Encode returns
	Width() int
}
