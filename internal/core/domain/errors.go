package domain

import "errors"

// ============================================================================
// Startup Errors
// ============================================================================

var (
	ErrArtifactMissing   = errors.New("required artifact is missing")
	ErrArtifactCorrupt   = errors.New("artifact could not be decoded")
	ErrArtifactMismatch  = errors.New("model and preprocessor do not agree on feature width")
	ErrUnsupportedFormat = errors.New("unsupported artifact format")
)

// ============================================================================
// Validation Errors
// ============================================================================

var (
	ErrValidation       = errors.New("invalid prediction request")
	ErrMissingLocation  = errors.New("location is required")
	ErrInvalidTotalSqft = errors.New("total_sqft must be greater than 0")
	ErrInvalidBath      = errors.New("bath must be at least 1")
	ErrInvalidBHK       = errors.New("bhk must be at least 1")
)

// ============================================================================
// Prediction Errors
// ============================================================================

var (
	ErrPredictionFailed = errors.New("prediction failed")
	ErrFeatureWidth     = errors.New("feature vector width does not match model")
	ErrNonFinite        = errors.New("model produced a non-finite value")
	ErrNotLoaded        = errors.New("artifacts are not loaded")
)

// ============================================================================
// UI Transport Errors
// ============================================================================

var (
	ErrUpstreamUnavailable = errors.New("prediction API is unreachable")
)
