package artifact

import (
	"fmt"
	"math"

	"house-price-service/internal/core/domain"
	ports "house-price-service/internal/core/ports/output"
)

const modelTypeLinearRegression = "linear_regression"

// modelDocument is the on-disk form of a fitted linear model.
type modelDocument struct {
	Type         string    `json:"type"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	FeatureNames []string  `json:"feature_names,omitempty"`
}

// LinearModel computes intercept + coefficients · features.
type LinearModel struct {
	coefficients []float64
	intercept    float64
}

var _ ports.Predictor = (*LinearModel)(nil)

// NewLinearModel copies its inputs so the model stays immutable.
func NewLinearModel(coefficients []float64, intercept float64) *LinearModel {
	c := make([]float64, len(coefficients))
	copy(c, coefficients)
	return &LinearModel{coefficients: c, intercept: intercept}
}

func newModelFromDocument(doc modelDocument) (*LinearModel, error) {
	switch doc.Type {
	case modelTypeLinearRegression, "":
	default:
		return nil, fmt.Errorf("%w: model type %q", domain.ErrUnsupportedFormat, doc.Type)
	}
	if len(doc.Coefficients) == 0 {
		return nil, fmt.Errorf("%w: model has no coefficients", domain.ErrArtifactCorrupt)
	}
	if doc.FeatureNames != nil && len(doc.FeatureNames) != len(doc.Coefficients) {
		return nil, fmt.Errorf("%w: %d feature names for %d coefficients",
			domain.ErrArtifactCorrupt, len(doc.FeatureNames), len(doc.Coefficients))
	}
	return NewLinearModel(doc.Coefficients, doc.Intercept), nil
}

func (m *LinearModel) Width() int {
	return len(m.coefficients)
}

func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.coefficients) {
		return 0, fmt.Errorf("%w: got %d, want %d", domain.ErrFeatureWidth, len(features), len(m.coefficients))
	}
	sum := m.intercept
	for i, x := range features {
		sum += m.coefficients[i] * x
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, domain.ErrNonFinite
	}
	return sum, nil
}
