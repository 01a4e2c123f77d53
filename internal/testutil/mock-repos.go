package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"house-price-service/internal/core/domain"
	ports "house-price-service/internal/core/ports/output"
)

// MockPredictor is a mock of Predictor.
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(features []float64) (float64, error) {
	args := m.Called(features)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockPredictor) Width() int {
	args := m.Called()
	return args.Int(0)
}

// MockFeatureEncoder is a mock of FeatureEncoder.
type MockFeatureEncoder struct {
	mock.Mock
}

func (m *MockFeatureEncoder) Encode(attrs domain.HouseAttributes) ([]float64, error) {
	args := m.Called(attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func (m *MockFeatureEncoder) Locations() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockFeatureEncoder) HasLocation(location string) bool {
	args := m.Called(location)
	return args.Bool(0)
}

func (m *MockFeatureEncoder) Width() int {
	args := m.Called()
	return args.Int(0)
}

// MockPredictionLogRepo is a mock of PredictionLogRepository.
type MockPredictionLogRepo struct {
	mock.Mock
}

func (m *MockPredictionLogRepo) Append(ctx context.Context, resp *domain.PredictionResponse) error {
	args := m.Called(ctx, resp)
	return args.Error(0)
}

// MockMetricsRecorder is a mock of MetricsRecorder.
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) ObservePrediction(outcome string, duration time.Duration) {
	m.Called(outcome, duration)
}

func (m *MockMetricsRecorder) ObserveUnknownLocation() {
	m.Called()
}

func (m *MockMetricsRecorder) ObserveLogAppendFailure() {
	m.Called()
}

var (
	_ ports.Predictor               = (*MockPredictor)(nil)
	_ ports.FeatureEncoder          = (*MockFeatureEncoder)(nil)
	_ ports.PredictionLogRepository = (*MockPredictionLogRepo)(nil)
	_ ports.MetricsRecorder         = (*MockMetricsRecorder)(nil)
)
