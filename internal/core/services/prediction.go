package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"house-price-service/internal/core/domain"
	ports "house-price-service/internal/core/ports/output"
)

// intervalRMSEMultiplier gives the half-width of the ~95% prediction interval.
const intervalRMSEMultiplier = 2

type PredictionService struct {
	model         ports.Predictor
	encoder       ports.FeatureEncoder
	metadata      *domain.ModelMetadata
	rawMetadata   []byte
	predictionLog ports.PredictionLogRepository
	metrics       ports.MetricsRecorder
	now           func() time.Time
}

// NewPredictionService wires the loaded artifacts into a service. predictionLog
// and metrics may be nil.
func NewPredictionService(
	model ports.Predictor,
	encoder ports.FeatureEncoder,
	metadata *domain.ModelMetadata,
	rawMetadata []byte,
	predictionLog ports.PredictionLogRepository,
	metrics ports.MetricsRecorder,
) *PredictionService {
	raw := make([]byte, len(rawMetadata))
	copy(raw, rawMetadata)
	return &PredictionService{
		model:         model,
		encoder:       encoder,
		metadata:      metadata,
		rawMetadata:   raw,
		predictionLog: predictionLog,
		metrics:       metrics,
		now:           time.Now,
	}
}

func (s *PredictionService) Predict(ctx context.Context, req domain.PredictionRequest) (*domain.PredictionResponse, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		s.observe(ports.OutcomeValidationError, start)
		return nil, err
	}
	if s.model == nil || s.encoder == nil {
		s.observe(ports.OutcomePredictionError, start)
		return nil, fmt.Errorf("%w: %w", domain.ErrPredictionFailed, domain.ErrNotLoaded)
	}

	raw, err := s.score(req.HouseAttributes)
	if err != nil {
		s.observe(ports.OutcomePredictionError, start)
		return nil, fmt.Errorf("%w: %w", domain.ErrPredictionFailed, err)
	}

	if !s.encoder.HasLocation(req.Location) {
		log.WithField("location", req.Location).Debug("location not in fitted vocabulary, using zero encoding")
		if s.metrics != nil {
			s.metrics.ObserveUnknownLocation()
		}
	}

	resp := &domain.PredictionResponse{
		PredictionID:        uuid.New(),
		PredictedPriceLakhs: round2(raw),
		Input:               req.HouseAttributes,
		ModelMetadata:       s.metadata.ResponseBlock(),
		Timestamp:           s.now().UTC(),
	}
	if rmse := s.metadata.RMSE(); rmse != nil {
		interval := round2(intervalRMSEMultiplier * *rmse)
		resp.PredictionInterval95 = &interval
	}

	s.appendLog(ctx, resp)
	s.observe(ports.OutcomeSuccess, start)
	return resp, nil
}

// score runs encoder and model, turning a panic in either into an error so a
// single bad request cannot take the process down.
func (s *PredictionService) score(attrs domain.HouseAttributes) (y float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during scoring: %v", r)
		}
	}()

	features, err := s.encoder.Encode(attrs)
	if err != nil {
		return 0, fmt.Errorf("transform input: %w", err)
	}
	y, err = s.model.Predict(features)
	if err != nil {
		return 0, fmt.Errorf("model predict: %w", err)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, domain.ErrNonFinite
	}
	return y, nil
}

// appendLog is best-effort: the prediction is already computed, so a failed
// append is logged and counted but never returned.
func (s *PredictionService) appendLog(ctx context.Context, resp *domain.PredictionResponse) {
	if s.predictionLog == nil {
		return
	}
	if err := s.predictionLog.Append(ctx, resp); err != nil {
		log.WithError(err).WithField("prediction_id", resp.PredictionID).Warn("append prediction log failed")
		if s.metrics != nil {
			s.metrics.ObserveLogAppendFailure()
		}
	}
}

func (s *PredictionService) observe(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObservePrediction(outcome, time.Since(start))
	}
}

// RawMetadata returns a copy of the metadata document as read from disk.
func (s *PredictionService) RawMetadata() ([]byte, error) {
	if s.metadata == nil {
		return nil, domain.ErrNotLoaded
	}
	out := make([]byte, len(s.rawMetadata))
	copy(out, s.rawMetadata)
	return out, nil
}

func (s *PredictionService) Locations() ([]string, error) {
	if s.encoder == nil {
		return nil, domain.ErrNotLoaded
	}
	return s.encoder.Locations(), nil
}

func (s *PredictionService) Health() domain.HealthStatus {
	h := domain.HealthStatus{
		ModelLoaded:        s.model != nil,
		PreprocessorLoaded: s.encoder != nil,
		MetadataLoaded:     s.metadata != nil,
	}
	h.Status = domain.HealthStatusDegraded
	if h.Healthy() {
		h.Status = domain.HealthStatusHealthy
	}
	return h
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
