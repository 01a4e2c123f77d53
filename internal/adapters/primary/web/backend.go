package web

import (
	"context"

	"house-price-service/internal/core/domain"
	"house-price-service/internal/core/services"
)

// Backend is what the form needs from a prediction source. apiclient.Client
// satisfies it over HTTP; LocalBackend runs the model in-process.
type Backend interface {
	Predict(ctx context.Context, req domain.PredictionRequest) (*domain.PredictionResponse, error)
	Locations(ctx context.Context) ([]string, error)
	RawMetadata(ctx context.Context) ([]byte, error)
}

type LocalBackend struct {
	svc *services.PredictionService
}

func NewLocalBackend(svc *services.PredictionService) *LocalBackend {
	return &LocalBackend{svc: svc}
}

func (b *LocalBackend) Predict(ctx context.Context, req domain.PredictionRequest) (*domain.PredictionResponse, error) {
	return b.svc.Predict(ctx, req)
}

func (b *LocalBackend) Locations(context.Context) ([]string, error) {
	return b.svc.Locations()
}

func (b *LocalBackend) RawMetadata(context.Context) ([]byte, error) {
	return b.svc.RawMetadata()
}
