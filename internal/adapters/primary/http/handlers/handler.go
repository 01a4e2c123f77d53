package handlers

import (
	"house-price-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Handler struct {
	predictionSvc *services.PredictionService
	gatherer      prometheus.Gatherer
}

// New builds the API handler. gatherer may be nil, in which case /metrics is
// not registered.
func New(predictionSvc *services.PredictionService, gatherer prometheus.Gatherer) *Handler {
	return &Handler{
		predictionSvc: predictionSvc,
		gatherer:      gatherer,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	// Prediction
	r.POST("/predict", h.Predict)

	// Model information
	r.GET("/metadata", h.GetMetadata)
	r.GET("/locations", h.ListLocations)
	r.GET("/health", h.Health)

	// Metrics
	if h.gatherer != nil {
		r.GET("/metrics", h.Metrics)
	}
}
