package handlers

import (
	"errors"
	"net/http"

	"house-price-service/internal/adapters/primary/http/dto"
	"house-price-service/internal/adapters/primary/http/middleware"
	"house-price-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) Predict(c *gin.Context) {
	var req dto.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed", Detail: err.Error()})
		return
	}

	resp, err := h.predictionSvc.Predict(c.Request.Context(), dto.ToPredictionRequest(&req))
	if err != nil {
		entry := log.WithError(err).WithField("request_id", c.GetString(middleware.RequestIDKey))
		if errors.Is(err, domain.ErrValidation) {
			entry.Warn("predict rejected")
		} else {
			entry.Error("predict failed")
		}
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMetadata writes the metadata document exactly as it is stored on disk.
func (h *Handler) GetMetadata(c *gin.Context) {
	raw, err := h.predictionSvc.RawMetadata()
	if err != nil {
		log.WithError(err).Error("get metadata failed")
		mapDomainError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", raw)
}

func (h *Handler) ListLocations(c *gin.Context) {
	locations, err := h.predictionSvc.Locations()
	if err != nil {
		log.WithError(err).Error("list locations failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLocationsResponse(locations))
}

func (h *Handler) Health(c *gin.Context) {
	health := h.predictionSvc.Health()
	status := http.StatusOK
	if !health.Healthy() {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}
