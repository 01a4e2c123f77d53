package handlers

import (
	"errors"
	"net/http"

	"house-price-service/internal/adapters/primary/http/dto"
	"house-price-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Validation errors
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed", Detail: err.Error()})

	// Prediction errors
	case errors.Is(err, domain.ErrPredictionFailed):
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "prediction failed", Detail: err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error", Detail: err.Error()})
	}
}
