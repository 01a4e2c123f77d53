package dto

import (
	"house-price-service/internal/core/domain"
)

// ============================================================================
// Request DTOs
// ============================================================================

// PredictRequest is the body of POST /predict. Pointer fields let binding tell
// a missing field from a zero value; range checks happen in the domain.
type PredictRequest struct {
	Location  string   `json:"location" binding:"required"`
	TotalSqft *float64 `json:"total_sqft" binding:"required"`
	Bath      *float64 `json:"bath" binding:"required"`
	BHK       *int     `json:"bhk" binding:"required"`
}

// ============================================================================
// Response DTOs
// ============================================================================

// LocationsResponse lists the fitted location vocabulary.
type LocationsResponse struct {
	Locations []string `json:"locations"`
	Total     int      `json:"total"`
}

// ErrorResponse is returned for every non-2xx answer.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// ============================================================================
// Converters
// ============================================================================

func ToPredictionRequest(req *PredictRequest) domain.PredictionRequest {
	out := domain.PredictionRequest{}
	out.Location = req.Location
	if req.TotalSqft != nil {
		out.TotalSqft = *req.TotalSqft
	}
	if req.Bath != nil {
		out.Bath = *req.Bath
	}
	if req.BHK != nil {
		out.BHK = *req.BHK
	}
	return out
}

func ToLocationsResponse(locations []string) LocationsResponse {
	if locations == nil {
		locations = []string{}
	}
	return LocationsResponse{Locations: locations, Total: len(locations)}
}
