package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"house-price-service/internal/core/domain"
)

func TestToPredictionRequest(t *testing.T) {
	sqft, bath, bhk := 1200.0, 2.0, 3
	req := &PredictRequest{Location: "Whitefield", TotalSqft: &sqft, Bath: &bath, BHK: &bhk}

	out := ToPredictionRequest(req)

	assert.Equal(t, domain.HouseAttributes{Location: "Whitefield", TotalSqft: 1200, Bath: 2, BHK: 3}, out.HouseAttributes)
}

func TestToPredictionRequest_NilFieldsAreZero(t *testing.T) {
	out := ToPredictionRequest(&PredictRequest{Location: "x"})

	assert.Equal(t, 0.0, out.TotalSqft)
	assert.Equal(t, 0, out.BHK)
	assert.ErrorIs(t, out.Validate(), domain.ErrInvalidTotalSqft)
}

func TestToLocationsResponse(t *testing.T) {
	resp := ToLocationsResponse(nil)
	assert.Equal(t, []string{}, resp.Locations)
	assert.Equal(t, 0, resp.Total)

	resp = ToLocationsResponse([]string{"a", "b"})
	assert.Equal(t, 2, resp.Total)
}
