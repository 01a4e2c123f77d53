package web

import (
	"fmt"
	"strconv"
	"strings"

	"house-price-service/internal/core/domain"
)

const (
	minSqft = 300.0
	maxSqft = 10000.0
	minBHK  = 1
	maxBHK  = 10
	minBath = 1
	maxBath = 5
)

// formInput holds the raw submitted values so the page can echo them back.
type formInput struct {
	Location  string
	TotalSqft string
	BHK       string
	Bath      string
}

func defaultForm() formInput {
	return formInput{TotalSqft: "1000", BHK: "2", Bath: "2"}
}

// parse checks the form bounds and returns the request to send, or one
// message per offending field.
func (f formInput) parse() (domain.PredictionRequest, []string) {
	var problems []string
	req := domain.PredictionRequest{HouseAttributes: domain.HouseAttributes{
		Location: strings.TrimSpace(f.Location),
	}}

	if req.Location == "" {
		problems = append(problems, "Please select a location.")
	}

	sqft, err := strconv.ParseFloat(strings.TrimSpace(f.TotalSqft), 64)
	switch {
	case err != nil:
		problems = append(problems, "Total sqft must be a number.")
	case sqft < minSqft || sqft > maxSqft:
		problems = append(problems, fmt.Sprintf("Total sqft must be between %g and %g.", minSqft, maxSqft))
	default:
		req.TotalSqft = sqft
	}

	bhk, err := strconv.Atoi(strings.TrimSpace(f.BHK))
	switch {
	case err != nil:
		problems = append(problems, "BHK must be a whole number.")
	case bhk < minBHK || bhk > maxBHK:
		problems = append(problems, fmt.Sprintf("BHK must be between %d and %d.", minBHK, maxBHK))
	default:
		req.BHK = bhk
	}

	bath, err := strconv.Atoi(strings.TrimSpace(f.Bath))
	switch {
	case err != nil:
		problems = append(problems, "Bathrooms must be a whole number.")
	case bath < minBath || bath > maxBath:
		problems = append(problems, fmt.Sprintf("Bathrooms must be between %d and %d.", minBath, maxBath))
	default:
		req.Bath = float64(bath)
	}

	return req, problems
}
