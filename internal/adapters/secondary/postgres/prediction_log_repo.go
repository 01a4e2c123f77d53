package postgres

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"

	"house-price-service/internal/core/domain"
	ports "house-price-service/internal/core/ports/output"
)

// execer is the subset of *pgxpool.Pool the repository needs.
type execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

const createPredictionLogTable = `
	CREATE TABLE IF NOT EXISTS prediction_log (
		id                    UUID PRIMARY KEY,
		created_at            TIMESTAMPTZ NOT NULL,
		location              TEXT NOT NULL,
		total_sqft            DOUBLE PRECISION NOT NULL,
		bath                  DOUBLE PRECISION NOT NULL,
		bhk                   INTEGER NOT NULL,
		predicted_price_lakhs DOUBLE PRECISION NOT NULL,
		model_name            TEXT NOT NULL,
		payload               JSONB NOT NULL
	)
`

type predictionLogRepo struct {
	db execer
}

// NewPredictionLogRepository mirrors prediction responses into the
// prediction_log table. db is normally a *pgxpool.Pool.
func NewPredictionLogRepository(db execer) ports.PredictionLogRepository {
	return &predictionLogRepo{db: db}
}

// EnsurePredictionLogSchema creates the prediction_log table if it is missing.
func EnsurePredictionLogSchema(ctx context.Context, db execer) error {
	if _, err := db.Exec(ctx, createPredictionLogTable); err != nil {
		return fmt.Errorf("create prediction_log table: %w", err)
	}
	return nil
}

func (r *predictionLogRepo) Append(ctx context.Context, resp *domain.PredictionResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal prediction payload: %w", err)
	}

	query := `
		INSERT INTO prediction_log
			(id, created_at, location, total_sqft, bath, bhk, predicted_price_lakhs, model_name, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.Exec(ctx, query,
		resp.PredictionID, resp.Timestamp,
		resp.Input.Location, resp.Input.TotalSqft, resp.Input.Bath, resp.Input.BHK,
		resp.PredictedPriceLakhs, resp.ModelMetadata.ModelName, payload,
	)
	if err != nil {
		return fmt.Errorf("insert prediction log: %w", err)
	}
	return nil
}
