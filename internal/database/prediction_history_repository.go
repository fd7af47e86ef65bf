package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/preventia/risk-api/internal/domain"
)

// PredictionHistoryRepository handles database operations for prediction
// history.
type PredictionHistoryRepository struct {
	db *sqlx.DB
}

// NewPredictionHistoryRepository creates a new prediction history repository.
func NewPredictionHistoryRepository(db *sqlx.DB) *PredictionHistoryRepository {
	return &PredictionHistoryRepository{db: db}
}

// DiseaseStats aggregates history for one disease.
type DiseaseStats struct {
	Count          int            `json:"count"`
	TierCounts     map[string]int `json:"tier_counts"`
	AvgProbability float64        `json:"avg_probability"`
}

// PredictionStats represents overall prediction statistics.
type PredictionStats struct {
	TotalPredictions    int                     `json:"total_predictions"`
	AvgProcessingTimeMs float64                 `json:"avg_processing_time_ms"`
	ByDisease           map[string]DiseaseStats `json:"by_disease"`
}

// Create inserts a new prediction history record.
func (r *PredictionHistoryRepository) Create(ctx context.Context, record *domain.PredictionRecord) error {
	if record.PredictedAt.IsZero() {
		record.PredictedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO prediction_history (
			disease, probability, risk_tier, advice_source,
			processing_time_ms, predicted_at
		)
		VALUES (?, ?, ?, ?, ?, ?)
	`)

	if _, err := r.db.ExecContext(
		ctx,
		query,
		record.Disease,
		record.Probability,
		record.Tier,
		record.AdviceSource,
		record.ProcessingTimeMs,
		record.PredictedAt,
	); err != nil {
		return fmt.Errorf("failed to create prediction history: %w", err)
	}
	return nil
}

// tierRow is one aggregation row from the stats query.
type tierRow struct {
	Disease        string  `db:"disease"`
	Tier           string  `db:"risk_tier"`
	Count          int     `db:"count"`
	AvgProbability float64 `db:"avg_probability"`
}

// GetStats aggregates the history into totals and a per-disease tier
// distribution.
func (r *PredictionHistoryRepository) GetStats(ctx context.Context) (*PredictionStats, error) {
	stats := &PredictionStats{ByDisease: make(map[string]DiseaseStats)}

	totalsQuery := `
		SELECT COUNT(*) AS total, COALESCE(AVG(processing_time_ms), 0) AS avg_ms
		FROM prediction_history
	`
	var totals struct {
		Total int     `db:"total"`
		AvgMs float64 `db:"avg_ms"`
	}
	if err := r.db.GetContext(ctx, &totals, totalsQuery); err != nil {
		return nil, fmt.Errorf("failed to query history totals: %w", err)
	}
	stats.TotalPredictions = totals.Total
	stats.AvgProcessingTimeMs = totals.AvgMs

	tierQuery := `
		SELECT disease, risk_tier, COUNT(*) AS count, AVG(probability) AS avg_probability
		FROM prediction_history
		GROUP BY disease, risk_tier
	`
	var rows []tierRow
	if err := r.db.SelectContext(ctx, &rows, tierQuery); err != nil {
		return nil, fmt.Errorf("failed to query tier distribution: %w", err)
	}

	for _, row := range rows {
		d, ok := stats.ByDisease[row.Disease]
		if !ok {
			d = DiseaseStats{TierCounts: make(map[string]int)}
		}
		prevCount := d.Count
		d.TierCounts[row.Tier] = row.Count
		d.Count += row.Count
		// Weighted running average across the tier rows.
		d.AvgProbability = (d.AvgProbability*float64(prevCount) + row.AvgProbability*float64(row.Count)) / float64(d.Count)
		stats.ByDisease[row.Disease] = d
	}
	return stats, nil
}

// RecentByDisease returns the most recent records for one disease, newest
// first.
func (r *PredictionHistoryRepository) RecentByDisease(ctx context.Context, disease string, limit int) ([]domain.PredictionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := r.db.Rebind(`
		SELECT id, disease, probability, risk_tier, advice_source,
		       processing_time_ms, predicted_at
		FROM prediction_history
		WHERE disease = ?
		ORDER BY predicted_at DESC
		LIMIT ?
	`)

	var records []domain.PredictionRecord
	if err := r.db.SelectContext(ctx, &records, query, disease, limit); err != nil {
		return nil, fmt.Errorf("failed to query recent predictions: %w", err)
	}
	return records, nil
}
