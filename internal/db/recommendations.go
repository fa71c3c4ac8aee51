package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/career-recommender/internal/types"
)

// SaveRecommendation records that the user saved a career. A second save of
// the same pair returns ErrRecommendationExists.
func (db *DB) SaveRecommendation(ctx context.Context, userID, careerID uuid.UUID) (*types.Recommendation, error) {
	rec := types.Recommendation{UserID: userID, CareerID: careerID}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO recommendations (user_id, career_id, saved)
		 VALUES ($1, $2, TRUE)
		 ON CONFLICT (user_id, career_id) DO NOTHING
		 RETURNING id, saved, created_at`,
		userID, careerID,
	).Scan(&rec.ID, &rec.Saved, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecommendationExists
		}
		if pgErrorCode(err) == foreignKeyViolation {
			return nil, fmt.Errorf("%w: %s", ErrCareerNotFound, careerID)
		}
		return nil, fmt.Errorf("failed to save recommendation: %w", err)
	}
	return &rec, nil
}

// ListSavedRecommendations returns the user's saved careers, newest first.
func (db *DB) ListSavedRecommendations(ctx context.Context, userID uuid.UUID) ([]types.Recommendation, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT r.id, r.user_id, r.career_id, r.saved, r.created_at,
		        c.id, c.title, c.description, COALESCE(c.long_description, ''), c.required_skills,
		        c.salary_range, c.salary_min, c.salary_max, COALESCE(c.industry, ''), c.demand,
		        c.growth_potential, c.created_at, c.updated_at
		 FROM recommendations r
		 JOIN careers c ON c.id = r.career_id
		 WHERE r.user_id = $1 AND r.saved
		 ORDER BY r.created_at DESC, r.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	recs := []types.Recommendation{}
	for rows.Next() {
		var r types.Recommendation
		var c types.Career
		if err := rows.Scan(&r.ID, &r.UserID, &r.CareerID, &r.Saved, &r.CreatedAt,
			&c.ID, &c.Title, &c.Description, &c.LongDescription, &c.RequiredSkills,
			&c.SalaryRange, &c.SalaryMin, &c.SalaryMax, &c.Industry, &c.Demand,
			&c.GrowthPotential, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		r.Career = &c
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendations: %w", err)
	}
	return recs, nil
}

// ClearRecommendations deletes every recommendation of the user in one
// transaction and returns how many were removed.
func (db *DB) ClearRecommendations(ctx context.Context, userID uuid.UUID) (int64, error) {
	var deleted int64
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM recommendations WHERE user_id = $1`, userID)
		if err != nil {
			return fmt.Errorf("failed to clear recommendations: %w", err)
		}
		deleted = result.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
