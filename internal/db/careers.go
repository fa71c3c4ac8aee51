package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/career-recommender/internal/types"
)

const careerColumns = `id, title, description, COALESCE(long_description, ''), required_skills,
	salary_range, salary_min, salary_max, COALESCE(industry, ''), demand, growth_potential,
	created_at, updated_at`

func scanCareer(row pgx.Row) (*types.Career, error) {
	var c types.Career
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.LongDescription, &c.RequiredSkills,
		&c.SalaryRange, &c.SalaryMin, &c.SalaryMax, &c.Industry, &c.Demand, &c.GrowthPotential,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.RequiredSkills == nil {
		c.RequiredSkills = []string{}
	}
	return &c, nil
}

// ListCareers returns the whole catalog in insertion order. The order is
// stable so equal scores rank the same way on every request.
func (db *DB) ListCareers(ctx context.Context) ([]types.Career, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+careerColumns+` FROM careers ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list careers: %w", err)
	}
	defer rows.Close()

	careers := []types.Career{}
	for rows.Next() {
		c, err := scanCareer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan career: %w", err)
		}
		careers = append(careers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate careers: %w", err)
	}
	return careers, nil
}

// GetCareer retrieves a career by ID. It returns nil, nil when absent.
func (db *DB) GetCareer(ctx context.Context, id uuid.UUID) (*types.Career, error) {
	c, err := scanCareer(db.pool.QueryRow(ctx,
		`SELECT `+careerColumns+` FROM careers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get career: %w", err)
	}
	return c, nil
}

// UpsertCareer inserts a career or updates the existing one with the same
// title. The stored ID is kept on update and returned.
func (db *DB) UpsertCareer(ctx context.Context, c *types.Career) (uuid.UUID, error) {
	id := c.ID
	if id == uuid.Nil {
		id = types.CareerID(c.Title)
	}
	skills := c.RequiredSkills
	if skills == nil {
		skills = []string{}
	}

	var stored uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO careers (id, title, description, long_description, required_skills,
		                      salary_range, salary_min, salary_max, industry, demand, growth_potential)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, NULLIF($9, ''), $10, $11)
		 ON CONFLICT (title) DO UPDATE SET
		     description = EXCLUDED.description,
		     long_description = COALESCE(EXCLUDED.long_description, careers.long_description),
		     required_skills = EXCLUDED.required_skills,
		     salary_range = EXCLUDED.salary_range,
		     salary_min = COALESCE(EXCLUDED.salary_min, careers.salary_min),
		     salary_max = COALESCE(EXCLUDED.salary_max, careers.salary_max),
		     industry = COALESCE(EXCLUDED.industry, careers.industry),
		     demand = EXCLUDED.demand,
		     growth_potential = EXCLUDED.growth_potential,
		     updated_at = NOW()
		 RETURNING id`,
		id, c.Title, c.Description, c.LongDescription, skills,
		c.SalaryRange, c.SalaryMin, c.SalaryMax, c.Industry, c.Demand, c.GrowthPotential,
	).Scan(&stored)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert career %q: %w", c.Title, err)
	}
	return stored, nil
}

// ApplyCareerPatch updates only the fields set in patch.
func (db *DB) ApplyCareerPatch(ctx context.Context, id uuid.UUID, patch types.CareerPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	query := `UPDATE careers SET updated_at = NOW()`
	args := []any{}
	argNum := 1

	set := func(column string, value any) {
		query += fmt.Sprintf(", %s = $%d", column, argNum)
		args = append(args, value)
		argNum++
	}
	if patch.SalaryMin != nil {
		set("salary_min", *patch.SalaryMin)
	}
	if patch.SalaryMax != nil {
		set("salary_max", *patch.SalaryMax)
	}
	if patch.Industry != nil {
		set("industry", *patch.Industry)
	}
	if patch.GrowthPotential != nil {
		set("growth_potential", *patch.GrowthPotential)
	}
	if patch.Demand != nil {
		set("demand", *patch.Demand)
	}
	if patch.LongDescription != nil {
		set("long_description", *patch.LongDescription)
	}

	query += fmt.Sprintf(" WHERE id = $%d", argNum)
	args = append(args, id)

	result, err := db.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update career %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrCareerNotFound, id)
	}
	return nil
}

// UpdateLongDescription sets the long description of the career with the
// given title.
func (db *DB) UpdateLongDescription(ctx context.Context, title, text string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE careers SET long_description = $1, updated_at = NOW() WHERE title = $2`,
		text, title,
	)
	if err != nil {
		return fmt.Errorf("failed to update long description for %q: %w", title, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrCareerNotFound, title)
	}
	return nil
}
