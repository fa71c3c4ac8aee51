package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/career-recommender/internal/db"
	"github.com/jonathan/career-recommender/internal/parsing"
	"github.com/jonathan/career-recommender/internal/types"
	"go.uber.org/zap"
)

// DefaultIndustry is assigned to titles with no known industry.
const DefaultIndustry = "General"

var titleIndustries = map[string]string{
	"Lawyer":            "Legal",
	"Surgeon":           "Healthcare",
	"Software Engineer": "Technology",
	"Architect":         "Design & Construction",
	"Economist":         "Finance",
	"Civil Engineer":    "Engineering",
	"Data Analyst":      "Technology",
	"Psychologist":      "Healthcare",
	"Accountant":        "Finance",
}

// IndustryFor maps a career title to its industry.
func IndustryFor(title string) string {
	if industry, ok := titleIndustries[title]; ok {
		return industry
	}
	return DefaultIndustry
}

var patchValidator = validator.New()

// Backfill computes the patch that fills a career's missing derived fields:
// salary bounds parsed from the salary range, and the industry. ok is false
// when nothing is missing or derivable.
func Backfill(c *types.Career) (patch types.CareerPatch, ok bool) {
	if c.SalaryMin == nil || c.SalaryMax == nil {
		lo, hi := parsing.ParseSalaryRange(c.SalaryRange)
		if c.SalaryMin == nil && lo != nil && *lo > 0 {
			patch.SalaryMin = lo
		}
		if c.SalaryMax == nil && hi != nil && *hi > 0 {
			patch.SalaryMax = hi
		}
	}
	if c.Industry == "" {
		industry := IndustryFor(c.Title)
		patch.Industry = &industry
	}
	return patch, !patch.IsEmpty()
}

// Store is the persistence the maintenance jobs need.
type Store interface {
	ListCareers(ctx context.Context) ([]types.Career, error)
	UpsertCareer(ctx context.Context, c *types.Career) (uuid.UUID, error)
	ApplyCareerPatch(ctx context.Context, id uuid.UUID, patch types.CareerPatch) error
	UpdateLongDescription(ctx context.Context, title, text string) error
}

// Report summarizes one maintenance run.
type Report struct {
	Scanned int
	Updated int
	Failed  int
}

// Maintainer applies catalog maintenance through a Store.
type Maintainer struct {
	store  Store
	logger *zap.Logger
}

// NewMaintainer returns a Maintainer. A nil logger discards logs.
func NewMaintainer(store Store, logger *zap.Logger) *Maintainer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Maintainer{store: store, logger: logger}
}

// Run backfills every career with missing derived fields. A failing career
// does not stop the run; all failures are returned together.
func (m *Maintainer) Run(ctx context.Context) (Report, error) {
	careers, err := m.store.ListCareers(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list careers: %w", err)
	}

	report := Report{Scanned: len(careers)}
	var errs []error
	for i := range careers {
		c := &careers[i]
		patch, ok := Backfill(c)
		if !ok {
			continue
		}
		if err := patchValidator.Struct(patch); err != nil {
			report.Failed++
			errs = append(errs, fmt.Errorf("career %q: invalid patch: %w", c.Title, err))
			continue
		}
		if err := m.store.ApplyCareerPatch(ctx, c.ID, patch); err != nil {
			report.Failed++
			errs = append(errs, fmt.Errorf("career %q: %w", c.Title, err))
			continue
		}
		report.Updated++
		m.logger.Info("backfilled career", zap.String("title", c.Title))
	}

	m.logger.Info("catalog backfill complete",
		zap.Int("scanned", report.Scanned),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed),
	)
	return report, errors.Join(errs...)
}

// Import upserts every career by title.
func (m *Maintainer) Import(ctx context.Context, careers []types.Career) (Report, error) {
	report := Report{Scanned: len(careers)}
	for i := range careers {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if _, err := m.store.UpsertCareer(ctx, &careers[i]); err != nil {
			return report, err
		}
		report.Updated++
	}
	m.logger.Info("catalog import complete", zap.Int("careers", report.Updated))
	return report, nil
}

// ApplyLongDescriptions sets long descriptions by title. Unknown titles are
// logged and counted as failures without stopping the run.
func (m *Maintainer) ApplyLongDescriptions(ctx context.Context, entries []LongDescription) (Report, error) {
	report := Report{Scanned: len(entries)}
	for _, e := range entries {
		err := m.store.UpdateLongDescription(ctx, e.Title, e.LongDescription)
		if err != nil {
			if errors.Is(err, db.ErrCareerNotFound) {
				report.Failed++
				m.logger.Warn("career not found", zap.String("title", e.Title))
				continue
			}
			return report, err
		}
		report.Updated++
	}
	m.logger.Info("long descriptions applied",
		zap.Int("updated", report.Updated),
		zap.Int("missing", report.Failed),
	)
	return report, nil
}
