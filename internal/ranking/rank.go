package ranking

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jonathan/career-recommender/internal/types"
	"go.uber.org/zap"
)

// ErrCatalogUnavailable is returned when the catalog cannot be read.
var ErrCatalogUnavailable = errors.New("career catalog unavailable")

// CatalogSource returns the full career catalog in a stable order.
type CatalogSource interface {
	ListCareers(ctx context.Context) ([]types.Career, error)
}

// Engine scores the catalog for a query. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	catalog CatalogSource
	policy  Policy
	matcher Matcher
	logger  *zap.Logger
}

// NewEngine validates policy and returns an Engine. A nil matcher selects
// substring matching; a nil logger discards logs.
func NewEngine(catalog CatalogSource, policy Policy, matcher Matcher, logger *zap.Logger) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog source is required")
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ranking policy: %w", err)
	}
	if matcher == nil {
		matcher = SubstringMatcher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{catalog: catalog, policy: policy, matcher: matcher, logger: logger}, nil
}

// Policy returns the engine's selection policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Recommend reads the catalog once and returns between 1 and MaxResults
// careers sorted by descending total score. When nothing matches it returns
// only the fallback career.
func (e *Engine) Recommend(ctx context.Context, q types.Query) ([]types.ScoredCareer, error) {
	careers, err := e.catalog.ListCareers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	results := Select(careers, q, e.policy, e.matcher)
	e.logger.Debug("scored catalog",
		zap.Int("catalog_size", len(careers)),
		zap.Int("skills", len(q.Skills)),
		zap.Int("interests", len(q.Interests)),
		zap.Int("results", len(results)),
		zap.Bool("fallback", len(results) == 1 && results[0].Fallback),
	)
	return results, nil
}

// Select scores careers and applies the selection policy. Ties keep catalog order.
func Select(careers []types.Career, q types.Query, p Policy, matcher Matcher) []types.ScoredCareer {
	scored := make([]types.ScoredCareer, 0, len(careers))
	bestMatch := 0.0
	for i := range careers {
		sc := scoreCareer(&careers[i], q, p, matcher)
		m := matchScore(p.Weights, sc.SkillScore, sc.InterestScore)
		if m <= 0 {
			continue
		}
		if m > bestMatch {
			bestMatch = m
		}
		scored = append(scored, sc)
	}

	if len(scored) == 0 || bestMatch < p.MinMatchScore {
		return []types.ScoredCareer{fallback(p)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].TotalScore > scored[j].TotalScore
	})

	top := scored[0].TotalScore
	limit := p.MaxResults
	results := make([]types.ScoredCareer, 0, limit)
	results = append(results, scored[0])
	for _, sc := range scored[1:] {
		if len(results) >= limit || sc.TotalScore < top*p.RelevanceFloor {
			break
		}
		results = append(results, sc)
	}
	return results
}

// fallback returns the configured fallback career flagged with the sentinel score.
func fallback(p Policy) types.ScoredCareer {
	career := p.Fallback
	salaryMin, salaryMax := salaryBounds(&career)
	sc := toScoredCareer(&career, salaryMin, salaryMax)
	sc.TotalScore = 0
	sc.Fallback = true
	return sc
}
