package ranking

import (
	"fmt"

	"github.com/jonathan/career-recommender/internal/types"
)

// InterestMode selects how interest terms are counted against career text.
type InterestMode string

const (
	// InterestModeBoolean counts each interest term at most once.
	InterestModeBoolean InterestMode = "boolean"
	// InterestModeFrequency counts every occurrence of each term.
	InterestModeFrequency InterestMode = "frequency"
)

// ParseInterestMode converts a configuration value to an InterestMode.
func ParseInterestMode(s string) (InterestMode, error) {
	switch InterestMode(s) {
	case "", InterestModeBoolean:
		return InterestModeBoolean, nil
	case InterestModeFrequency:
		return InterestModeFrequency, nil
	}
	return "", fmt.Errorf("unknown interest mode %q", s)
}

// Weights are the coefficients of the total score. Skill matches weigh most,
// then interests, then demand and growth, then salary.
type Weights struct {
	Skill    float64 `json:"skill"`
	Interest float64 `json:"interest"`
	Demand   float64 `json:"demand"`
	Growth   float64 `json:"growth"`
	Salary   float64 `json:"salary"`
}

// DefaultWeights returns the production weighting.
func DefaultWeights() Weights {
	return Weights{
		Skill:    3,
		Interest: 2,
		Demand:   0.5,
		Growth:   0.5,
		Salary:   0.05,
	}
}

// Neutral values used when a career field is absent.
const (
	neutralRating       = 5
	neutralSalaryFactor = 5.0
	salaryFactorDivisor = 10000.0
)

// Policy holds the tunable selection constants.
type Policy struct {
	Weights        Weights
	InterestMode   InterestMode
	RelevanceFloor float64 // fraction of the top total score an extra result must reach
	MaxResults     int
	MinMatchScore  float64 // weighted skill+interest score below which the fallback is returned
	Fallback       types.Career
}

// DefaultFallbackCareer is returned when nothing in the catalog matches.
func DefaultFallbackCareer() types.Career {
	demand := 8
	growth := 7
	return types.Career{
		ID:              types.CareerID("Software Engineer"),
		Title:           "Software Engineer",
		Description:     "Develops and maintains software systems.",
		RequiredSkills:  []string{"JavaScript", "React", "Node.js"},
		SalaryRange:     "$60,000 - $100,000",
		Industry:        "Technology",
		Demand:          &demand,
		GrowthPotential: &growth,
	}
}

// DefaultPolicy returns the production selection policy.
func DefaultPolicy() Policy {
	return Policy{
		Weights:        DefaultWeights(),
		InterestMode:   InterestModeBoolean,
		RelevanceFloor: 0.8,
		MaxResults:     3,
		MinMatchScore:  1,
		Fallback:       DefaultFallbackCareer(),
	}
}

// Validate reports the first inconsistent setting.
func (p Policy) Validate() error {
	w := p.Weights
	if w.Skill < 0 || w.Interest < 0 || w.Demand < 0 || w.Growth < 0 || w.Salary < 0 {
		return fmt.Errorf("weights must be non-negative: %+v", w)
	}
	if w.Skill == 0 && w.Interest == 0 {
		return fmt.Errorf("at least one of skill or interest weight must be positive")
	}
	if p.RelevanceFloor < 0 || p.RelevanceFloor > 1 {
		return fmt.Errorf("relevance floor must be within [0, 1], got %v", p.RelevanceFloor)
	}
	if p.MaxResults < 1 {
		return fmt.Errorf("max results must be at least 1, got %d", p.MaxResults)
	}
	if p.MinMatchScore < 0 {
		return fmt.Errorf("min match score must be non-negative, got %v", p.MinMatchScore)
	}
	if _, err := ParseInterestMode(string(p.InterestMode)); err != nil {
		return err
	}
	if p.Fallback.Title == "" {
		return fmt.Errorf("fallback career must have a title")
	}
	return nil
}
