package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/career-recommender/internal/ranking"
)

// ScoringConfig tunes the recommendation policy. Zero values keep the
// defaults, so a policy file only needs the settings it changes.
type ScoringConfig struct {
	Matcher        string           `json:"matcher,omitempty" mapstructure:"matcher"`
	FuzzyThreshold float64          `json:"fuzzy_threshold,omitempty" mapstructure:"fuzzy_threshold"`
	InterestMode   string           `json:"interest_mode,omitempty" mapstructure:"interest_mode"`
	Weights        *ranking.Weights `json:"weights,omitempty" mapstructure:"weights"`
	RelevanceFloor float64          `json:"relevance_floor,omitempty" mapstructure:"relevance_floor"`
	MaxResults     int              `json:"max_results,omitempty" mapstructure:"max_results"`
	MinMatchScore  *float64         `json:"min_match_score,omitempty" mapstructure:"min_match_score"`
}

// LoadScoringConfig reads a JSON policy file.
func LoadScoringConfig(path string) (*ScoringConfig, error) {
	if path == "" {
		return nil, fmt.Errorf("scoring config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scoring config %s: %w", path, err)
	}
	var cfg ScoringConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scoring config JSON: %w", err)
	}
	return &cfg, nil
}

// Policy applies the configuration on top of ranking.DefaultPolicy and
// validates the result.
func (c *ScoringConfig) Policy() (ranking.Policy, error) {
	p := ranking.DefaultPolicy()
	if c == nil {
		return p, nil
	}

	mode, err := ranking.ParseInterestMode(c.InterestMode)
	if err != nil {
		return p, fmt.Errorf("config error: %w", err)
	}
	p.InterestMode = mode

	if c.Weights != nil {
		p.Weights = *c.Weights
	}
	if c.RelevanceFloor != 0 {
		p.RelevanceFloor = c.RelevanceFloor
	}
	if c.MaxResults != 0 {
		p.MaxResults = c.MaxResults
	}
	if c.MinMatchScore != nil {
		p.MinMatchScore = *c.MinMatchScore
	}

	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("config error: %w", err)
	}
	return p, nil
}

// NewMatcher returns the configured skill matcher.
func (c *ScoringConfig) NewMatcher() (ranking.Matcher, error) {
	if c == nil {
		return ranking.SubstringMatcher{}, nil
	}
	if c.Matcher == ranking.MatcherFuzzy && c.FuzzyThreshold != 0 {
		if c.FuzzyThreshold < 0 || c.FuzzyThreshold >= 1 {
			return nil, fmt.Errorf("config error: fuzzy_threshold must be within (0, 1), got %v", c.FuzzyThreshold)
		}
		return ranking.NewFuzzyMatcher(c.FuzzyThreshold), nil
	}
	return ranking.NewMatcher(c.Matcher)
}

// MergeWithDefaults returns a copy with unset fields taken from defaults.
// It lets a policy file fill in whatever the environment leaves empty.
func (c ScoringConfig) MergeWithDefaults(defaults ScoringConfig) ScoringConfig {
	result := c
	if result.Matcher == "" {
		result.Matcher = defaults.Matcher
	}
	if result.FuzzyThreshold == 0 {
		result.FuzzyThreshold = defaults.FuzzyThreshold
	}
	if result.InterestMode == "" {
		result.InterestMode = defaults.InterestMode
	}
	if result.Weights == nil {
		result.Weights = defaults.Weights
	}
	if result.RelevanceFloor == 0 {
		result.RelevanceFloor = defaults.RelevanceFloor
	}
	if result.MaxResults == 0 {
		result.MaxResults = defaults.MaxResults
	}
	if result.MinMatchScore == nil {
		result.MinMatchScore = defaults.MinMatchScore
	}
	return result
}
