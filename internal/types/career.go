// Package types provides type definitions for structured data used throughout the career recommender.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Career is a catalog entry. Optional numeric fields are nil when absent and
// must never be read as zero.
type Career struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	LongDescription string    `json:"longDescription,omitempty"`
	RequiredSkills  []string  `json:"requiredSkills"`
	SalaryRange     string    `json:"salaryRange"`
	SalaryMin       *int      `json:"salaryMin,omitempty"`
	SalaryMax       *int      `json:"salaryMax,omitempty"`
	Industry        string    `json:"industry,omitempty"`
	Demand          *int      `json:"demand,omitempty"`
	GrowthPotential *int      `json:"growthPotential,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
}

// careerNamespace scopes name-based career IDs.
var careerNamespace = uuid.MustParse("6f1c2b4e-8d0a-4c1e-9a57-3b2d7e9f4a10")

// CareerID derives a stable ID from a career title, so file-based catalogs and
// the configured fallback keep the same ID across runs.
func CareerID(title string) uuid.UUID {
	return uuid.NewSHA1(careerNamespace, []byte(strings.ToLower(strings.TrimSpace(title))))
}

// ScoredCareer is a Career annotated with its relevance score for one request.
// It is never persisted.
type ScoredCareer struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	RequiredSkills  []string  `json:"requiredSkills"`
	Industry        string    `json:"industry"`
	Demand          *int      `json:"demand"`
	GrowthPotential *int      `json:"growthPotential"`
	SalaryMin       *int      `json:"salaryMin"`
	SalaryMax       *int      `json:"salaryMax"`
	TotalScore      float64   `json:"totalScore"`

	SkillScore    int  `json:"skillScore"`
	InterestScore int  `json:"interestScore"`
	Fallback      bool `json:"fallback,omitempty"`
}

// CareerPatch is a typed partial update for a career. Nil fields are left untouched.
type CareerPatch struct {
	SalaryMin       *int    `json:"salaryMin,omitempty"`
	SalaryMax       *int    `json:"salaryMax,omitempty"`
	Industry        *string `json:"industry,omitempty"`
	GrowthPotential *int    `json:"growthPotential,omitempty" validate:"omitempty,min=1,max=10"`
	Demand          *int    `json:"demand,omitempty" validate:"omitempty,min=1,max=10"`
	LongDescription *string `json:"longDescription,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p CareerPatch) IsEmpty() bool {
	return p.SalaryMin == nil && p.SalaryMax == nil && p.Industry == nil &&
		p.GrowthPotential == nil && p.Demand == nil && p.LongDescription == nil
}

// Query holds normalized lowercase skill and interest terms.
type Query struct {
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}

// ConversationContext is the per-session state carried between chat turns.
type ConversationContext struct {
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}

// RecommendResponse is returned by the direct recommendation endpoint.
type RecommendResponse struct {
	Recommendations []ScoredCareer `json:"recommendations"`
}
