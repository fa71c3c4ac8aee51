// Package catalog loads career catalog files and keeps stored careers complete.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/career-recommender/internal/parsing"
	"github.com/jonathan/career-recommender/internal/schemas"
	"github.com/jonathan/career-recommender/internal/types"
)

//go:embed seed.json
var seedCatalog []byte

// LongDescription pairs a career title with its long description.
type LongDescription struct {
	Title           string `json:"title"`
	LongDescription string `json:"longDescription"`
}

// LoadFile reads and validates a JSON catalog file.
func LoadFile(path string) ([]types.Career, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	careers, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return careers, nil
}

// Seed returns the built-in starter catalog.
func Seed() []types.Career {
	careers, err := Parse(seedCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded seed catalog is invalid: %v", err))
	}
	return careers
}

// Parse validates data against the catalog schema and decodes it. Missing
// IDs are derived from titles and missing salary bounds from the salary range.
func Parse(data []byte) ([]types.Career, error) {
	if err := schemas.Validate(schemas.CareerCatalog, data); err != nil {
		return nil, err
	}

	var careers []types.Career
	if err := json.Unmarshal(data, &careers); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	seen := make(map[string]bool, len(careers))
	for i := range careers {
		c := &careers[i]
		if seen[c.Title] {
			return nil, fmt.Errorf("duplicate career title %q", c.Title)
		}
		seen[c.Title] = true

		if c.ID == uuid.Nil {
			c.ID = types.CareerID(c.Title)
		}
		if c.RequiredSkills == nil {
			c.RequiredSkills = []string{}
		}
		if c.SalaryMin == nil || c.SalaryMax == nil {
			c.SalaryMin, c.SalaryMax = parsing.ParseSalaryRange(c.SalaryRange)
		}
	}
	return careers, nil
}

// LoadLongDescriptions reads and validates a long description file.
func LoadLongDescriptions(path string) ([]LongDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read long descriptions %s: %w", path, err)
	}
	if err := schemas.Validate(schemas.LongDescriptions, data); err != nil {
		return nil, fmt.Errorf("long descriptions %s: %w", path, err)
	}

	var entries []LongDescription
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode long descriptions: %w", err)
	}
	return entries, nil
}

// FileSource serves a catalog held in memory, for scoring without a database.
type FileSource struct {
	careers []types.Career
}

// NewFileSource wraps an already loaded catalog.
func NewFileSource(careers []types.Career) *FileSource {
	return &FileSource{careers: careers}
}

// ListCareers returns a copy of the catalog in file order.
func (s *FileSource) ListCareers(_ context.Context) ([]types.Career, error) {
	out := make([]types.Career, len(s.careers))
	copy(out, s.careers)
	return out, nil
}
