package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/career-recommender/internal/catalog"
	"github.com/jonathan/career-recommender/internal/parsing"
	"github.com/jonathan/career-recommender/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	recommendCatalogFile string
	recommendSkills      []string
	recommendInterests   []string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank a career catalog file against skills and interests",
	Long: `Scores every career in a JSON catalog file and prints the recommendations as JSON.
Without --catalog the built-in seed catalog is used. No database is needed.`,
	Example: `  career_agent recommend --skills "patient care,medical knowledge" --interests heart`,
	RunE:    runRecommend,
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendCatalogFile, "catalog", "c", "", "Path to a career catalog JSON file (default: seed catalog)")
	recommendCmd.Flags().StringSliceVarP(&recommendSkills, "skills", "s", nil, "Comma-separated skills (required)")
	recommendCmd.Flags().StringSliceVarP(&recommendInterests, "interests", "i", nil, "Comma-separated interests")

	if err := recommendCmd.MarkFlagRequired("skills"); err != nil {
		panic(fmt.Sprintf("failed to mark skills flag as required: %v", err))
	}

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(v)
	if err != nil {
		return err
	}
	log, err := newLogger(settings)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	careers := catalog.Seed()
	if recommendCatalogFile != "" {
		if careers, err = catalog.LoadFile(recommendCatalogFile); err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
	}

	query := types.Query{
		Skills:    parsing.NormalizeTerms(recommendSkills),
		Interests: parsing.NormalizeTerms(recommendInterests),
	}
	return writeRecommendations(cmd.Context(), cmd.OutOrStdout(), settings, careers, query, log)
}

// writeRecommendations ranks careers for query and writes the response as
// indented JSON.
func writeRecommendations(ctx context.Context, w io.Writer, settings *Settings, careers []types.Career, query types.Query, log *zap.Logger) error {
	engine, err := newEngine(settings, catalog.NewFileSource(careers), log)
	if err != nil {
		return err
	}

	recommendations, err := engine.Recommend(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to generate recommendations: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(types.RecommendResponse{Recommendations: recommendations})
}
