package main

import (
	"fmt"

	"github.com/jonathan/career-recommender/internal/catalog"
	"github.com/spf13/cobra"
)

var (
	catalogFile string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Maintain the career catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Upsert careers from a catalog file",
	Long:  "Validates a catalog JSON file against the catalog schema and upserts every career by title. Without --file the seed catalog is imported.",
	RunE:  runCatalogImport,
}

var catalogLongDescriptionsCmd = &cobra.Command{
	Use:   "long-descriptions",
	Short: "Set long descriptions from a JSON file",
	Long:  "Reads [{title, longDescription}] entries and updates the matching careers. Unknown titles are reported and skipped.",
	RunE:  runCatalogLongDescriptions,
}

var catalogBackfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Derive missing salary bounds and industries",
	RunE:  runCatalogBackfill,
}

func init() {
	catalogImportCmd.Flags().StringVarP(&catalogFile, "file", "f", "", "Path to a career catalog JSON file (default: seed catalog)")
	catalogLongDescriptionsCmd.Flags().StringVarP(&catalogFile, "file", "f", "", "Path to a long descriptions JSON file (required)")

	if err := catalogLongDescriptionsCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	catalogCmd.AddCommand(catalogImportCmd, catalogLongDescriptionsCmd, catalogBackfillCmd)
	rootCmd.AddCommand(catalogCmd)
}

// newMaintainer connects to the database and returns a maintainer over it
// together with the function that closes the connection.
func newMaintainer(cmd *cobra.Command) (*catalog.Maintainer, func(), error) {
	settings, err := loadSettings(v)
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(settings)
	if err != nil {
		return nil, nil, err
	}

	database, err := connect(cmd)
	if err != nil {
		return nil, nil, err
	}
	return catalog.NewMaintainer(database, log), func() {
		database.Close()
		_ = log.Sync()
	}, nil
}

func printReport(cmd *cobra.Command, action string, report catalog.Report) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: scanned %d, updated %d, failed %d\n",
		action, report.Scanned, report.Updated, report.Failed)
}

func runCatalogImport(cmd *cobra.Command, _ []string) error {
	careers := catalog.Seed()
	if catalogFile != "" {
		var err error
		if careers, err = catalog.LoadFile(catalogFile); err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
	}

	m, closeFn, err := newMaintainer(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	report, err := m.Import(cmd.Context(), careers)
	printReport(cmd, "Import", report)
	return err
}

func runCatalogLongDescriptions(cmd *cobra.Command, _ []string) error {
	entries, err := catalog.LoadLongDescriptions(catalogFile)
	if err != nil {
		return fmt.Errorf("failed to load long descriptions: %w", err)
	}

	m, closeFn, err := newMaintainer(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	report, err := m.ApplyLongDescriptions(cmd.Context(), entries)
	printReport(cmd, "Long descriptions", report)
	return err
}

func runCatalogBackfill(cmd *cobra.Command, _ []string) error {
	m, closeFn, err := newMaintainer(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	report, err := m.Run(cmd.Context())
	printReport(cmd, "Backfill", report)
	return err
}
