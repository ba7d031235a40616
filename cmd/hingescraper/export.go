package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hingescraper/pkg/scraper"
)

var (
	exportSource string
	exportOutput string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "One-shot export of the current feed to a JSON file",
	Long: `Fetch the current recommendation feed or the standout list once and
write every profile to a JSON file.

Unlike 'scrape', export does not accumulate across runs: the output file
is replaced with exactly what this fetch returned.`,
	Example: `  # Export the current recommendations
  hingescraper export --output recs.json

  # Export the standout list
  hingescraper export --source standouts --output standouts.json`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportSource, "source", "s", "recommendations", "profile source (recommendations or standouts)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (required)")
	exportCmd.MarkFlagRequired("output")
}

func runExport(cmd *cobra.Command, args []string) error {
	var source scraper.Source
	switch exportSource {
	case "recommendations":
		source = scraper.SourceRecommendations
	case "standouts":
		source = scraper.SourceStandouts
	default:
		return fmt.Errorf("unknown source %q (want recommendations or standouts)", exportSource)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	s := scraper.New(cfg, client, newMediaClient(cfg), nil)
	return s.Export(source, exportOutput)
}
