package main

import (
	"time"

	"github.com/spf13/cobra"

	"hingescraper/pkg/scraper"
)

var (
	scrapeIterations int
	scrapeMinSleep   time.Duration
	scrapeMaxSleep   time.Duration
	scrapeOutput     string
	scrapeQuestions  string
	scrapeActive     bool
	scrapeNewHere    bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape recommended profiles into a local JSON store",
	Long: `Repeatedly fetch the recommendation feed and append every
previously-unseen profile to a local JSON store.

Each iteration fetches the current feed, pulls full public profiles for
its subjects, reshapes them (question ids resolved to display text, voice
and text prompts split, image metadata extracted) and rewrites the store
file. A random politeness delay separates iterations. Profiles already in
the store are counted as duplicates and left untouched, so the command can
be re-run to keep growing the same store.`,
	Example: `  # Scrape with defaults (40 iterations)
  hingescraper scrape

  # Short run into a custom store
  hingescraper scrape --iterations 5 --output profiles.json

  # Bias the feed
  hingescraper scrape --active-today --new-here`,
	RunE: runScrapeCmd,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().IntVarP(&scrapeIterations, "iterations", "n", 0, "number of scrape cycles (default from config)")
	scrapeCmd.Flags().DurationVar(&scrapeMinSleep, "min-sleep", 0, "minimum delay between cycles")
	scrapeCmd.Flags().DurationVar(&scrapeMaxSleep, "max-sleep", 0, "maximum delay between cycles")
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "store file (default from config)")
	scrapeCmd.Flags().StringVar(&scrapeQuestions, "questions", "", "question mapping file (default from config)")
	scrapeCmd.Flags().BoolVar(&scrapeActive, "active-today", false, "request only profiles active today")
	scrapeCmd.Flags().BoolVar(&scrapeNewHere, "new-here", false, "request only profiles new to the app")
}

func runScrapeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if scrapeMinSleep > 0 {
		cfg.Scrape.MinSleep = scrapeMinSleep
	}
	if scrapeMaxSleep > 0 {
		cfg.Scrape.MaxSleep = scrapeMaxSleep
	}
	if scrapeOutput != "" {
		cfg.Scrape.OutputFile = scrapeOutput
	}
	if scrapeQuestions != "" {
		cfg.Scrape.QuestionsFile = scrapeQuestions
	}
	if cmd.Flags().Changed("active-today") {
		cfg.Scrape.ActiveToday = scrapeActive
	}
	if cmd.Flags().Changed("new-here") {
		cfg.Scrape.NewHere = scrapeNewHere
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	s := scraper.New(cfg, client, newMediaClient(cfg), nil)
	return s.Run(scrapeIterations)
}
