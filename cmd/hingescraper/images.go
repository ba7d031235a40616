package main

import (
	"github.com/spf13/cobra"

	"hingescraper/pkg/scraper"
)

var imagesOutput string

// imagesCmd represents the images command
var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Download profile photos from the current feed",
	Long: `Fetch the current recommendation feed and download every profile
photo from the media CDN into a folder per user.

A photo that fails to download is logged and skipped; it never aborts the
rest of the run.`,
	Example: `  # Download into ./downloads (default)
  hingescraper images

  # Download into a custom directory
  hingescraper images --output ./photos`,
	RunE: runImages,
}

func init() {
	rootCmd.AddCommand(imagesCmd)

	imagesCmd.Flags().StringVarP(&imagesOutput, "output", "o", "", "output directory (default from config)")
}

func runImages(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputDir := cfg.Output.BaseDirectory
	if imagesOutput != "" {
		outputDir = imagesOutput
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	s := scraper.New(cfg, client, newMediaClient(cfg), nil)
	return s.DownloadImages(outputDir)
}
