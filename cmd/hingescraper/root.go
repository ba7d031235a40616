package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"hingescraper/pkg/auth"
	"hingescraper/pkg/config"
	"hingescraper/pkg/hinge"
	"hingescraper/pkg/logger"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile  string
	logLevel    string
	quiet       bool
	accountName string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hingescraper",
	Short: "A Hinge API client, profile scraper and automation toolkit",
	Long: `hingescraper talks to the Hinge mobile API the way the app does:
fetching recommendations and standouts, liking and messaging profiles,
downloading photos, and bulk-scraping profile data into local JSON files.

Credentials come from stored accounts ('hingescraper auth login'), from
environment variables (HINGE_BEARER_TOKEN, HINGE_SESSION_ID), or from the
SMS login flow ('hingescraper auth sms').`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .hingescraper.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "", "use specific stored account")

	rootCmd.SetVersionTemplate(`hingescraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceUsage = true
}

// loadConfig builds the effective configuration and initializes the global
// logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if quiet {
		cfg.Logging.Level = "error"
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// fillCredentials pulls stored credentials into the config when it carries
// none of its own. Config file and environment values win over the store.
func fillCredentials(cfg *config.Config) {
	if cfg.Hinge.BearerToken != "" && cfg.Hinge.SessionID != "" {
		return
	}

	manager, err := auth.NewManager()
	if err != nil {
		return
	}

	var account *auth.Account
	if accountName != "" {
		account, err = manager.Retrieve(accountName)
	} else {
		account, err = manager.RetrieveDefault()
	}
	if err != nil || account == nil {
		return
	}

	if cfg.Hinge.BearerToken == "" {
		cfg.Hinge.BearerToken = account.BearerToken
	}
	if cfg.Hinge.SessionID == "" {
		cfg.Hinge.SessionID = account.SessionID
	}
	if cfg.Hinge.UserID == "" {
		cfg.Hinge.UserID = account.UserID
	}
	if cfg.Hinge.DeviceID == "" {
		cfg.Hinge.DeviceID = account.DeviceID
	}
	if cfg.Hinge.InstallID == "" {
		cfg.Hinge.InstallID = account.InstallID
	}
}

// clientConfig converts the loaded configuration into the client's config.
func clientConfig(cfg *config.Config) hinge.Config {
	return hinge.Config{
		AuthToken:   cfg.Hinge.BearerToken,
		SessionID:   cfg.Hinge.SessionID,
		UserID:      cfg.Hinge.UserID,
		DeviceID:    cfg.Hinge.DeviceID,
		InstallID:   cfg.Hinge.InstallID,
		AppVersion:  cfg.Hinge.AppVersion,
		OSVersion:   cfg.Hinge.OSVersion,
		DeviceModel: cfg.Hinge.DeviceModel,
		Platform:    cfg.Hinge.Platform,
		Timeout:     cfg.Hinge.Timeout,
	}
}

// newAPIClient builds an authenticated API client, pulling stored
// credentials when the config carries none.
func newAPIClient(cfg *config.Config) (*hinge.Client, error) {
	fillCredentials(cfg)
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, fmt.Errorf("missing credentials (run 'hingescraper auth login'): %w", err)
	}
	return hinge.NewClient(clientConfig(cfg), logger.GetLogger()), nil
}

// newMediaClient builds a media CDN client from the same configuration.
func newMediaClient(cfg *config.Config) *hinge.MediaClient {
	fillCredentials(cfg)
	return hinge.NewMediaClient(clientConfig(cfg), logger.GetLogger())
}
