// ABOUTME: Root command for the windsurf-quota CLI
// ABOUTME: Handles global flags, config resolution, and logging setup

package cmd

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gitcoder27/windsurf-quota/internal/config"
	"github.com/gitcoder27/windsurf-quota/internal/locator"
	"github.com/gitcoder27/windsurf-quota/internal/windsurf"
)

var (
	cfgPath    string
	jsonOutput bool
	debug      bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "windsurf-quota",
	Short: "Quota and usage metrics for the Windsurf IDE",
	Long: `windsurf-quota discovers the Windsurf language server running on this
machine and reports the account's credit and per-model quota status.

Discovery needs no configuration: the tool finds the language server
process, reads its CSRF token from the launch arguments, and probes its
loopback ports until the API answers.

Environment Variables:
  WINDSURF_QUOTA_CONFIG           Config file path (default: user config dir)
  WINDSURF_QUOTA_PROCESS_PATTERN  Override the process signature to match
  WINDSURF_QUOTA_LOCALE           Locale sent with the metrics request`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A .env in the working directory may carry the env overrides.
		_ = godotenv.Load()

		log.SetOutput(os.Stderr)
		if debug {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.WarnLevel)
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file path (overrides WINDSURF_QUOTA_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")
}

// GetConfigPath returns the config path from flag, env, or default (in priority order)
func GetConfigPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	if envPath := os.Getenv("WINDSURF_QUOTA_CONFIG"); envPath != "" {
		return envPath
	}
	return ""
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig resolves and validates the tool configuration
func loadConfig() (*config.Config, error) {
	return config.Load(GetConfigPath())
}

// newLocator builds a locator from discovery settings
func newLocator(cfg *config.Config) *locator.Locator {
	return locator.New(
		locator.WithProcessPattern(cfg.Discovery.ProcessPattern),
		locator.WithProbeTimeout(cfg.Discovery.ProbeTimeout()),
	)
}

// newFetcher builds the metrics client from discovery settings
func newFetcher(cfg *config.Config) *windsurf.Client {
	return windsurf.New(windsurf.Options{
		Finder:  newLocator(cfg),
		Timeout: cfg.Discovery.FetchTimeout(),
		Locale:  cfg.Display.Locale,
	})
}
