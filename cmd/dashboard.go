// ABOUTME: Dashboard command for the windsurf-quota CLI
// ABOUTME: Launches the live terminal dashboard

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitcoder27/windsurf-quota/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the live quota dashboard",
	Long:  `Open a terminal dashboard showing credit pools and per-model quotas, with manual refresh and editable display settings.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		if err := tui.Run(newFetcher(cfg), cfg, GetConfigPath()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
