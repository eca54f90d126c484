// ABOUTME: Locate command for the windsurf-quota CLI
// ABOUTME: Runs discovery only and prints the endpoint, for debugging

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gitcoder27/windsurf-quota/internal/locator"
)

// endpointFinder is the slice of the locator the command needs.
type endpointFinder interface {
	Locate(ctx context.Context) (*locator.Endpoint, error)
}

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Discover the language server endpoint",
	Long:  `Run server discovery without fetching metrics and print the process id, port, and a masked token. Useful to debug discovery problems.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		exitCode := runLocate(ctx, os.Stdout, newLocator(cfg))
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
}

// runLocate executes discovery and returns exit code
func runLocate(ctx context.Context, w io.Writer, finder endpointFinder) int {
	ep, err := finder.Locate(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		if errors.Is(err, locator.ErrNotFound) {
			fmt.Fprintln(w, "Is Windsurf running with an open workspace?")
		}
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatLocateJSON(ep))
	} else {
		fmt.Fprintln(w, formatLocateHuman(ep))
	}
	return 0
}

// formatLocateHuman formats an endpoint for human readability
func formatLocateHuman(ep *locator.Endpoint) string {
	return fmt.Sprintf(`Process:  %d
Address:  127.0.0.1:%d
Token:    %s`, ep.PID, ep.Port, maskToken(ep.Token))
}

// formatLocateJSON formats an endpoint as JSON
func formatLocateJSON(ep *locator.Endpoint) string {
	data, _ := json.MarshalIndent(map[string]interface{}{
		"pid":   ep.PID,
		"port":  ep.Port,
		"token": maskToken(ep.Token),
	}, "", "  ")
	return string(data)
}

// maskToken hides most of the credential while leaving enough to correlate
// with the process arguments.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:8] + "…"
}
