// ABOUTME: Entry point for the windsurf-quota CLI
// ABOUTME: Command-line tool for Windsurf account quota monitoring

package main

import (
	"fmt"
	"os"

	"github.com/gitcoder27/windsurf-quota/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
