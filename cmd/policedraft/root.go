package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "policedraft",
	Short: "Draft police report paragraphs from a free-form narration",
	Long: `policedraft turns a citizen's narration into the numbered-dash paragraph
format used in police reports, either through an OpenAI-compatible completion
service or by normalizing the narration locally.

Usage:
  policedraft serve
  policedraft normalize [file] [flags]`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
