package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/policedraft/internal/normalize"
)

var flagMinParagraphs int

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Normalize text into paragraph HTML without calling the completion service",
	Long: `Normalize reads text or HTML from a file, or from stdin when no file is
given, and prints one <p>— …</p> line per paragraph.

Examples:
  policedraft normalize narracion.txt
  echo "<p>que se persona en dependencias</p>" | policedraft normalize --min 1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().IntVar(&flagMinParagraphs, "min", normalize.DefaultMinParagraphs, "Minimum number of paragraphs to produce")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	text, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	out := normalize.HTML(string(text), flagMinParagraphs)
	if out == "" {
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
