// Package cli implements the quizforge command-line interface using Cobra.
// Each subcommand maps to one engine capability (serve, recipe, floor, seed).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quizforge",
	Short: "quizforge — deterministic quiz recipes and campaign progression",
	Long: `quizforge turns opaque seeds into reproducible quiz generation recipes
and runs the campaign progression engine: floors, scoring, ledgers,
achievements. The same seed always yields the same recipe.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
