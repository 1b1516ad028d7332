// gated runs one gate checkpoint: it drives the peripherals, publishes
// access requests, and presents the decision service's answers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	profilePath string
	noColor     bool
)

var rootCmd = &cobra.Command{
	Use:   "gated <command>",
	Short: "Gatehouse checkpoint daemon",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "path to a TOML device profile")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI colors")
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
