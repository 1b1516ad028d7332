// accessd bridges pub/sub access requests to the upstream access-decision
// API and publishes the classified outcomes back to the gates.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var embeddedNATS bool

var rootCmd = &cobra.Command{
	Use:   "accessd <command>",
	Short: "Gatehouse decision service",
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&embeddedNATS, "embedded-nats", false,
		"start an in-process NATS broker (local development)")
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
