// Package cmd holds the storefront command line: the API server and the
// one-shot maintenance tasks that share its configuration.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Grocery storefront API",
	Long: `storefront serves the grocery store REST API: catalog browsing, carts,
checkout and order management backed by MongoDB and Redis.

Configuration is read from environment variables; JWT_SECRET and MONGO_URI
are required.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
