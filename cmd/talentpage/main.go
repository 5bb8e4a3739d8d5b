// Package main provides the talentpage CLI: an HTTP server plus ad-hoc
// scrape, research, and export subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "talentpage",
	Short: "Talent landing page generator",
	Long:  "talentpage turns job details and a company website into a branded job-posting landing page, with market research to back the pitch.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
