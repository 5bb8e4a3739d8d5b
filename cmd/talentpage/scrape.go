package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var scrapeTimeout time.Duration

var scrapeCmd = &cobra.Command{
	Use:   "scrape <website-url>",
	Short: "Scrape a company site and print its brand profile",
	Long:  `Scrape a company website, normalize the extracted signals into a brand profile, and print it as JSON. Useful for checking what a site yields before wiring it to a record.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScrape,
}

func init() {
	scrapeCmd.Flags().DurationVar(&scrapeTimeout, "timeout", 2*time.Minute, "Overall scrape timeout")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(_ *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	raw := a.scraper.Scrape(ctx, args[0])
	profile := a.brand.Build(ctx, raw)
	if profile.Failed() {
		return fmt.Errorf("scrape failed: %s", profile.Err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(profile)
}
