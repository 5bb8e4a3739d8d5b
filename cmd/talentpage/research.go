package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	researchLocation string
	researchIndustry string
)

var researchCmd = &cobra.Command{
	Use:   "research <role-title>",
	Short: "Research the job market for a role and print the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runResearch,
}

func init() {
	researchCmd.Flags().StringVar(&researchLocation, "location", "", "Job location")
	researchCmd.Flags().StringVar(&researchIndustry, "industry", "", "Industry/sector")
	rootCmd.AddCommand(researchCmd)
}

func runResearch(_ *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	profile := a.market.Research(ctx, args[0], researchLocation, researchIndustry)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(profile)
}
