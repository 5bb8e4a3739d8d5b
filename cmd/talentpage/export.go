package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/talentpage/internal/render"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <record-id>",
	Short: "Export a record's standalone landing page HTML",
	Long:  `Render the standalone page (no deploy banner, social meta tags included) for a stored record and write it to a file or stdout.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid record id %q: %w", args[0], err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	rec, err := a.store.FindByID(ctx, id)
	if err != nil {
		return err
	}

	html := render.GenerateStandalone(rec)
	if exportOut == "" {
		fmt.Println(html)
		return nil
	}
	if err := os.WriteFile(exportOut, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	fmt.Printf("wrote %s\n", exportOut)
	return nil
}
