package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentpage/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start the HTTP server that exposes the landing page API: record CRUD, brand scraping, market research, publishing, and export.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := newApp(context.Background())
	if err != nil {
		return err
	}
	defer a.close()

	port := a.cfg.Port
	if servePort != 0 {
		port = servePort
	}

	srv := server.New(server.Config{
		Port:      port,
		BaseURL:   a.cfg.BaseURL,
		UploadDir: a.cfg.UploadDir,
	}, a.store, a.enrich, a.logger)

	return srv.Start()
}
