package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-refiner/internal/config"
	"github.com/jonathan/resume-refiner/internal/extraction"
	"github.com/jonathan/resume-refiner/internal/grammar"
	"github.com/jonathan/resume-refiner/internal/server"
	"github.com/jonathan/resume-refiner/internal/server/ratelimit"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: "Start an HTTP server that exposes the extract, review and export workflow. Sessions live in " +
		"memory only and are identified by a signed bearer token (SESSION_SECRET is required).",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from PORT or config, else 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	sessionCfg, err := config.NewSessionConfig()
	if err != nil {
		return err
	}
	port := a.cfg.Port
	if servePort != 0 {
		port = servePort
	}
	client := a.modelClient()
	srv, err := server.New(server.Config{
		Port:         port,
		Session:      sessionCfg,
		RateLimit:    ratelimit.LoadConfig(),
		ModelTimeout: a.cfg.ModelTimeout(),
	}, server.Deps{
		Extractor: extraction.NewExtractor(client, a.logger),
		Analyzer:  grammar.NewAnalyzer(client, a.logger),
		Exporter:  a.exporter(),
	}, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	a.logger.Info("credential pool loaded", zap.Int("keys", len(a.cfg.Credentials)))
	return srv.Start(cmd.Context())
}
