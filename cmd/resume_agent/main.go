// Package main provides the resume_agent CLI: extract a résumé into a structured record, review it
// for spelling, grammar and style issues, export it, or serve the same workflow over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configFile string
	formatFlag string
	verbose    bool
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "Resume Refiner CLI and HTTP API server",
	Long: "Resume Refiner extracts an uploaded résumé into a structured record, flags spelling, grammar " +
		"and style issues for review, and exports the result as DOCX, PDF or HTML in a classic or modern layout.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "Output format: classic or modern")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed progress and summaries")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Dump the full record structure")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
