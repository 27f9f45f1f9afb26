package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"loftcal/internal/infra/obs"
)

var (
	outputJSON bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:          "loftctl",
	Short:        "Inspect loft availability offline",
	SilenceUsage: true,
}

func Execute() {
	rootCmd.AddCommand(calendarCmd())
	rootCmd.AddCommand(classifyCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log skipped fixture rows and integrity warnings at debug level")
}

// cliLogger writes to w, colored unless APP_ENV selects the JSON format.
// Only warnings are shown without --verbose.
func cliLogger(w io.Writer) *slog.Logger {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return obs.NewLoggerTo(w, env, level)
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
