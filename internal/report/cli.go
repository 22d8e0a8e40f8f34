package report

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/ricecast/pkg/logger"
)

// SetupLogging sends log records to stderr so they never mix with the report.
func SetupLogging(verbose bool) error {
	if err := logger.InitWithWriter(os.Stderr, logger.FormatText); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

// ShowHelp prints usage information for the report tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Rice Price Forecast Report
==========================

Prints a model's hyperparameters, the selected forecast rows and their
error metrics.

Usage:
  go run ./cmd/report [options]

Options:
  -scenario int
        Model id (default 1)
  -from int
        First row, 1-based (default: start of the window)
  -to int
        Last row, inclusive (default: end of the window)
  -date string
        Also print the predicted and actual price of this day (YYYY-MM-DD)
  -data string
        Directory holding the CSV files (default: data_dir from config)
  -all
        Print every selected row instead of the first page
  -verbose
        Enable debug logging
  -help
        Show this help message

Configuration is read the same way as the server: RICECAST_CONFIG names an
optional YAML file and RICECAST_* environment variables override it.

Examples:
  # Whole window of model 3
  go run ./cmd/report -scenario 3

  # February only, plus a single day
  go run ./cmd/report -scenario 2 -from 32 -to 59 -date 2022-02-14
`)
}
