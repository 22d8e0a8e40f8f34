package main

import (
	"context"
	"flag"
	"os"
	"time"

	repository "github.com/okian/ricecast/internal/adapters/repository"
	service "github.com/okian/ricecast/internal/app"
	"github.com/okian/ricecast/internal/config"
	"github.com/okian/ricecast/internal/report"
)

const defaultTimeout = 30 * time.Second

func main() {
	var (
		scenario = flag.Int("scenario", 1, "Model id")
		from     = flag.Int("from", 0, "First row, 1-based (default: start of the window)")
		to       = flag.Int("to", 0, "Last row, inclusive (default: end of the window)")
		date     = flag.String("date", "", "Also print this day's prices (YYYY-MM-DD)")
		dataDir  = flag.String("data", "", "Directory holding the CSV files (default: data_dir from config)")
		all      = flag.Bool("all", false, "Print every selected row")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		report.ShowHelp(os.Stdout)
		return
	}

	if err := report.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("Failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	lo, hi, err := cfg.DateRange()
	if err != nil {
		os.Stderr.WriteString("Invalid config: " + err.Error() + "\n")
		os.Exit(1)
	}

	svc := service.New(
		service.WithSource(repository.FromConfig(cfg)),
		service.WithPageSize(cfg.PageSize),
		service.WithDateRange(lo, hi),
	)

	rc := report.Config{
		Scenario: *scenario,
		From:     *from,
		To:       *to,
		Date:     *date,
		All:      *all,
		Verbose:  *verbose,
	}
	if err := report.Run(ctx, os.Stdout, svc, rc); err != nil {
		os.Stderr.WriteString("Report failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
