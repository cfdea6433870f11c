package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/acsarchive/acsharvest/internal/classify"
	"github.com/acsarchive/acsharvest/internal/config"
	"github.com/acsarchive/acsharvest/internal/database"
	"github.com/acsarchive/acsharvest/internal/fetch"
	"github.com/acsarchive/acsharvest/internal/log"
	"github.com/acsarchive/acsharvest/internal/pipeline"
	"github.com/acsarchive/acsharvest/internal/report"
)

// NewHarvestCmd creates the harvest command.
func NewHarvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Run one or more harvest phases against the wiki",
		Long: `Harvest runs the selected phases in fixed order:

  1. --getnames   collect item display names from the series listings
  2. --scrape     fetch and classify the numbered item range
  3. --backlinks  harvest the classification component backlink listings
  4. --cross      reconcile backlink candidates into the database

Each phase writes its JSON artifact into the output directory, and later
phases load the artifacts of earlier ones, so phases compose across
separate invocations.

Examples:
  # Full harvest from scratch
  acsharvest harvest --getnames --scrape --backlinks --cross

  # Scrape a narrow range only
  acsharvest harvest --scrape --start 100 --end 199

  # Refresh backlink discoveries against an existing database
  acsharvest harvest --backlinks --cross

  # Use a custom configuration file
  acsharvest harvest -c myconfig.yaml --scrape

Configuration file (.acsharvest) example:
  base_url: "https://scp-wiki.wikidot.com"
  output_dir: "output"
  requests_per_second: 1.0
  timeout: 90s`,
		Args: cobra.NoArgs,
		RunE: runHarvestCmd,
	}

	// Phase selection flags
	cmd.Flags().BoolP("getnames", "n", false, "Harvest item display names from the series listings")
	cmd.Flags().BoolP("scrape", "s", false, "Scrape and classify the numbered item range")
	cmd.Flags().BoolP("backlinks", "b", false, "Harvest classification component backlinks")
	cmd.Flags().BoolP("cross", "x", false, "Reconcile backlink candidates into the database")

	// Scrape behavior flags
	cmd.Flags().Int("start", config.DefaultStart, "First item number in the scrape range")
	cmd.Flags().Int("end", config.DefaultEnd, "Last item number in the scrape range")
	cmd.Flags().IntP("limit", "l", config.DefaultConcurrency, "Maximum concurrent fetches")
	cmd.Flags().IntP("retries", "r", config.DefaultRetries, "Retry budget per page fetch")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each request attempt")
	cmd.Flags().Float64("rate", config.DefaultRequestsPerSecond, "Outbound requests per second")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxBacklinkPages, "Pagination bound per backlink listing")
	cmd.Flags().String("base-url", config.DefaultBaseURL, "Wiki base URL")

	// Output flags
	cmd.Flags().StringP("output", "o", "output", "Directory for the JSON artifacts")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .acsharvest in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Print the run report as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the run report as Markdown (mutually exclusive with --json)")
	cmd.Flags().String("report-file", "", "Also write the run report to the given file")

	return cmd
}

// runHarvestCmd executes the harvest command.
func runHarvestCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Context with signal handling for graceful shutdown. Cancellation
	// stops the current phase; artifacts written so far stay on disk.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runHarvest(ctx, cmd, cfg, logger)
}

// buildConfig creates a Config from cobra command flags and the optional
// configuration file. File values override defaults; flags the user set
// explicitly override the file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.New()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	found := config.FindConfigFile(configPath)
	if found != "" {
		f, err := config.LoadFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		f.Apply(cfg)
	} else if configPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") || cfg.BaseURL == "" {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("output") || cfg.OutputDir == "" {
		if cfg.OutputDir, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("rate") {
		if cfg.RequestsPerSecond, err = flags.GetFloat64("rate"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-pages") {
		if cfg.MaxBacklinkPages, err = flags.GetInt("max-pages"); err != nil {
			return nil, err
		}
	}

	if cfg.Start, err = flags.GetInt("start"); err != nil {
		return nil, err
	}
	if cfg.End, err = flags.GetInt("end"); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = flags.GetInt("limit"); err != nil {
		return nil, err
	}
	if cfg.Retries, err = flags.GetInt("retries"); err != nil {
		return nil, err
	}

	if cfg.Phases.Names, err = flags.GetBool("getnames"); err != nil {
		return nil, err
	}
	if cfg.Phases.Scrape, err = flags.GetBool("scrape"); err != nil {
		return nil, err
	}
	if cfg.Phases.Backlinks, err = flags.GetBool("backlinks"); err != nil {
		return nil, err
	}
	if cfg.Phases.Reconcile, err = flags.GetBool("cross"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runHarvest wires the dependencies and executes the selected phases.
func runHarvest(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting harvest",
		"base_url", cfg.BaseURL,
		"phases", fmt.Sprintf("names=%t scrape=%t backlinks=%t reconcile=%t",
			cfg.Phases.Names, cfg.Phases.Scrape, cfg.Phases.Backlinks, cfg.Phases.Reconcile),
		"output", cfg.OutputDir,
	)

	checkDB, err := database.Open(cfg.CacheDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open checked-page database: %w", err)
	}
	defer checkDB.Close()
	logger.Info("checked-page database opened", "dir", cfg.CacheDir)

	fetcher := fetch.New(fetch.NewLimiter(cfg.Concurrency),
		fetch.WithRetries(cfg.Retries),
		fetch.WithAttemptTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithRequestsPerSecond(cfg.RequestsPerSecond),
		fetch.WithLogger(logger),
	)

	run := pipeline.NewRun(cfg)
	run.Fetcher = fetcher
	run.Classifier = classify.New(classify.WithLogger(logger))
	run.Checker = checkDB

	p := pipeline.New(pipeline.WithLogger(logger))
	if cfg.Phases.Names {
		p.AddStep(pipeline.NewNamesStep(pipeline.WithNamesLogger(logger)))
	}
	if cfg.Phases.Scrape {
		p.AddStep(pipeline.NewScrapeStep(pipeline.WithScrapeLogger(logger)))
	}
	if cfg.Phases.Backlinks {
		p.AddStep(pipeline.NewBacklinksStep(pipeline.WithBacklinksLogger(logger)))
	}
	if cfg.Phases.Reconcile {
		p.AddStep(pipeline.NewReconcileStep(pipeline.WithReconcileLogger(logger)))
	}

	execErr := p.Execute(ctx, run)

	// Report what the run managed even when it was cut short.
	if err := writeReport(cmd, run); err != nil {
		logger.Error("failed to write run report", "error", err)
		if execErr == nil {
			execErr = err
		}
	}
	return execErr
}

// writeReport renders the run report per the output flags.
func writeReport(cmd *cobra.Command, run *pipeline.Run) error {
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOut && markdownOut {
		return fmt.Errorf("--json and --markdown are mutually exclusive")
	}
	reportFile, err := cmd.Flags().GetString("report-file")
	if err != nil {
		return err
	}

	newWriter := func(out *os.File) report.Writer {
		switch {
		case jsonOut:
			return report.NewJSONWriter(out, report.WithPrettyPrint())
		case markdownOut:
			return report.NewMarkdownWriter(out)
		default:
			return report.NewSimpleWriter(out, report.WithVerbose(run.Config.Verbose))
		}
	}

	writers := []report.Writer{newWriter(os.Stdout)}
	if reportFile != "" {
		if dir := filepath.Dir(reportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.Create(reportFile) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		writers = append(writers, newWriter(f))
	}

	_, err = report.NewMultiWriter(writers...).Write(report.New(run))
	return err
}
