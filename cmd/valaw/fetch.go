package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nao1215/valaw/internal/config"
	"github.com/nao1215/valaw/internal/database"
	"github.com/nao1215/valaw/internal/fetch"
	"github.com/nao1215/valaw/internal/log"
	"github.com/nao1215/valaw/internal/model"
	"github.com/nao1215/valaw/internal/pipeline"
	"github.com/nao1215/valaw/internal/report"
	"github.com/nao1215/valaw/internal/transport"
	"github.com/nao1215/valaw/internal/walker"
	"github.com/spf13/cobra"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Harvest every legal domain into JSON files",
		Long: `Fetch walks the LIS law API and writes one JSON document per domain:

  administrative_code  titles, agencies, chapters, sections
  authorities          authorities with their text
  charters             municipal charters with their text
  code_of_virginia     titles, chapters, articles, sections
  compacts             interstate compacts
  constitution         articles and sections
  uncodified_acts      acts by year since 1946

Requests that fail are logged and their branch is left out of the document.
The command still exits 0; the summary marks incomplete domains.

Each request times out after 2m by default. Pass --timeout 0 to wait
indefinitely on a slow upstream instead.

Examples:
  # Harvest everything into ./output
  valaw fetch

  # Harvest two domains into a timestamped file set
  valaw fetch -d constitution -d compacts --timestamp -o /data/valaw

  # Harvest domains side by side and write summary.md
  valaw fetch --parallel 3 --summary

  # Route through a SOCKS proxy
  valaw fetch --proxy socks5://127.0.0.1:1080

Configuration file (.valaw) example:
  outputDir: /data/valaw
  timestamp: true
  timeout: 90s
  domains:
    - code_of_virginia`,
		Args: cobra.NoArgs,
		RunE: runFetchCmd,
	}

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Directory for domain documents (created if needed)")
	cmd.Flags().BoolP("timestamp", "t", false,
		"Append _YYYYMMDD_HHMMSS to document file names")
	cmd.Flags().StringSliceP("domain", "d", nil,
		"Harvest only these domains (repeatable; default all)")
	cmd.Flags().Bool("summary", false,
		"Write summary.md into the output directory")

	// Upstream flags
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Root URL of the LIS API")
	cmd.Flags().Duration("timeout", config.DefaultTimeout,
		"Timeout for each request (0 waits indefinitely)")
	cmd.Flags().String("proxy", "",
		"Proxy URL (socks5://, socks5h://, http://, https://)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header")
	cmd.Flags().StringToString("header", nil,
		"Extra request header as Name=Value (repeatable)")
	cmd.Flags().Bool("verify-tls", false,
		"Verify the API's TLS certificate (fails against the current LIS chain)")
	cmd.Flags().IntP("parallel", "p", config.DefaultParallel,
		"Number of domains harvested at the same time")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not record the run or compare with the previous run")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .valaw in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Print the run summary as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the run summary as Markdown (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write the run summary to this file instead of stdout")

	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runFetch(ctx, cfg, logger, cmd.OutOrStdout())
}

// buildConfig creates a Config from defaults, the config file, and flags,
// in increasing priority. Only flags the user actually set override the file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}
	if _, err := config.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	cfg.Verbose = getVerboseFlag(cmd)

	if flags.Changed("output") {
		if cfg.OutputDir, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timestamp") {
		if cfg.Timestamp, err = flags.GetBool("timestamp"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("domain") {
		if cfg.Domains, err = flags.GetStringSlice("domain"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("summary") {
		if cfg.Summary, err = flags.GetBool("summary"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyURL, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("header") {
		headers, err := flags.GetStringToString("header")
		if err != nil {
			return nil, err
		}
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			cfg.Headers[k] = v
		}
	}
	if flags.Changed("verify-tls") {
		verify, err := flags.GetBool("verify-tls")
		if err != nil {
			return nil, err
		}
		cfg.InsecureSkipVerify = !verify
	}
	if flags.Changed("parallel") {
		if cfg.Parallel, err = flags.GetInt("parallel"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("no-history") {
		noHistory, err := flags.GetBool("no-history")
		if err != nil {
			return nil, err
		}
		cfg.SaveToDB = !noHistory
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("report"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runFetch harvests the selected domains and prints the run summary to out.
//
// Domain steps run under ctx. The summary and history steps run even after
// an interrupt, so a cancelled run is still recorded with what it wrote.
func runFetch(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	domains, err := cfg.SelectedDomains()
	if err != nil {
		return err
	}

	if cfg.InsecureSkipVerify {
		logger.Warn("TLS certificate verification is disabled",
			"reason", "the LIS API serves an incomplete certificate chain",
			"hint", "use --verify-tls once the upstream chain is fixed",
		)
	}

	httpClient, err := transport.NewHTTPClient(cfg.TransportOptions())
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}
	fetcher := fetch.New(cfg.BaseURL, httpClient,
		fetch.WithLogger(logger),
		fetch.WithUserAgent(cfg.UserAgent),
	)

	startedAt := time.Now()
	runReport := model.NewRunReport(fetcher.BaseURL(), startedAt)

	fileOpts := make([]report.FileWriterOption, 0, 1)
	if cfg.Timestamp {
		fileOpts = append(fileOpts, report.WithTimestamp(startedAt))
	}
	fileWriter := report.NewFileWriter(cfg.OutputDir, fileOpts...)

	var db *database.HistoryDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Debug("database opened", "path", db.Path())
	}

	walkers, err := walker.ForDomains(domains, walker.WithLogger(logger))
	if err != nil {
		return err
	}

	logger.Info("starting harvest",
		"base_url", fetcher.BaseURL(),
		"domains", len(walkers),
		"output", cfg.OutputDir,
		"parallel", cfg.Parallel,
	)

	harvest := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
	steps := domainSteps(walkers, fetcher, fileWriter, db, logger)
	if cfg.Parallel > 1 && len(steps) > 1 {
		harvest.AddStep(pipeline.NewBatchProcessor(steps,
			pipeline.WithConcurrency(cfg.Parallel),
			pipeline.WithBatchLogger(logger),
		))
	} else {
		harvest.AddSteps(steps...)
	}
	harvestErr := harvest.Execute(ctx, runReport)

	finish := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
	if cfg.Summary {
		finish.AddStep(pipeline.NewSummaryStep(cfg.OutputDir))
	}
	if db != nil {
		finish.AddStep(pipeline.NewHistoryStep(db, logger))
	}
	if err := finish.Execute(context.WithoutCancel(ctx), runReport); err != nil {
		logger.Error("failed to finish run", "error", err)
	}
	if runReport.FinishedAt.IsZero() {
		runReport.FinishedAt = time.Now()
	}

	if err := outputReport(cfg, runReport, out); err != nil {
		logger.Error("report failed", "error", err)
	}

	if errors.Is(harvestErr, context.Canceled) || runReport.Cancelled {
		return errors.New("harvest interrupted: unfinished domains were not written")
	}
	return nil
}

// domainSteps builds one pipeline step per walker.
func domainSteps(walkers []walker.Walker, g fetch.Getter, fw *report.FileWriter, db *database.HistoryDB, logger *slog.Logger) []pipeline.Step {
	opts := []pipeline.DomainStepOption{pipeline.WithDomainLogger(logger)}
	if db != nil {
		opts = append(opts, pipeline.WithPreviousChecksums(db))
	}

	steps := make([]pipeline.Step, 0, len(walkers))
	for _, w := range walkers {
		steps = append(steps, pipeline.NewDomainStep(w, g, fw, opts...))
	}
	return steps
}

// outputReport writes the run summary in the requested format,
// to cfg.ReportFile if set and to out otherwise.
func outputReport(cfg *config.Config, runReport *model.RunReport, out io.Writer) (err error) {
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, openErr := os.OpenFile(filepath.Clean(cfg.ReportFile), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if openErr != nil {
			return fmt.Errorf("failed to create report file: %w", openErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close report file: %w", cerr)
			}
		}()
		out = f
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(out)
	default:
		writer = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}

	_, err = writer.Write(runReport)
	return err
}
