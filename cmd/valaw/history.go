package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nao1215/valaw/internal/config"
	"github.com/nao1215/valaw/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show past harvest runs",
		Long: `History lists recorded harvest runs, newest first.

With a run ID it shows each domain of that run: the written file, its
checksum, request counts, and whether the content changed since the
previous run.

Examples:
  # List the last 10 runs
  valaw history

  # Show the domains of run 42
  valaw history 42

  # Remove runs older than 90 days
  valaw history --prune 2160h`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 10, "Number of runs to list (0 for all)")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory holding the run history database")
	cmd.Flags().Duration("prune", 0, "Delete runs older than this duration")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	prune, err := cmd.Flags().GetDuration("prune")
	if err != nil {
		return err
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database (run 'valaw fetch' first): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if prune > 0 {
		n, err := db.DeleteRunsBefore(ctx, time.Now().Add(-prune))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %d run(s) older than %s\n", n, prune)
		return nil
	}

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run ID %q: %w", args[0], err)
		}
		return printRunOutputs(ctx, db, id, out)
	}
	return printRuns(ctx, db, limit, out)
}

// newTable creates a rounded table rendering to out.
func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

// printRuns renders the run list.
func printRuns(ctx context.Context, db *database.HistoryDB, limit int, out io.Writer) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"Run", "Started", "Duration", "Domains", "Requests", "Failed", "Changed", "Status"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			runDuration(run.StartedAt, run.FinishedAt),
			run.Domains,
			run.Requests,
			run.Failures,
			run.Changed,
			runStatus(run),
		})
	}
	t.Render()
	return nil
}

// printRunOutputs renders the domains of one run.
func printRunOutputs(ctx context.Context, db *database.HistoryDB, id int64, out io.Writer) error {
	run, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}
	outputs, err := db.GetRunOutputs(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run %d against %s, started %s (%s)\n",
		run.ID, run.BaseURL, run.StartedAt.Local().Format(time.DateTime), runStatus(*run))

	t := newTable(out)
	t.AppendHeader(table.Row{"Domain", "Requests", "Failed", "Changed", "Checksum", "File"})
	for _, o := range outputs {
		file := o.FilePath
		if o.Error != "" {
			file = "(" + o.Error + ")"
		}
		checksum := o.Checksum
		if len(checksum) > 12 {
			checksum = checksum[:12]
		}
		t.AppendRow(table.Row{o.Domain.Title(), o.Requests, o.Failures, yesNo(o.Changed), checksum, file})
	}
	t.AppendFooter(table.Row{"Total", run.Requests, run.Failures, run.Changed, "", ""})
	t.Render()
	return nil
}

func runDuration(started, finished time.Time) string {
	if finished.IsZero() || finished.Before(started) {
		return "-"
	}
	return finished.Sub(started).Round(time.Second).String()
}

func runStatus(run database.RunRecord) string {
	switch {
	case run.Cancelled:
		return "cancelled"
	case run.Failures > 0:
		return "partial"
	default:
		return "complete"
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
