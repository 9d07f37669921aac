package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pennyflow/pennyflow/internal/cli"
	"github.com/pennyflow/pennyflow/internal/review"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import OFX/QFX statement files into the review queue",
		Long: `Import bank statements into the pending review queue. Each transaction is
checked against the workspace ledger and flagged when it looks like a
duplicate. Nothing reaches the ledger until you run pennyflow commit.

Examples:
  # Import a single file
  pennyflow import ~/Downloads/checking_jan.qfx

  # Import everything the bank exported
  pennyflow import ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Expand globs and collect all files
	var paths []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				paths = append(paths, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			paths = append(paths, matches...)
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files found to import")
	}

	store, app, cleanup, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	ws, err := resolveWorkspace(ctx, store, app)
	if err != nil {
		return err
	}

	// A mid-batch interrupt keeps the rows already imported; the review
	// queue picks up where the batch stopped.
	interrupts := cli.NewInterruptHandler(cmd.OutOrStdout())
	ctx = interrupts.HandleInterrupts(ctx)

	session := review.NewSession(store, ws)
	if app.PageSize > 0 {
		session.SetPageSize(app.PageSize)
	}

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("Importing statements"),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionClearOnFinish(),
	)

	// Files go through one at a time so status lines keep batch order
	var files []review.File
	var open []*os.File
	defer func() {
		for _, f := range open {
			_ = f.Close()
		}
	}()
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		open = append(open, f)
		files = append(files, review.File{Name: filepath.Base(path), Reader: &progressReader{f: f, bar: bar}})
	}

	uploadErr := session.UploadFiles(ctx, files)
	_ = bar.Finish()

	if status := session.UploadStatus(); status != nil {
		cmd.Println(cli.RenderUploadStatus(status))
	}
	if summary := session.Summary(); summary != nil {
		cmd.Println(cli.RenderSummary(summary))
	}
	if banner := session.PageError(); banner != nil {
		cmd.Println(cli.RenderBanner(banner))
	}

	if interrupts.WasInterrupted() {
		return nil
	}
	if uploadErr != nil {
		return fmt.Errorf("some statements failed to import")
	}
	cmd.Println(cli.SubtleStyle.Render("Review the queue with: pennyflow review list"))
	return nil
}

// progressReader ticks the file progress bar as each statement is consumed.
type progressReader struct {
	f   *os.File
	bar *progressbar.ProgressBar
	eof bool
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.f.Read(p)
	if err != nil && !r.eof {
		r.eof = true
		_ = r.bar.Add(1)
	}
	return n, err
}
