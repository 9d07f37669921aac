package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pennyflow/pennyflow/internal/cli"
	"github.com/pennyflow/pennyflow/internal/review"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Work the pending import queue",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show a page of pending transactions",
		Args:  cobra.NoArgs,
		RunE:  runReviewList,
	}
	list.Flags().IntP("page", "p", 1, "page number")

	toggle := &cobra.Command{
		Use:   "toggle <key>...",
		Short: "Flip the selection on one or more pending transactions",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runReviewToggle,
	}
	toggle.Flags().IntP("page", "p", 1, "page the transactions are on")

	selectAll := &cobra.Command{
		Use:   "select-all",
		Short: "Select every pending transaction",
		Args:  cobra.NoArgs,
		RunE:  runReviewSetAll(true),
	}

	deselectAll := &cobra.Command{
		Use:   "deselect-all",
		Short: "Deselect every pending transaction",
		Args:  cobra.NoArgs,
		RunE:  runReviewSetAll(false),
	}

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Show selection counts for the whole queue",
		Args:  cobra.NoArgs,
		RunE:  runReviewSummary,
	}

	discard := &cobra.Command{
		Use:   "discard",
		Short: "Throw away the whole pending queue without importing",
		Args:  cobra.NoArgs,
		RunE:  runReviewDiscard,
	}
	discard.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	cmd.AddCommand(list, toggle, selectAll, deselectAll, summary, discard)
	return cmd
}

// newReviewSession wires a session for the configured workspace.
func newReviewSession(cmd *cobra.Command) (*review.Session, func(), error) {
	ctx := cmd.Context()

	store, app, cleanup, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	ws, err := resolveWorkspace(ctx, store, app)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	session := review.NewSession(store, ws)
	if app.PageSize > 0 {
		session.SetPageSize(app.PageSize)
	}
	return session, cleanup, nil
}

func runReviewList(cmd *cobra.Command, _ []string) error {
	session, cleanup, err := newReviewSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	page, _ := cmd.Flags().GetInt("page")
	if err := session.LoadPage(cmd.Context(), page); err != nil {
		if banner := session.PageError(); banner != nil {
			cmd.Println(cli.RenderBanner(banner))
		}
		return err
	}
	if err := session.LoadSummary(cmd.Context()); err != nil {
		return err
	}

	cmd.Println(cli.RenderCandidateTable(session.Page()))
	cmd.Println(cli.RenderSummary(session.Summary()))
	return nil
}

func runReviewToggle(cmd *cobra.Command, args []string) error {
	session, cleanup, err := newReviewSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// Toggling needs the page cached first; keys refer to loaded candidates
	page, _ := cmd.Flags().GetInt("page")
	if err := session.LoadPage(cmd.Context(), page); err != nil {
		return err
	}

	for _, key := range args {
		if err := session.ToggleSelection(cmd.Context(), key); err != nil {
			if banner := session.PageError(); banner != nil {
				cmd.Println(cli.RenderBanner(banner))
			}
			return fmt.Errorf("failed to toggle %s: %w", key, err)
		}
	}

	cmd.Println(cli.RenderCandidateTable(session.Page()))
	if err := session.LoadSummary(cmd.Context()); err == nil {
		cmd.Println(cli.RenderSummary(session.Summary()))
	}
	return nil
}

func runReviewSetAll(selected bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		session, cleanup, err := newReviewSession(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := session.LoadPage(cmd.Context(), 1); err != nil {
			return err
		}

		if selected {
			err = session.SelectAll(cmd.Context())
		} else {
			err = session.DeselectAll(cmd.Context())
		}
		if err != nil {
			if banner := session.PageError(); banner != nil {
				cmd.Println(cli.RenderBanner(banner))
			}
			return err
		}

		cmd.Println(cli.RenderSummary(session.Summary()))
		return nil
	}
}

func runReviewSummary(cmd *cobra.Command, _ []string) error {
	session, cleanup, err := newReviewSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := session.LoadSummary(cmd.Context()); err != nil {
		return err
	}

	cmd.Println(cli.RenderSummary(session.Summary()))
	return nil
}

func runReviewDiscard(cmd *cobra.Command, _ []string) error {
	session, cleanup, err := newReviewSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := session.LoadSummary(cmd.Context()); err != nil {
		return err
	}
	total := session.Summary().TotalCount
	if total == 0 {
		cmd.Println(cli.SubtleStyle.Render("Nothing pending to discard."))
		return nil
	}

	skip, _ := cmd.Flags().GetBool("yes")
	if !skip {
		prompter := cli.NewPrompter(os.Stdin, cmd.OutOrStdout())
		ok, err := prompter.ConfirmDiscard(cmd.Context(), total)
		if err != nil {
			return err
		}
		if !ok {
			cmd.Println(cli.SubtleStyle.Render("Canceled."))
			return nil
		}
	}

	if err := session.Discard(cmd.Context()); err != nil {
		if banner := session.PageError(); banner != nil {
			cmd.Println(cli.RenderBanner(banner))
		}
		return err
	}

	cmd.Println(cli.FormatSuccess(fmt.Sprintf("Discarded %d pending transactions", total)))
	return nil
}
