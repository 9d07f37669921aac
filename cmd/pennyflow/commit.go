package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pennyflow/pennyflow/internal/cli"
	"github.com/pennyflow/pennyflow/internal/common"
)

func commitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Import the selected transactions into the ledger",
		Long: `Commit the review session: every selected transaction is written into the
workspace ledger and the rest of the pending queue is discarded.`,
		Args: cobra.NoArgs,
		RunE: runCommit,
	}

	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func runCommit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	session, cleanup, err := newReviewSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	confirmation, err := session.BeginCommit(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNothingSelected) {
			cmd.Println(cli.FormatWarning("No transactions are selected. Select some first with: pennyflow review toggle"))
			return nil
		}
		if banner := session.ModalError(); banner != nil {
			cmd.Println(cli.RenderBanner(banner))
		}
		return err
	}

	skip, _ := cmd.Flags().GetBool("yes")
	if !skip {
		prompter := cli.NewPrompter(os.Stdin, cmd.OutOrStdout())
		ok, promptErr := prompter.ConfirmCommit(ctx, *confirmation)
		if promptErr != nil {
			return promptErr
		}
		if !ok {
			session.CancelCommit()
			cmd.Println(cli.SubtleStyle.Render("Canceled."))
			return nil
		}
	}

	result, err := session.ConfirmCommit(ctx)
	if err != nil {
		if banner := session.ModalError(); banner != nil {
			cmd.Println(cli.RenderBanner(banner))
		}
		return err
	}

	cmd.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions", result.AcceptedCount)))
	if result.RejectedCount > 0 {
		cmd.Println(cli.SubtleStyle.Render(fmt.Sprintf("Discarded %d unselected transactions", result.RejectedCount)))
	}
	return nil
}
