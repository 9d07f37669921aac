package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pennyflow/pennyflow/internal/cli"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List committed ledger transactions",
		Args:  cobra.NoArgs,
		RunE:  runTransactions,
	}

	cmd.Flags().Int("limit", 50, "maximum rows to show")
	cmd.Flags().Int("offset", 0, "rows to skip")
	return cmd
}

func runTransactions(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, app, cleanup, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	ws, err := resolveWorkspace(ctx, store, app)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	transactions, err := store.ListTransactions(ctx, ws.ID, limit, offset)
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}

	cmd.Println(cli.FormatTitle(fmt.Sprintf("Ledger for %s", ws.Name)))
	cmd.Println(cli.RenderTransactionList(transactions))
	return nil
}
