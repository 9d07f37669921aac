package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pennyflow/pennyflow/internal/model"
)

// ListTransactions returns committed ledger rows for a workspace, newest
// first.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, workspaceID string, limit, offset int) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(workspaceID, "workspaceID"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, workspace_id, hash, date, payee, category, account_id, amount
		FROM transactions
		WHERE workspace_id = ?
		ORDER BY date DESC, id
		LIMIT ? OFFSET ?`, workspaceID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var category, accountID sql.NullString
		if err := rows.Scan(&t.ID, &t.WorkspaceID, &t.Hash, &t.Date, &t.Payee,
			&category, &accountID, &t.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Category = category.String
		t.AccountID = accountID.String
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// GetTransactionCount returns the number of committed rows in a workspace.
func (s *SQLiteStorage) GetTransactionCount(ctx context.Context, workspaceID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(workspaceID, "workspaceID"); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE workspace_id = ?`, workspaceID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}
