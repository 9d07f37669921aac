package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pennyflow/pennyflow/internal/common"
	"github.com/pennyflow/pennyflow/internal/model"
)

// potentialDuplicateWindow is how far apart two postings of the same amount
// may be and still count as a potential duplicate.
const potentialDuplicateWindow = 3 * 24 * time.Hour

// ClassifyCandidate matches a candidate against the committed ledger and
// returns its duplicate status plus the ID of the transaction it duplicates,
// if any. An identical fingerprint is an exact duplicate; the same amount
// within the posting window is a potential one.
func (s *SQLiteStorage) ClassifyCandidate(ctx context.Context, workspaceID string, c *model.ImportCandidate) (model.DuplicateStatus, string, error) {
	if err := validateContext(ctx); err != nil {
		return "", "", err
	}
	if err := validateCandidate(c); err != nil {
		return "", "", err
	}

	var txID string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM transactions WHERE workspace_id = ? AND hash = ?`,
		workspaceID, c.Hash).Scan(&txID)
	if err == nil {
		return model.DuplicateStatusExact, txID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("failed to check exact duplicate: %w", err)
	}

	windowStart := c.Date.Add(-potentialDuplicateWindow)
	windowEnd := c.Date.Add(potentialDuplicateWindow)
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM transactions
		 WHERE workspace_id = ? AND ABS(amount - ?) < 0.005 AND date BETWEEN ? AND ?
		 ORDER BY date, id LIMIT 1`,
		workspaceID, c.Amount, windowStart, windowEnd).Scan(&txID)
	if err == nil {
		return model.DuplicateStatusPotential, txID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("failed to check potential duplicate: %w", err)
	}

	return model.DuplicateStatusNew, "", nil
}

// InsertCandidates adds parsed candidates to the workspace's review session.
// IDs are assigned here; selection starts cleared for every row.
func (s *SQLiteStorage) InsertCandidates(ctx context.Context, workspaceID string, candidates []model.ImportCandidate) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(workspaceID, "workspaceID"); err != nil {
		return 0, err
	}
	if err := validateCandidates(candidates); err != nil {
		return 0, err
	}

	inserted := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO pending_candidates (
				id, workspace_id, hash, date, payee, category, account_id,
				amount, duplicate_status, duplicate_of, selected
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, c := range candidates {
			id := c.ID
			if id == "" {
				id = uuid.New().String()
			}
			status := c.DuplicateStatus
			if status == "" {
				status = model.DuplicateStatusNew
			}
			if _, err := stmt.ExecContext(ctx,
				id, workspaceID, c.Hash, c.Date, c.Payee, c.Category,
				c.AccountID, c.Amount, string(status), c.DuplicateOf); err != nil {
				return fmt.Errorf("failed to insert candidate: %w", err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// GetPendingPage returns one page of the review backlog in stable order
// (posting date, then ID).
func (s *SQLiteStorage) GetPendingPage(ctx context.Context, workspaceID string, pageNumber, pageSize int) (*model.ReviewPage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(workspaceID, "workspaceID"); err != nil {
		return nil, err
	}
	if err := validatePage(pageNumber, pageSize); err != nil {
		return nil, err
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pending_candidates WHERE workspace_id = ?`, workspaceID).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hash, date, payee, category, account_id, amount,
		       duplicate_status, duplicate_of, selected
		FROM pending_candidates
		WHERE workspace_id = ?
		ORDER BY date, id
		LIMIT ? OFFSET ?`,
		workspaceID, pageSize, (pageNumber-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]model.ImportCandidate, 0, pageSize)
	for rows.Next() {
		var c model.ImportCandidate
		var category, accountID, duplicateOf sql.NullString
		var status string
		if err := rows.Scan(&c.ID, &c.Hash, &c.Date, &c.Payee, &category,
			&accountID, &c.Amount, &status, &duplicateOf, &c.Selected); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		c.Category = category.String
		c.AccountID = accountID.String
		c.DuplicateOf = duplicateOf.String
		c.DuplicateStatus = model.DuplicateStatus(status)
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize

	return &model.ReviewPage{
		Items: items,
		Meta: model.PageMeta{
			TotalCount: total,
			PageSize:   pageSize,
			PageNumber: pageNumber,
			TotalPages: totalPages,
		},
	}, nil
}

// GetReviewSummary aggregates the whole backlog for a workspace.
func (s *SQLiteStorage) GetReviewSummary(ctx context.Context, workspaceID string) (*model.ReviewSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(workspaceID, "workspaceID"); err != nil {
		return nil, err
	}

	var summary model.ReviewSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN selected THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN duplicate_status = 'potential' THEN 1 ELSE 0 END), 0)
		FROM pending_candidates
		WHERE workspace_id = ?`, workspaceID).
		Scan(&summary.TotalCount, &summary.SelectedCount, &summary.PotentialDuplicateCount)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate review summary: %w", err)
	}

	return &summary, nil
}

// SetSelection sets the selection flag on the requested candidates. Every key
// must name a pending candidate in the workspace; otherwise nothing is
// changed and ErrNotFound is returned.
func (s *SQLiteStorage) SetSelection(ctx context.Context, workspaceID string, req model.SelectionRequest) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(workspaceID, "workspaceID"); err != nil {
		return err
	}
	if len(req.Keys) == 0 {
		return fmt.Errorf("%w: keys", ErrEmptySlice)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`UPDATE pending_candidates SET selected = ? WHERE workspace_id = ? AND id = ?`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, key := range req.Keys {
			res, err := stmt.ExecContext(ctx, req.Selected, workspaceID, key)
			if err != nil {
				return fmt.Errorf("failed to update selection: %w", err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read rows affected: %w", err)
			}
			if affected == 0 {
				return fmt.Errorf("%w: candidate %s", common.ErrNotFound, key)
			}
		}
		return nil
	})
}

// SelectAll marks every pending candidate in the workspace selected.
func (s *SQLiteStorage) SelectAll(ctx context.Context, workspaceID string) error {
	return s.setAllSelection(ctx, workspaceID, true)
}

// DeselectAll clears the selection flag across the workspace.
func (s *SQLiteStorage) DeselectAll(ctx context.Context, workspaceID string) error {
	return s.setAllSelection(ctx, workspaceID, false)
}

func (s *SQLiteStorage) setAllSelection(ctx context.Context, workspaceID string, selected bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(workspaceID, "workspaceID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE pending_candidates SET selected = ? WHERE workspace_id = ?`,
		selected, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to update selection: %w", err)
	}
	return nil
}

// CompleteReview commits the selected candidates into the ledger and discards
// the rest, all in one database transaction. Selection is entirely store-side
// state, so no key list is taken.
func (s *SQLiteStorage) CompleteReview(ctx context.Context, workspaceID string) (*model.CommitResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(workspaceID, "workspaceID"); err != nil {
		return nil, err
	}

	var result model.CommitResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var total, selected int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*), COALESCE(SUM(CASE WHEN selected THEN 1 ELSE 0 END), 0)
			FROM pending_candidates WHERE workspace_id = ?`, workspaceID).
			Scan(&total, &selected)
		if err != nil {
			return fmt.Errorf("failed to count candidates: %w", err)
		}
		if selected == 0 {
			return fmt.Errorf("%w: cannot complete review", common.ErrNothingSelected)
		}

		// INSERT OR IGNORE so re-importing an exact duplicate the user
		// selected anyway cannot violate the ledger's hash uniqueness
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO transactions (
				id, workspace_id, hash, date, payee, category, account_id, amount
			)
			SELECT id, workspace_id, hash, date, payee, category, account_id, amount
			FROM pending_candidates
			WHERE workspace_id = ? AND selected`, workspaceID)
		if err != nil {
			return fmt.Errorf("failed to commit selected candidates: %w", err)
		}
		accepted, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM pending_candidates WHERE workspace_id = ?`, workspaceID); err != nil {
			return fmt.Errorf("failed to clear review session: %w", err)
		}

		result.AcceptedCount = int(accepted)
		result.RejectedCount = total - selected
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteAllPending discards the workspace's review session without committing.
func (s *SQLiteStorage) DeleteAllPending(ctx context.Context, workspaceID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(workspaceID, "workspaceID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM pending_candidates WHERE workspace_id = ?`, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete pending candidates: %w", err)
	}
	return nil
}
