package review

import (
	"context"
	"fmt"

	"github.com/pennyflow/pennyflow/internal/common"
	"github.com/pennyflow/pennyflow/internal/model"
)

// CommitState tracks the two-phase commit flow.
type CommitState int

// Commit states. A successful commit closes the session; a failed one
// returns to Idle with the session untouched.
const (
	StateIdle CommitState = iota
	StateConfirmationShown
	StateCommitting
)

// Confirmation is the summary shown before the user commits: what will be
// imported, what will be discarded, and how many potential duplicates are
// among the selected.
type Confirmation struct {
	SelectedCount           int
	DiscardCount            int
	PotentialDuplicateCount int
}

// CommitStatus returns the current commit-flow state.
func (s *Session) CommitStatus() CommitState {
	return s.commitState
}

// BeginCommit opens the confirmation step. It refuses when nothing is
// selected, and when the cached summary already shows zero it refuses
// without touching the store.
func (s *Session) BeginCommit(ctx context.Context) (*Confirmation, error) {
	s.modalErr = nil

	if err := s.requireWorkspace(); err != nil {
		return nil, err
	}

	// A cached summary showing zero selected refuses immediately, before
	// any store traffic.
	if s.summary != nil && s.summary.SelectedCount == 0 {
		return nil, common.ErrNothingSelected
	}

	// Read the authoritative counts for display
	if err := s.LoadSummary(ctx); err != nil {
		return nil, err
	}
	if s.summary.SelectedCount == 0 {
		return nil, common.ErrNothingSelected
	}

	s.commitState = StateConfirmationShown
	return &Confirmation{
		SelectedCount:           s.summary.SelectedCount,
		DiscardCount:            s.summary.TotalCount - s.summary.SelectedCount,
		PotentialDuplicateCount: s.summary.PotentialDuplicateCount,
	}, nil
}

// CancelCommit closes the confirmation step with no store interaction.
func (s *Session) CancelCommit() {
	if s.commitState == StateConfirmationShown {
		s.commitState = StateIdle
	}
}

// ConfirmCommit finalizes the import. No key list is sent; selection is
// entirely store-side state. On success the review session is closed and the
// local cache cleared. On failure the confirmation closes, the error is
// surfaced on the modal banner, and the candidates remain pending for
// another attempt.
func (s *Session) ConfirmCommit(ctx context.Context) (*model.CommitResult, error) {
	if s.commitState != StateConfirmationShown {
		return nil, fmt.Errorf("commit not confirmed")
	}
	s.commitState = StateCommitting

	result, err := s.store.CompleteReview(ctx, s.workspace.ID)
	if err != nil {
		s.commitState = StateIdle
		s.setModalError("Failed to import transactions", err)
		return nil, fmt.Errorf("failed to complete review: %w", err)
	}

	s.commitState = StateIdle
	s.page = nil
	s.summary = nil
	s.upload = nil
	s.closed = true

	return result, nil
}
