package review

import (
	"context"
	"fmt"

	"github.com/pennyflow/pennyflow/internal/model"
)

// ToggleSelection flips a candidate's selection flag. The local copy and the
// cached summary count are updated optimistically before the store call; if
// the call fails there is no fine-grained rollback — the cache is discarded
// and reloaded, because the store's state always wins.
func (s *Session) ToggleSelection(ctx context.Context, key string) error {
	s.pageErr = nil

	if err := s.requireWorkspace(); err != nil {
		s.setPageError("Failed to update transaction selection", err)
		return err
	}
	if s.page == nil {
		return fmt.Errorf("no page loaded")
	}

	candidate := s.findCandidate(key)
	if candidate == nil {
		return fmt.Errorf("candidate %s is not on the current page", key)
	}

	// Optimistic flip before the network call resolves. The count stays
	// clamped to [0, TotalCount]: the cached summary can lag the page, and
	// a speculative edit must not push it outside the invariant.
	newValue := !candidate.Selected
	candidate.Selected = newValue
	if s.summary != nil {
		if newValue && s.summary.SelectedCount < s.summary.TotalCount {
			s.summary.SelectedCount++
		} else if !newValue && s.summary.SelectedCount > 0 {
			s.summary.SelectedCount--
		}
	}

	err := s.store.SetSelection(ctx, s.workspace.ID, model.SelectionRequest{
		Keys:     []string{key},
		Selected: newValue,
	})
	if err != nil {
		s.setPageError("Failed to update transaction selection", err)
		s.reconcile(ctx)
		return fmt.Errorf("failed to update selection for %s: %w", key, err)
	}

	return nil
}

// SelectAll marks every pending candidate in the workspace selected. The
// visible page is marked optimistically and the cached selected count is set
// to the backlog total; the summary is re-fetched after the store call
// succeeds since the optimistic value is an approximation when multiple
// pages exist.
func (s *Session) SelectAll(ctx context.Context) error {
	return s.setAll(ctx, true)
}

// DeselectAll clears the selection flag across the workspace.
func (s *Session) DeselectAll(ctx context.Context) error {
	return s.setAll(ctx, false)
}

func (s *Session) setAll(ctx context.Context, selected bool) error {
	s.pageErr = nil

	if err := s.requireWorkspace(); err != nil {
		s.setPageError("Failed to update transaction selection", err)
		return err
	}

	// Optimistic page-wide mark
	if s.page != nil {
		for i := range s.page.Items {
			s.page.Items[i].Selected = selected
		}
	}
	if s.summary != nil {
		if selected {
			s.summary.SelectedCount = s.summary.TotalCount
		} else {
			s.summary.SelectedCount = 0
		}
	}

	var err error
	if selected {
		err = s.store.SelectAll(ctx, s.workspace.ID)
	} else {
		err = s.store.DeselectAll(ctx, s.workspace.ID)
	}
	if err != nil {
		s.setPageError("Failed to update transaction selection", err)
		s.reconcile(ctx)
		return fmt.Errorf("failed to update bulk selection: %w", err)
	}

	// Correct the approximation with the authoritative count
	if loadErr := s.LoadSummary(ctx); loadErr != nil {
		return loadErr
	}

	return nil
}

func (s *Session) findCandidate(key string) *model.ImportCandidate {
	for i := range s.page.Items {
		if s.page.Items[i].ID == key {
			return &s.page.Items[i]
		}
	}
	return nil
}
