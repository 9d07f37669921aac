package review

import (
	"context"
	"fmt"
)

// LoadPage fetches one page of pending candidates and makes it the current
// page. The workspace and permission preconditions are checked locally; when
// they fail, no network call is made and the error is surfaced as the page
// banner.
func (s *Session) LoadPage(ctx context.Context, pageNumber int) error {
	s.pageErr = nil

	if err := s.requireWorkspace(); err != nil {
		s.setPageError("Failed to load transactions", err)
		return err
	}
	if pageNumber < 1 {
		pageNumber = 1
	}

	page, err := s.store.GetPendingReview(ctx, s.workspace.ID, pageNumber, s.pageSize)
	if err != nil {
		s.setPageError("Failed to load transactions", err)
		return fmt.Errorf("failed to load page %d: %w", pageNumber, err)
	}

	s.page = page
	return nil
}

// LoadSummary fetches the workspace-wide aggregate counts. It is independent
// of LoadPage: a selection toggle may refresh only the summary, leaving the
// page cache intact to avoid flicker.
func (s *Session) LoadSummary(ctx context.Context) error {
	if err := s.requireWorkspace(); err != nil {
		return err
	}

	summary, err := s.store.GetReviewSummary(ctx, s.workspace.ID)
	if err != nil {
		return fmt.Errorf("failed to load review summary: %w", err)
	}

	s.summary = summary
	return nil
}

// Refresh reloads the current page and the summary.
func (s *Session) Refresh(ctx context.Context) error {
	pageNumber := 1
	if s.page != nil {
		pageNumber = s.page.Meta.PageNumber
	}
	if err := s.LoadPage(ctx, pageNumber); err != nil {
		return err
	}
	return s.LoadSummary(ctx)
}

// Discard deletes every pending candidate in the workspace and clears the
// local cache. Unlike commit, nothing reaches the ledger.
func (s *Session) Discard(ctx context.Context) error {
	s.pageErr = nil

	if err := s.requireWorkspace(); err != nil {
		s.setPageError("Failed to discard pending transactions", err)
		return err
	}

	if err := s.store.DeleteAllPendingReview(ctx, s.workspace.ID); err != nil {
		s.setPageError("Failed to discard pending transactions", err)
		s.reconcile(ctx)
		return fmt.Errorf("failed to discard review session: %w", err)
	}

	s.page = nil
	s.summary = nil
	s.upload = nil
	return nil
}
