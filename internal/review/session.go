// Package review implements the client-side import review controller: an
// optimistic cache of the current candidate page and workspace summary,
// reconciled against the authoritative review store whenever a mutation
// fails. The store may be remote (HTTP) or local; the session only sees the
// contract.
package review

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pennyflow/pennyflow/internal/common"
	"github.com/pennyflow/pennyflow/internal/model"
	"github.com/pennyflow/pennyflow/internal/service"
)

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 25

// ErrSessionClosed is returned for operations issued after a successful
// commit has closed the review session.
var ErrSessionClosed = errors.New("review session closed")

// ErrorRecord is a displayable error banner: a title and detail line.
// Exactly one is tracked per region (page vs. confirmation modal).
type ErrorRecord struct {
	Title  string
	Detail string
}

// Session coordinates the import review workflow for one workspace. All
// cached state is a client-side mirror of the store; on any mutation failure
// the whole cache is discarded and reloaded, so the server always wins over
// a speculative local edit.
//
// A Session is driven from a single goroutine, mirroring the event-loop
// nature of the workflow; it is not safe for concurrent use.
type Session struct {
	store     service.ReviewStore
	workspace *model.Workspace

	page    *model.ReviewPage
	summary *model.ReviewSummary
	upload  *model.UploadStatus

	pageErr  *ErrorRecord
	modalErr *ErrorRecord

	commitState CommitState
	pageSize    int
	closed      bool
}

// NewSession creates a review session for a workspace. A nil workspace is
// allowed; every operation will then fail its local precondition check
// without touching the store.
func NewSession(store service.ReviewStore, workspace *model.Workspace) *Session {
	return &Session{
		store:     store,
		workspace: workspace,
		pageSize:  DefaultPageSize,
	}
}

// SetPageSize overrides the page size for subsequent page loads.
func (s *Session) SetPageSize(size int) {
	if size > 0 {
		s.pageSize = size
	}
}

// Page returns the cached candidate page, or nil before the first load.
func (s *Session) Page() *model.ReviewPage {
	return s.page
}

// Summary returns the cached workspace summary, or nil before the first load.
func (s *Session) Summary() *model.ReviewSummary {
	return s.summary
}

// UploadStatus returns the status pane for the most recent upload batch.
func (s *Session) UploadStatus() *model.UploadStatus {
	return s.upload
}

// DismissUploadStatus discards the upload status pane.
func (s *Session) DismissUploadStatus() {
	s.upload = nil
}

// PageError returns the page-level error banner, if any.
func (s *Session) PageError() *ErrorRecord {
	return s.pageErr
}

// ModalError returns the confirmation-modal error banner, if any.
func (s *Session) ModalError() *ErrorRecord {
	return s.modalErr
}

// Closed reports whether the session was closed by a successful commit.
func (s *Session) Closed() bool {
	return s.closed
}

// requireWorkspace checks the local preconditions shared by every review
// operation: a workspace must be selected and must grant edit rights. No
// network call is made when these fail.
func (s *Session) requireWorkspace() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.workspace == nil {
		return common.ErrNoWorkspace
	}
	if !s.workspace.Role.CanEdit() {
		return common.ErrPermissionDenied
	}
	return nil
}

// setPageError records the page-level banner for an operation failure,
// surfacing structured payloads verbatim and hiding raw text otherwise.
func (s *Session) setPageError(title string, err error) {
	s.pageErr = recordFor(title, err)
}

// setModalError records the modal-level banner.
func (s *Session) setModalError(title string, err error) {
	s.modalErr = recordFor(title, err)
}

func recordFor(title string, err error) *ErrorRecord {
	if problem, ok := common.AsProblem(err); ok {
		rec := &ErrorRecord{Title: title, Detail: problem.Detail}
		if rec.Detail == "" {
			rec.Detail = problem.Title
		}
		return rec
	}
	var userErr *common.UserError
	switch {
	case errors.Is(err, common.ErrNoWorkspace):
		return &ErrorRecord{Title: title, Detail: "No workspace is selected."}
	case errors.Is(err, common.ErrPermissionDenied):
		return &ErrorRecord{Title: title, Detail: "You do not have permission to modify this workspace."}
	case errors.As(err, &userErr):
		return &ErrorRecord{Title: title, Detail: userErr.UserMessage}
	default:
		return &ErrorRecord{Title: title, Detail: "An unexpected error occurred."}
	}
}

// reconcile discards the cached page and summary and reloads both from the
// store. It is the universal recovery path after a failed mutation: rather
// than rolling back individual optimistic edits, the authoritative state is
// re-fetched wholesale.
func (s *Session) reconcile(ctx context.Context) {
	pageNumber := 1
	if s.page != nil {
		pageNumber = s.page.Meta.PageNumber
	}
	s.page = nil
	s.summary = nil

	page, err := s.store.GetPendingReview(ctx, s.workspace.ID, pageNumber, s.pageSize)
	if err != nil {
		slog.Warn("Reconciliation page reload failed", "error", err)
	} else {
		s.page = page
	}

	summary, err := s.store.GetReviewSummary(ctx, s.workspace.ID)
	if err != nil {
		slog.Warn("Reconciliation summary reload failed", "error", err)
	} else {
		s.summary = summary
	}
}
