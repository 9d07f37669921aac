// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"io"
	"time"

	"github.com/pennyflow/pennyflow/internal/model"
)

// ReviewStore is the contract for the import review session backing a
// workspace. It is implemented both by the HTTP client (remote mode) and by
// the local importer service over SQLite. Selection state is authoritative in
// the store; callers that cache it must reconcile by re-fetching.
type ReviewStore interface {
	// UploadFile parses one statement file into pending candidates for the
	// workspace, classifying each row against the committed ledger. Row-level
	// parse failures are reported in the result, not as an error.
	UploadFile(ctx context.Context, workspaceID, filename string, file io.Reader) (*model.UploadResult, error)

	// GetPendingReview returns one page of pending candidates in stable order.
	GetPendingReview(ctx context.Context, workspaceID string, pageNumber, pageSize int) (*model.ReviewPage, error)

	// GetReviewSummary returns workspace-wide aggregate counts for the whole
	// backlog, independent of pagination.
	GetReviewSummary(ctx context.Context, workspaceID string) (*model.ReviewSummary, error)

	// SetSelection sets the selection flag on the candidates named in the
	// request.
	SetSelection(ctx context.Context, workspaceID string, req model.SelectionRequest) error

	// SelectAll marks every pending candidate in the workspace selected.
	SelectAll(ctx context.Context, workspaceID string) error

	// DeselectAll clears the selection flag on every pending candidate.
	DeselectAll(ctx context.Context, workspaceID string) error

	// CompleteReview commits the currently selected candidates into the
	// ledger and discards the rest. No key list is sent; selection is
	// entirely store-side state.
	CompleteReview(ctx context.Context, workspaceID string) (*model.CommitResult, error)

	// DeleteAllPendingReview discards the whole review session without
	// committing anything.
	DeleteAllPendingReview(ctx context.Context, workspaceID string) error
}

// WorkspaceStore manages workspaces and the committed ledger.
type WorkspaceStore interface {
	CreateWorkspace(ctx context.Context, name string, role model.Role) (*model.Workspace, error)
	GetWorkspace(ctx context.Context, id string) (*model.Workspace, error)
	ListWorkspaces(ctx context.Context) ([]model.Workspace, error)
	ListTransactions(ctx context.Context, workspaceID string, limit, offset int) ([]model.Transaction, error)
}

// RetryOptions configures retry behavior for store operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
