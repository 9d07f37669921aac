// Package importer implements the review store locally by composing the OFX
// parser with SQLite storage. The HTTP server exposes this same service
// remotely.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pennyflow/pennyflow/internal/common"
	"github.com/pennyflow/pennyflow/internal/model"
	"github.com/pennyflow/pennyflow/internal/ofx"
	"github.com/pennyflow/pennyflow/internal/storage"
)

// Service implements service.ReviewStore over local storage.
type Service struct {
	parser *ofx.Parser
	store  *storage.SQLiteStorage
}

// New creates a review service backed by the given storage.
func New(store *storage.SQLiteStorage) *Service {
	return &Service{
		parser: ofx.NewParser(),
		store:  store,
	}
}

// UploadFile parses one statement file, classifies every row against the
// workspace's committed ledger, and adds the survivors to the review session.
// Row-level parse failures land in the result's error list; only a file that
// cannot be parsed at all is an error.
func (s *Service) UploadFile(ctx context.Context, workspaceID, filename string, file io.Reader) (*model.UploadResult, error) {
	if _, err := s.store.GetWorkspace(ctx, workspaceID); err != nil {
		return nil, err
	}

	candidates, rowErrors, err := s.parser.ParseFile(ctx, file)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("%s could not be parsed as an OFX statement", filename), err)
	}

	for i := range candidates {
		candidates[i].ID = uuid.New().String()
		status, ref, classifyErr := s.store.ClassifyCandidate(ctx, workspaceID, &candidates[i])
		if classifyErr != nil {
			return nil, classifyErr
		}
		candidates[i].DuplicateStatus = status
		candidates[i].DuplicateOf = ref
	}

	imported := 0
	if len(candidates) > 0 {
		imported, err = s.store.InsertCandidates(ctx, workspaceID, candidates)
		if err != nil {
			return nil, err
		}
	}

	slog.Info("Uploaded statement file",
		"workspace", workspaceID,
		"file", filename,
		"imported", imported,
		"row_errors", len(rowErrors))

	return &model.UploadResult{
		ImportedCount: imported,
		RowErrors:     rowErrors,
	}, nil
}

// GetPendingReview returns one page of pending candidates.
func (s *Service) GetPendingReview(ctx context.Context, workspaceID string, pageNumber, pageSize int) (*model.ReviewPage, error) {
	return s.store.GetPendingPage(ctx, workspaceID, pageNumber, pageSize)
}

// GetReviewSummary returns workspace-wide aggregate counts.
func (s *Service) GetReviewSummary(ctx context.Context, workspaceID string) (*model.ReviewSummary, error) {
	return s.store.GetReviewSummary(ctx, workspaceID)
}

// SetSelection applies a selection mutation.
func (s *Service) SetSelection(ctx context.Context, workspaceID string, req model.SelectionRequest) error {
	return s.store.SetSelection(ctx, workspaceID, req)
}

// SelectAll marks every pending candidate selected.
func (s *Service) SelectAll(ctx context.Context, workspaceID string) error {
	return s.store.SelectAll(ctx, workspaceID)
}

// DeselectAll clears every selection flag.
func (s *Service) DeselectAll(ctx context.Context, workspaceID string) error {
	return s.store.DeselectAll(ctx, workspaceID)
}

// CompleteReview commits the selected candidates and discards the rest.
func (s *Service) CompleteReview(ctx context.Context, workspaceID string) (*model.CommitResult, error) {
	return s.store.CompleteReview(ctx, workspaceID)
}

// DeleteAllPendingReview discards the review session without committing.
func (s *Service) DeleteAllPendingReview(ctx context.Context, workspaceID string) error {
	return s.store.DeleteAllPending(ctx, workspaceID)
}

// CreateWorkspace creates a new workspace.
func (s *Service) CreateWorkspace(ctx context.Context, name string, role model.Role) (*model.Workspace, error) {
	return s.store.CreateWorkspace(ctx, name, role)
}

// GetWorkspace returns a workspace by ID.
func (s *Service) GetWorkspace(ctx context.Context, id string) (*model.Workspace, error) {
	return s.store.GetWorkspace(ctx, id)
}

// ListWorkspaces returns all workspaces.
func (s *Service) ListWorkspaces(ctx context.Context) ([]model.Workspace, error) {
	return s.store.ListWorkspaces(ctx)
}

// ListTransactions returns committed ledger rows.
func (s *Service) ListTransactions(ctx context.Context, workspaceID string, limit, offset int) ([]model.Transaction, error) {
	return s.store.ListTransactions(ctx, workspaceID, limit, offset)
}
