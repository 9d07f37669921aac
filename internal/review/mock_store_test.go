package review

import (
	"context"
	"io"

	"github.com/pennyflow/pennyflow/internal/model"
)

// mockStore is a scriptable ReviewStore for controller tests. Each operation
// delegates to its function field; unset fields fail the test by returning
// zero values, which the assertions catch.
type mockStore struct {
	uploadFunc      func(workspaceID, filename string) (*model.UploadResult, error)
	getPageFunc     func(workspaceID string, pageNumber, pageSize int) (*model.ReviewPage, error)
	getSummaryFunc  func(workspaceID string) (*model.ReviewSummary, error)
	setSelection    func(workspaceID string, req model.SelectionRequest) error
	selectAllFunc   func(workspaceID string) error
	deselectAllFunc func(workspaceID string) error
	completeFunc    func(workspaceID string) (*model.CommitResult, error)
	deleteAllFunc   func(workspaceID string) error

	calls []string
}

func (m *mockStore) record(op string) {
	m.calls = append(m.calls, op)
}

func (m *mockStore) callCount(op string) int {
	n := 0
	for _, c := range m.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (m *mockStore) UploadFile(_ context.Context, workspaceID, filename string, _ io.Reader) (*model.UploadResult, error) {
	m.record("upload")
	if m.uploadFunc != nil {
		return m.uploadFunc(workspaceID, filename)
	}
	return &model.UploadResult{}, nil
}

func (m *mockStore) GetPendingReview(_ context.Context, workspaceID string, pageNumber, pageSize int) (*model.ReviewPage, error) {
	m.record("getPage")
	if m.getPageFunc != nil {
		return m.getPageFunc(workspaceID, pageNumber, pageSize)
	}
	return &model.ReviewPage{Meta: model.PageMeta{PageNumber: pageNumber, PageSize: pageSize, TotalPages: 1}}, nil
}

func (m *mockStore) GetReviewSummary(_ context.Context, workspaceID string) (*model.ReviewSummary, error) {
	m.record("getSummary")
	if m.getSummaryFunc != nil {
		return m.getSummaryFunc(workspaceID)
	}
	return &model.ReviewSummary{}, nil
}

func (m *mockStore) SetSelection(_ context.Context, workspaceID string, req model.SelectionRequest) error {
	m.record("setSelection")
	if m.setSelection != nil {
		return m.setSelection(workspaceID, req)
	}
	return nil
}

func (m *mockStore) SelectAll(_ context.Context, workspaceID string) error {
	m.record("selectAll")
	if m.selectAllFunc != nil {
		return m.selectAllFunc(workspaceID)
	}
	return nil
}

func (m *mockStore) DeselectAll(_ context.Context, workspaceID string) error {
	m.record("deselectAll")
	if m.deselectAllFunc != nil {
		return m.deselectAllFunc(workspaceID)
	}
	return nil
}

func (m *mockStore) CompleteReview(_ context.Context, workspaceID string) (*model.CommitResult, error) {
	m.record("complete")
	if m.completeFunc != nil {
		return m.completeFunc(workspaceID)
	}
	return &model.CommitResult{}, nil
}

func (m *mockStore) DeleteAllPendingReview(_ context.Context, workspaceID string) error {
	m.record("deleteAll")
	if m.deleteAllFunc != nil {
		return m.deleteAllFunc(workspaceID)
	}
	return nil
}
