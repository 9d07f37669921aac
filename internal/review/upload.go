package review

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pennyflow/pennyflow/internal/common"
	"github.com/pennyflow/pennyflow/internal/model"
)

// File is one statement file queued for upload.
type File struct {
	Reader io.Reader
	Name   string
}

// UploadFiles imports a batch of statement files strictly in order. Files are
// never uploaded in parallel: status lines must read in batch order, and a
// handful of statements does not justify fan-out.
//
// Each file gets a transient "importing" line replaced by its terminal
// message; the batch severity only ever escalates. After the last file the
// first page and the summary are reloaded regardless of partial failures so
// that partial success is visible, and any upload error banner survives that
// reload.
func (s *Session) UploadFiles(ctx context.Context, files []File) error {
	s.pageErr = nil

	if err := s.requireWorkspace(); err != nil {
		s.setPageError("Failed to import transactions", err)
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files to upload")
	}

	// A new batch replaces any previous status pane
	s.upload = &model.UploadStatus{}

	var firstErr error
	for _, f := range files {
		s.upload.Append(fmt.Sprintf("Importing %s...", f.Name))

		result, err := s.store.UploadFile(ctx, s.workspace.ID, f.Name, f.Reader)
		if err != nil {
			s.upload.ReplaceLast(uploadFailureLine(f.Name, err))
			s.upload.Escalate(model.SeverityDanger)
			s.setPageError("Failed to import transactions", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to upload %s: %w", f.Name, err)
			}
			continue
		}

		s.upload.ReplaceLast(uploadResultLine(f.Name, result))
		if len(result.RowErrors) > 0 {
			s.upload.Escalate(model.SeverityWarning)
		} else {
			s.upload.Escalate(model.SeveritySuccess)
		}
	}

	// Reload even after failures so rows from files that did succeed show
	// up. The reload must not clear the upload error banner, so the page
	// and summary are fetched directly instead of going through LoadPage.
	s.reloadAfterUpload(ctx)

	return firstErr
}

// reloadAfterUpload fetches page 1 and the summary without touching the
// error banners set during the batch.
func (s *Session) reloadAfterUpload(ctx context.Context) {
	if page, err := s.store.GetPendingReview(ctx, s.workspace.ID, 1, s.pageSize); err == nil {
		s.page = page
	}
	if summary, err := s.store.GetReviewSummary(ctx, s.workspace.ID); err == nil {
		s.summary = summary
	}
}

func uploadResultLine(name string, result *model.UploadResult) string {
	if len(result.RowErrors) > 0 {
		return fmt.Sprintf("%s: %d transactions added, %d errors detected",
			name, result.ImportedCount, len(result.RowErrors))
	}
	return fmt.Sprintf("%s: %d transactions added", name, result.ImportedCount)
}

func uploadFailureLine(name string, err error) string {
	if problem, ok := common.AsProblem(err); ok {
		detail := problem.Detail
		if detail == "" {
			detail = problem.Title
		}
		return fmt.Sprintf("%s: %s", name, detail)
	}
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		return fmt.Sprintf("%s: %s", name, userErr.UserMessage)
	}
	return fmt.Sprintf("%s: import failed unexpectedly", name)
}
