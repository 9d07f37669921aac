package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pennyflow/pennyflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrEmptySlice       = errors.New("slice cannot be empty")
	ErrInvalidPage      = errors.New("invalid page parameters")
	ErrInvalidCandidate = errors.New("invalid import candidate")
	ErrInvalidWorkspace = errors.New("invalid workspace")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validatePage ensures pagination parameters are usable.
func validatePage(pageNumber, pageSize int) error {
	if pageNumber < 1 {
		return fmt.Errorf("%w: page number %d", ErrInvalidPage, pageNumber)
	}
	if pageSize < 1 || pageSize > 500 {
		return fmt.Errorf("%w: page size %d", ErrInvalidPage, pageSize)
	}
	return nil
}

// validateCandidates validates a slice of import candidates.
func validateCandidates(candidates []model.ImportCandidate) error {
	if candidates == nil {
		return fmt.Errorf("%w: candidates", ErrNilParameter)
	}
	if len(candidates) == 0 {
		return fmt.Errorf("%w: candidates", ErrEmptySlice)
	}

	for i, c := range candidates {
		if err := validateCandidate(&c); err != nil {
			return fmt.Errorf("candidate at index %d: %w", i, err)
		}
	}
	return nil
}

// validateCandidate validates a single import candidate.
func validateCandidate(c *model.ImportCandidate) error {
	if c == nil {
		return fmt.Errorf("%w: candidate", ErrNilParameter)
	}
	if c.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidCandidate)
	}
	if c.Payee == "" {
		return fmt.Errorf("%w: missing payee", ErrInvalidCandidate)
	}
	if c.DuplicateStatus != "" && !c.DuplicateStatus.IsValid() {
		return fmt.Errorf("%w: unknown duplicate status %q", ErrInvalidCandidate, c.DuplicateStatus)
	}
	return nil
}

// validateWorkspace validates a workspace.
func validateWorkspace(w *model.Workspace) error {
	if w == nil {
		return fmt.Errorf("%w: workspace", ErrNilParameter)
	}
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidWorkspace)
	}
	if !w.Role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidWorkspace, w.Role)
	}
	return nil
}
