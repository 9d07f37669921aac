package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pennyflow/pennyflow/internal/common"
	"github.com/pennyflow/pennyflow/internal/model"
)

// CreateWorkspace creates a new workspace with the given name and role.
func (s *SQLiteStorage) CreateWorkspace(ctx context.Context, name string, role model.Role) (*model.Workspace, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	ws := model.Workspace{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if ws.Role == "" {
		ws.Role = model.RoleOwner
	}
	if err := validateWorkspace(&ws); err != nil {
		return nil, err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workspaces (id, name, role, created_at) VALUES (?, ?, ?, ?)`,
		ws.ID, ws.Name, string(ws.Role), ws.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, fmt.Errorf("%w: workspace %q", common.ErrDuplicateEntry, ws.Name)
		}
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	return &ws, nil
}

// GetWorkspace returns a workspace by ID.
func (s *SQLiteStorage) GetWorkspace(ctx context.Context, id string) (*model.Workspace, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var ws model.Workspace
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, role, created_at FROM workspaces WHERE id = ?`, id).
		Scan(&ws.ID, &ws.Name, &role, &ws.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: workspace %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	ws.Role = model.Role(role)

	return &ws, nil
}

// ListWorkspaces returns all workspaces ordered by creation time.
func (s *SQLiteStorage) ListWorkspaces(ctx context.Context) ([]model.Workspace, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, role, created_at FROM workspaces ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var workspaces []model.Workspace
	for rows.Next() {
		var ws model.Workspace
		var role string
		if err := rows.Scan(&ws.ID, &ws.Name, &role, &ws.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		ws.Role = model.Role(role)
		workspaces = append(workspaces, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workspaces: %w", err)
	}

	return workspaces, nil
}
