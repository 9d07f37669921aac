package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennyflow/pennyflow/internal/common"
	"github.com/pennyflow/pennyflow/internal/model"
)

func TestCreateAndGetWorkspace(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	ws, err := store.CreateWorkspace(ctx, "Household", model.RoleOwner)
	require.NoError(t, err)
	assert.NotEmpty(t, ws.ID)
	assert.Equal(t, "Household", ws.Name)
	assert.Equal(t, model.RoleOwner, ws.Role)

	got, err := store.GetWorkspace(ctx, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, ws.ID, got.ID)
	assert.Equal(t, ws.Name, got.Name)
	assert.Equal(t, ws.Role, got.Role)
}

func TestCreateWorkspace_DuplicateName(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateWorkspace(ctx, "Household", model.RoleOwner)
	require.NoError(t, err)

	_, err = store.CreateWorkspace(ctx, "Household", model.RoleEditor)
	require.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestGetWorkspace_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetWorkspace(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestListWorkspaces(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	first, err := store.CreateWorkspace(ctx, "First", model.RoleOwner)
	require.NoError(t, err)
	_, err = store.CreateWorkspace(ctx, "Second", model.RoleEditor)
	require.NoError(t, err)

	workspaces, err := store.ListWorkspaces(ctx)
	require.NoError(t, err)
	require.Len(t, workspaces, 2)
	assert.Equal(t, first.ID, workspaces[0].ID)
}

func TestCreateWorkspace_DefaultsToOwner(t *testing.T) {
	store := newTestStorage(t)

	ws, err := store.CreateWorkspace(context.Background(), "Defaulted", "")
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, ws.Role)
}
