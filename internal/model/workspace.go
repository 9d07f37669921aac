package model

import "time"

// Role is a user's permission level within a workspace.
type Role string

// Workspace roles, weakest to strongest.
const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleOwner  Role = "owner"
)

// CanEdit reports whether the role permits mutating workspace data,
// including the import review session.
func (r Role) CanEdit() bool {
	return r == RoleEditor || r == RoleOwner
}

// IsValid reports whether the role is one of the known levels.
func (r Role) IsValid() bool {
	switch r {
	case RoleViewer, RoleEditor, RoleOwner:
		return true
	}
	return false
}

// Workspace is an isolated container of financial data. Each workspace has
// its own committed ledger and at most one pending review session.
type Workspace struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
}
