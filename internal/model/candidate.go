// Package model defines the core domain types shared across the application.
package model

import "time"

// DuplicateStatus classifies an import candidate against the committed ledger.
type DuplicateStatus string

// Duplicate classifications assigned during upload.
const (
	DuplicateStatusNew       DuplicateStatus = "new"
	DuplicateStatusExact     DuplicateStatus = "exact"
	DuplicateStatusPotential DuplicateStatus = "potential"
)

// IsValid reports whether the status is one of the known classifications.
func (d DuplicateStatus) IsValid() bool {
	switch d {
	case DuplicateStatusNew, DuplicateStatusExact, DuplicateStatusPotential:
		return true
	}
	return false
}

// ImportCandidate is a parsed statement row awaiting import confirmation.
// The server owns the Selected flag; any client copy is a cache that may be
// briefly stale while a selection mutation is in flight.
type ImportCandidate struct {
	Date            time.Time       `json:"date"`
	ID              string          `json:"id"`
	Payee           string          `json:"payee"`
	Category        string          `json:"category,omitempty"`
	DuplicateOf     string          `json:"duplicateOf,omitempty"`
	Hash            string          `json:"-"`
	AccountID       string          `json:"accountId,omitempty"`
	DuplicateStatus DuplicateStatus `json:"duplicateStatus"`
	Amount          float64         `json:"amount"`
	Selected        bool            `json:"isSelected"`
}
