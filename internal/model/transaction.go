package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction is a committed ledger row. Candidates become transactions when
// a review session is completed.
type Transaction struct {
	Date        time.Time `json:"date"`
	ID          string    `json:"id"`
	Payee       string    `json:"payee"`
	Category    string    `json:"category,omitempty"`
	AccountID   string    `json:"accountId,omitempty"`
	Hash        string    `json:"-"`
	WorkspaceID string    `json:"workspaceId"`
	Amount      float64   `json:"amount"`
}

// GenerateHash creates a stable fingerprint for duplicate detection. Two rows
// with the same posting date, amount, payee and account are considered the
// same transaction regardless of which file they arrived in.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Payee,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// CandidateHash computes the same fingerprint for an import candidate so it
// can be matched against committed transactions.
func CandidateHash(c *ImportCandidate) string {
	t := Transaction{
		Date:      c.Date,
		Payee:     c.Payee,
		AccountID: c.AccountID,
		Amount:    c.Amount,
	}
	return t.GenerateHash()
}
