package common

import (
	"errors"
	"fmt"
)

// ProblemDetails is the structured error payload exchanged with the review
// store API: a short title, a human-readable detail, and the HTTP status
// when one applies. Transport failures and other unstructured errors never
// produce one; callers fall back to generic messaging for those.
type ProblemDetails struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status,omitempty"`
}

func (p *ProblemDetails) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// AsProblem extracts a structured problem payload from an error chain.
func AsProblem(err error) (*ProblemDetails, bool) {
	var p *ProblemDetails
	if errors.As(err, &p) {
		return p, true
	}
	return nil, false
}
