package model

// PageMeta carries pagination metadata for a review page.
type PageMeta struct {
	TotalCount int `json:"totalCount"`
	PageSize   int `json:"pageSize"`
	PageNumber int `json:"pageNumber"`
	TotalPages int `json:"totalPages"`
}

// ReviewPage is one paginated slice of the pending review backlog. Its
// contents are a snapshot; toggles from other sessions are not reflected
// until re-fetch.
type ReviewPage struct {
	Items []ImportCandidate `json:"items"`
	Meta  PageMeta          `json:"metadata"`
}

// ReviewSummary aggregates the whole backlog for a workspace, independent of
// which page is displayed. SelectedCount is recomputed authoritatively
// server-side and always satisfies 0 <= SelectedCount <= TotalCount there.
type ReviewSummary struct {
	TotalCount              int `json:"totalCount"`
	SelectedCount           int `json:"selectedCount"`
	PotentialDuplicateCount int `json:"potentialDuplicateCount"`
}

// SelectionRequest asks the server to set the selection flag on a set of
// candidates. It is a transient command, never persisted client-side.
type SelectionRequest struct {
	Keys     []string `json:"keys"`
	Selected bool     `json:"isSelected"`
}

// CommitResult reports the outcome of completing a review session.
type CommitResult struct {
	AcceptedCount int `json:"acceptedCount"`
	RejectedCount int `json:"rejectedCount"`
}

// UploadResult reports the outcome of uploading a single statement file.
// RowErrors are row-level parse failures that did not abort the upload.
type UploadResult struct {
	RowErrors     []string `json:"errors"`
	ImportedCount int      `json:"importedCount"`
}
