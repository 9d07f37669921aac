// Package client implements the review store contract over HTTP, talking to
// a remote pennyflow API server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pennyflow/pennyflow/internal/common"
	"github.com/pennyflow/pennyflow/internal/model"
	"github.com/pennyflow/pennyflow/internal/service"
)

// Client talks to a remote review store API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retryOpts  service.RetryOptions
}

// New creates a client for the API at baseURL.
func New(baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: server URL", common.ErrMissingConfig)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid server URL: %v", common.ErrInvalidConfig, err)
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryOpts: service.RetryOptions{MaxAttempts: 3, InitialDelay: 200 * time.Millisecond},
	}, nil
}

// UploadFile sends one statement file as multipart form data.
func (c *Client) UploadFile(ctx context.Context, workspaceID, filename string, file io.Reader) (*model.UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read statement file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/workspaces/%s/import", c.baseURL, workspaceID), &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result model.UploadResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPendingReview fetches one page of pending candidates. Safe to retry.
func (c *Client) GetPendingReview(ctx context.Context, workspaceID string, pageNumber, pageSize int) (*model.ReviewPage, error) {
	u := fmt.Sprintf("%s/api/workspaces/%s/review?page=%s&pageSize=%s",
		c.baseURL, workspaceID,
		strconv.Itoa(pageNumber), strconv.Itoa(pageSize))

	var page model.ReviewPage
	err := common.WithRetry(ctx, func() error {
		return retryClass(c.getJSON(ctx, u, &page))
	}, c.retryOpts)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetReviewSummary fetches the workspace-wide aggregate counts. Safe to retry.
func (c *Client) GetReviewSummary(ctx context.Context, workspaceID string) (*model.ReviewSummary, error) {
	u := fmt.Sprintf("%s/api/workspaces/%s/review/summary", c.baseURL, workspaceID)

	var summary model.ReviewSummary
	err := common.WithRetry(ctx, func() error {
		return retryClass(c.getJSON(ctx, u, &summary))
	}, c.retryOpts)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// SetSelection applies a selection mutation. Not retried: callers reconcile
// by reloading on failure instead.
func (c *Client) SetSelection(ctx context.Context, workspaceID string, req model.SelectionRequest) error {
	return c.sendJSON(ctx, http.MethodPut,
		fmt.Sprintf("%s/api/workspaces/%s/review/selection", c.baseURL, workspaceID), req, nil)
}

// SelectAll marks every pending candidate selected.
func (c *Client) SelectAll(ctx context.Context, workspaceID string) error {
	return c.sendJSON(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/workspaces/%s/review/select-all", c.baseURL, workspaceID), nil, nil)
}

// DeselectAll clears every selection flag.
func (c *Client) DeselectAll(ctx context.Context, workspaceID string) error {
	return c.sendJSON(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/workspaces/%s/review/deselect-all", c.baseURL, workspaceID), nil, nil)
}

// CompleteReview commits the selected candidates.
func (c *Client) CompleteReview(ctx context.Context, workspaceID string) (*model.CommitResult, error) {
	var result model.CommitResult
	err := c.sendJSON(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/workspaces/%s/review/complete", c.baseURL, workspaceID), nil, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteAllPendingReview discards the review session.
func (c *Client) DeleteAllPendingReview(ctx context.Context, workspaceID string) error {
	return c.sendJSON(ctx, http.MethodDelete,
		fmt.Sprintf("%s/api/workspaces/%s/review", c.baseURL, workspaceID), nil, nil)
}

// CreateWorkspace creates a workspace on the server.
func (c *Client) CreateWorkspace(ctx context.Context, name string, role model.Role) (*model.Workspace, error) {
	payload := map[string]any{"name": name, "role": role}
	var ws model.Workspace
	err := c.sendJSON(ctx, http.MethodPost, c.baseURL+"/api/workspaces", payload, &ws)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// GetWorkspace fetches a workspace by ID.
func (c *Client) GetWorkspace(ctx context.Context, id string) (*model.Workspace, error) {
	var ws model.Workspace
	if err := c.getJSON(ctx, fmt.Sprintf("%s/api/workspaces/%s", c.baseURL, id), &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

// ListWorkspaces fetches all workspaces.
func (c *Client) ListWorkspaces(ctx context.Context) ([]model.Workspace, error) {
	var workspaces []model.Workspace
	if err := c.getJSON(ctx, c.baseURL+"/api/workspaces", &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}

// ListTransactions fetches committed ledger rows.
func (c *Client) ListTransactions(ctx context.Context, workspaceID string, limit, offset int) ([]model.Transaction, error) {
	u := fmt.Sprintf("%s/api/workspaces/%s/transactions?limit=%d&offset=%d",
		c.baseURL, workspaceID, limit, offset)

	var transactions []model.Transaction
	if err := c.getJSON(ctx, u, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) sendJSON(ctx context.Context, method, u string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

// do executes a request, decoding either the success payload or a structured
// problem-details error. Responses that are neither are wrapped generically
// so raw transport detail never leaks into user-facing messages.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeProblem(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// retryClass marks client errors as non-retryable so backoff is spent only
// on transport failures, rate limits and server errors.
func retryClass(err error) error {
	if err == nil {
		return nil
	}
	if problem, ok := common.AsProblem(err); ok && problem.Status < 500 {
		if problem.Status == http.StatusTooManyRequests {
			return errors.Join(common.ErrRateLimit, err)
		}
		return &common.RetryableError{Err: err, Retryable: false}
	}
	return err
}

// decodeProblem turns an error response into a ProblemDetails when the body
// carries one, falling back to a status-derived problem otherwise.
func decodeProblem(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(body) > 0 {
		var problem common.ProblemDetails
		if jsonErr := json.Unmarshal(body, &problem); jsonErr == nil && problem.Title != "" {
			if problem.Status == 0 {
				problem.Status = resp.StatusCode
			}
			return &problem
		}
	}

	return &common.ProblemDetails{
		Title:  http.StatusText(resp.StatusCode),
		Status: resp.StatusCode,
	}
}
