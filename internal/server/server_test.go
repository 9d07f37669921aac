package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennyflow/pennyflow/internal/common"
	"github.com/pennyflow/pennyflow/internal/importer"
	"github.com/pennyflow/pennyflow/internal/model"
	"github.com/pennyflow/pennyflow/internal/storage"
)

const testStatement = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func newTestServer(t *testing.T) (*httptest.Server, *importer.Service) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	svc := importer.New(store)
	ts := httptest.NewServer(New(svc).Router())
	t.Cleanup(ts.Close)
	return ts, svc
}

func createTestWorkspace(t *testing.T, ts *httptest.Server, name string) model.Workspace {
	t.Helper()
	return createTestWorkspaceWithRole(t, ts, name, model.RoleOwner)
}

func createTestWorkspaceWithRole(t *testing.T, ts *httptest.Server, name string, role model.Role) model.Workspace {
	t.Helper()

	body := strings.NewReader(fmt.Sprintf(`{"name":%q,"role":%q}`, name, role))
	resp, err := http.Post(ts.URL+"/api/workspaces", "application/json", body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var ws model.Workspace
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ws))
	require.NotEmpty(t, ws.ID)
	return ws
}

func uploadTestStatement(t *testing.T, ts *httptest.Server, workspaceID string) model.UploadResult {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "checking.ofx")
	require.NoError(t, err)
	_, err = part.Write([]byte(testStatement))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp, err := http.Post(ts.URL+"/api/workspaces/"+workspaceID+"/import",
		writer.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result model.UploadResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func decodeProblem(t *testing.T, resp *http.Response) common.ProblemDetails {
	t.Helper()

	var problem common.ProblemDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&problem))
	return problem
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWorkspaceLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	created := createTestWorkspace(t, ts, "Household")
	assert.Equal(t, model.RoleOwner, created.Role)

	resp, err := http.Get(ts.URL + "/api/workspaces/" + created.ID)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched model.Workspace
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Household", fetched.Name)
}

func TestGetWorkspaceNotFoundProblem(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/workspaces/no-such-id")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	problem := decodeProblem(t, resp)
	assert.Equal(t, "Not Found", problem.Title)
	assert.Equal(t, http.StatusNotFound, problem.Status)
	assert.NotEmpty(t, problem.Detail)
}

func TestListWorkspacesEmptyIsArray(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/workspaces")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestUploadStatement(t *testing.T) {
	ts, _ := newTestServer(t)
	ws := createTestWorkspace(t, ts, "Checking")

	result := uploadTestStatement(t, ts, ws.ID)
	assert.Equal(t, 2, result.ImportedCount)
	assert.Empty(t, result.RowErrors)
}

func TestUploadStatementMissingFile(t *testing.T) {
	ts, _ := newTestServer(t)
	ws := createTestWorkspace(t, ts, "Checking")

	resp, err := http.Post(ts.URL+"/api/workspaces/"+ws.ID+"/import",
		"application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	problem := decodeProblem(t, resp)
	assert.Equal(t, "Bad Request", problem.Title)
}

func TestReviewPageAndSummary(t *testing.T) {
	ts, _ := newTestServer(t)
	ws := createTestWorkspace(t, ts, "Checking")
	uploadTestStatement(t, ts, ws.ID)

	resp, err := http.Get(ts.URL + "/api/workspaces/" + ws.ID + "/review?page=1&pageSize=10")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page model.ReviewPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Meta.TotalCount)
	for _, item := range page.Items {
		assert.False(t, item.Selected)
		assert.Equal(t, model.DuplicateStatusNew, item.DuplicateStatus)
	}

	sumResp, err := http.Get(ts.URL + "/api/workspaces/" + ws.ID + "/review/summary")
	require.NoError(t, err)
	defer func() { _ = sumResp.Body.Close() }()
	require.Equal(t, http.StatusOK, sumResp.StatusCode)

	var summary model.ReviewSummary
	require.NoError(t, json.NewDecoder(sumResp.Body).Decode(&summary))
	assert.Equal(t, 2, summary.TotalCount)
	assert.Equal(t, 0, summary.SelectedCount)
}

func TestSelectionEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)
	ws := createTestWorkspace(t, ts, "Checking")
	uploadTestStatement(t, ts, ws.ID)

	resp, err := http.Get(ts.URL + "/api/workspaces/" + ws.ID + "/review")
	require.NoError(t, err)
	var page model.ReviewPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	_ = resp.Body.Close()
	require.NotEmpty(t, page.Items)

	payload, err := json.Marshal(model.SelectionRequest{
		Keys:     []string{page.Items[0].ID},
		Selected: true,
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut,
		ts.URL+"/api/workspaces/"+ws.ID+"/review/selection", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	putResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = putResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, putResp.StatusCode)

	allResp, err := http.Post(ts.URL+"/api/workspaces/"+ws.ID+"/review/select-all", "", nil)
	require.NoError(t, err)
	_ = allResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, allResp.StatusCode)

	sumResp, err := http.Get(ts.URL + "/api/workspaces/" + ws.ID + "/review/summary")
	require.NoError(t, err)
	var summary model.ReviewSummary
	require.NoError(t, json.NewDecoder(sumResp.Body).Decode(&summary))
	_ = sumResp.Body.Close()
	assert.Equal(t, summary.TotalCount, summary.SelectedCount)

	noneResp, err := http.Post(ts.URL+"/api/workspaces/"+ws.ID+"/review/deselect-all", "", nil)
	require.NoError(t, err)
	_ = noneResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, noneResp.StatusCode)
}

func TestSetSelectionUnknownKeyProblem(t *testing.T) {
	ts, _ := newTestServer(t)
	ws := createTestWorkspace(t, ts, "Checking")
	uploadTestStatement(t, ts, ws.ID)

	payload, err := json.Marshal(model.SelectionRequest{
		Keys:     []string{"not-a-candidate"},
		Selected: true,
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut,
		ts.URL+"/api/workspaces/"+ws.ID+"/review/selection", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	problem := decodeProblem(t, resp)
	assert.Equal(t, "Not Found", problem.Title)
}

func TestViewerRoleCannotMutate(t *testing.T) {
	ts, _ := newTestServer(t)
	ws := createTestWorkspaceWithRole(t, ts, "Shared", model.RoleViewer)

	resp, err := http.Post(ts.URL+"/api/workspaces/"+ws.ID+"/review/select-all", "", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	problem := decodeProblem(t, resp)
	assert.Equal(t, "Forbidden", problem.Title)
	assert.Equal(t, http.StatusForbidden, problem.Status)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "checking.ofx")
	require.NoError(t, err)
	_, err = part.Write([]byte(testStatement))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	upResp, err := http.Post(ts.URL+"/api/workspaces/"+ws.ID+"/import",
		writer.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer func() { _ = upResp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, upResp.StatusCode)

	// Reads stay open to viewers
	sumResp, err := http.Get(ts.URL + "/api/workspaces/" + ws.ID + "/review/summary")
	require.NoError(t, err)
	defer func() { _ = sumResp.Body.Close() }()
	assert.Equal(t, http.StatusOK, sumResp.StatusCode)
}

func TestViewerRoleCannotCommitOrDiscard(t *testing.T) {
	ts, _ := newTestServer(t)
	ws := createTestWorkspaceWithRole(t, ts, "Shared", model.RoleViewer)

	resp, err := http.Post(ts.URL+"/api/workspaces/"+ws.ID+"/review/complete", "", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete,
		ts.URL+"/api/workspaces/"+ws.ID+"/review", nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = delResp.Body.Close()
	assert.Equal(t, http.StatusForbidden, delResp.StatusCode)
}

func TestCompleteReview(t *testing.T) {
	ts, _ := newTestServer(t)
	ws := createTestWorkspace(t, ts, "Checking")
	uploadTestStatement(t, ts, ws.ID)

	allResp, err := http.Post(ts.URL+"/api/workspaces/"+ws.ID+"/review/select-all", "", nil)
	require.NoError(t, err)
	_ = allResp.Body.Close()

	resp, err := http.Post(ts.URL+"/api/workspaces/"+ws.ID+"/review/complete", "", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result model.CommitResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 2, result.AcceptedCount)
	assert.Equal(t, 0, result.RejectedCount)

	txResp, err := http.Get(ts.URL + "/api/workspaces/" + ws.ID + "/transactions")
	require.NoError(t, err)
	defer func() { _ = txResp.Body.Close() }()
	require.Equal(t, http.StatusOK, txResp.StatusCode)

	var transactions []model.Transaction
	require.NoError(t, json.NewDecoder(txResp.Body).Decode(&transactions))
	assert.Len(t, transactions, 2)
}

func TestCompleteReviewNothingSelectedConflict(t *testing.T) {
	ts, _ := newTestServer(t)
	ws := createTestWorkspace(t, ts, "Checking")
	uploadTestStatement(t, ts, ws.ID)

	resp, err := http.Post(ts.URL+"/api/workspaces/"+ws.ID+"/review/complete", "", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusConflict, resp.StatusCode)
	problem := decodeProblem(t, resp)
	assert.Equal(t, "Conflict", problem.Title)
}

func TestDiscardPendingReview(t *testing.T) {
	ts, _ := newTestServer(t)
	ws := createTestWorkspace(t, ts, "Checking")
	uploadTestStatement(t, ts, ws.ID)

	req, err := http.NewRequest(http.MethodDelete,
		ts.URL+"/api/workspaces/"+ws.ID+"/review", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	sumResp, err := http.Get(ts.URL + "/api/workspaces/" + ws.ID + "/review/summary")
	require.NoError(t, err)
	defer func() { _ = sumResp.Body.Close() }()

	var summary model.ReviewSummary
	require.NoError(t, json.NewDecoder(sumResp.Body).Decode(&summary))
	assert.Equal(t, 0, summary.TotalCount)
}
