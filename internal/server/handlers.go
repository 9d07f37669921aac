package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pennyflow/pennyflow/internal/model"
	"github.com/pennyflow/pennyflow/internal/review"
)

// requireEditRole blocks review mutations on workspaces whose role grants
// read access only.
func (s *Server) requireEditRole(c *gin.Context) {
	ws, err := s.svc.GetWorkspace(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		c.Abort()
		return
	}
	if !ws.Role.CanEdit() {
		writeProblem(c, http.StatusForbidden, "Forbidden",
			"workspace role does not permit modifying pending transactions")
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) createWorkspace(c *gin.Context) {
	var payload struct {
		Name string     `json:"name"`
		Role model.Role `json:"role"`
	}
	if err := c.BindJSON(&payload); err != nil {
		writeProblem(c, http.StatusBadRequest, "Bad Request", "invalid payload")
		return
	}
	if payload.Role == "" {
		payload.Role = model.RoleOwner
	}

	ws, err := s.svc.CreateWorkspace(c.Request.Context(), payload.Name, payload.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ws)
}

func (s *Server) listWorkspaces(c *gin.Context) {
	workspaces, err := s.svc.ListWorkspaces(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if workspaces == nil {
		workspaces = []model.Workspace{}
	}
	c.JSON(http.StatusOK, workspaces)
}

func (s *Server) getWorkspace(c *gin.Context) {
	ws, err := s.svc.GetWorkspace(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

func (s *Server) uploadStatement(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		writeProblem(c, http.StatusBadRequest, "Bad Request", "statement file required")
		return
	}
	defer func() { _ = file.Close() }()

	result, err := s.svc.UploadFile(c.Request.Context(), c.Param("id"), header.Filename, file)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) getPendingReview(c *gin.Context) {
	pageNumber := intQuery(c, "page", 1)
	pageSize := intQuery(c, "pageSize", review.DefaultPageSize)

	page, err := s.svc.GetPendingReview(c.Request.Context(), c.Param("id"), pageNumber, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) getReviewSummary(c *gin.Context) {
	summary, err := s.svc.GetReviewSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) setSelection(c *gin.Context) {
	var req model.SelectionRequest
	if err := c.BindJSON(&req); err != nil {
		writeProblem(c, http.StatusBadRequest, "Bad Request", "invalid selection payload")
		return
	}

	if err := s.svc.SetSelection(c.Request.Context(), c.Param("id"), req); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) selectAll(c *gin.Context) {
	if err := s.svc.SelectAll(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deselectAll(c *gin.Context) {
	if err := s.svc.DeselectAll(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) completeReview(c *gin.Context) {
	result, err := s.svc.CompleteReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) deleteAllPending(c *gin.Context) {
	if err := s.svc.DeleteAllPendingReview(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listTransactions(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	transactions, err := s.svc.ListTransactions(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	if transactions == nil {
		transactions = []model.Transaction{}
	}
	c.JSON(http.StatusOK, transactions)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
