package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pennyflow/pennyflow/internal/common"
	"github.com/pennyflow/pennyflow/internal/storage"
)

// writeProblem renders a structured problem-details payload.
func writeProblem(c *gin.Context, status int, title, detail string) {
	c.JSON(status, common.ProblemDetails{
		Title:  title,
		Detail: detail,
		Status: status,
	})
}

// writeError maps a service error onto a problem-details response.
func writeError(c *gin.Context, err error) {
	var userErr *common.UserError
	switch {
	case errors.As(err, &userErr):
		writeProblem(c, http.StatusBadRequest, "Bad Request", userErr.UserMessage)
	case errors.Is(err, common.ErrNotFound):
		writeProblem(c, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, common.ErrDuplicateEntry):
		writeProblem(c, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, common.ErrNothingSelected):
		writeProblem(c, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, storage.ErrInvalidPage),
		errors.Is(err, storage.ErrEmptySlice),
		errors.Is(err, storage.ErrEmptyString),
		errors.Is(err, storage.ErrInvalidCandidate),
		errors.Is(err, storage.ErrInvalidWorkspace):
		writeProblem(c, http.StatusBadRequest, "Bad Request", err.Error())
	default:
		// Raw internal error text stays out of the response
		writeProblem(c, http.StatusInternalServerError, "Internal Server Error", "an unexpected error occurred")
	}
}
