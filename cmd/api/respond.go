package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahilmalhotra/vidtube/internal/database"
	"github.com/sahilmalhotra/vidtube/pkg/models"
)

// respond writes the uniform success envelope.
func respond(c *gin.Context, statusCode int, data any, message string) {
	c.JSON(statusCode, models.NewAPIResponse(statusCode, data, message))
}

func respondOK(c *gin.Context, data any, message string) {
	respond(c, http.StatusOK, data, message)
}

func respondCreated(c *gin.Context, data any, message string) {
	respond(c, http.StatusCreated, data, message)
}

// fail writes the uniform error envelope.
func fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	})
}

func failBadRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, message)
}

func failUnauthorized(c *gin.Context, message string) {
	fail(c, http.StatusUnauthorized, message)
}

func failNotFound(c *gin.Context, message string) {
	fail(c, http.StatusNotFound, message)
}

func failConflict(c *gin.Context, message string) {
	fail(c, http.StatusConflict, message)
}

func failInternal(c *gin.Context, message string) {
	fail(c, http.StatusInternalServerError, message)
}

// failStoreError maps repository sentinel errors onto HTTP statuses.
// ErrNotFound doubles as the ownership failure signal: owner-guarded
// mutations report 404 rather than disclosing that the resource exists.
func failStoreError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		failNotFound(c, notFoundMsg)
	case errors.Is(err, database.ErrDuplicate):
		failConflict(c, "resource already exists")
	default:
		failInternal(c, "internal server error")
	}
}
