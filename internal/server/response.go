package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"notehub/internal/domain"
)

// Response is the uniform response envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created writes a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// BadRequest writes a 400 response for payload validation failures.
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    http.StatusBadRequest,
		Message: err.Error(),
	})
}

// errorStatus maps each domain error kind to its HTTP status. Order matters
// only in that the first match wins.
var errorStatus = []struct {
	err    error
	status int
}{
	{domain.ErrNoteNotFound, http.StatusNotFound},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrInvalidRefreshToken, http.StatusBadRequest},
	{domain.ErrInvariant, http.StatusBadRequest},
}

// Error maps a domain error to its status via the lookup table. Anything not
// in the table is an operational failure: it is reported generically and the
// detail stays in the server logs.
func Error(c *gin.Context, err error) {
	for _, entry := range errorStatus {
		if errors.Is(err, entry.err) {
			c.JSON(entry.status, Response{
				Code:    entry.status,
				Message: err.Error(),
			})
			return
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, Response{
		Code:    http.StatusInternalServerError,
		Message: "internal server error",
	})
}
