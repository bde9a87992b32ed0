package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillforge/backend/pkg/apperr"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: err, Code: string(apperr.CodeBadInput)})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, err string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Error: err, Code: string(apperr.CodeUnauthenticated)})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, err string) {
	c.JSON(http.StatusForbidden, Body{Success: false, Error: err, Code: string(apperr.CodeForbidden)})
}

// NotFound sends 404.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, Body{Success: false, Error: err, Code: string(apperr.CodeNotFound)})
}

// Internal sends 500.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Error: err})
}

// Error maps a service-layer failure to the matching status code. Errors
// without an apperr code report 500 with a generic message so internals
// never leak to the client.
func Error(c *gin.Context, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		Internal(c, "internal error")
		return
	}
	switch e.Code {
	case apperr.CodeUnauthenticated:
		Unauthorized(c, e.Message)
	case apperr.CodeForbidden:
		Forbidden(c, e.Message)
	case apperr.CodeNotFound:
		NotFound(c, e.Message)
	case apperr.CodeBadInput:
		BadRequest(c, e.Message)
	default:
		Internal(c, "internal error")
	}
}
