// Package response writes the JSON envelope shared by every API route.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the {success, data, error} envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

// Success writes 200 with data.
func Success(c *gin.Context, data interface{}) {
	ok(c, http.StatusOK, data)
}

// Created writes 201 with the new resource.
func Created(c *gin.Context, data interface{}) {
	ok(c, http.StatusCreated, data)
}

// NoContent writes an empty 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error writes a failure envelope. Middleware must still call c.Abort.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Error: message})
}

// BadRequest writes 400.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized writes 401.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// TooManyRequests writes 429.
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, message)
}

// InternalError writes 500 without leaking the cause. Record the cause
// with c.Error before calling it.
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal server error")
}
