package api

import (
	"log/slog"
	"net/http"

	"github.com/JorgeSaicoski/resource-planner/internal/fault"
	"github.com/gin-gonic/gin"
)

// Response helpers for the envelope every endpoint speaks:
// {success, data?, count?, message?, error?, details?}.

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// List is OK plus the element count, for collection endpoints.
func List(c *gin.Context, data any, count int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"count":   count,
	})
}

func Message(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"message": message,
	})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
		"message": message,
	})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   message,
	})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error":   message,
	})
}

func Conflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, gin.H{
		"success": false,
		"error":   message,
	})
}

// Internal answers with a generic error plus the underlying detail string,
// and logs the failure server-side.
func Internal(c *gin.Context, message string, err error) {
	slog.Error(message, "err", err, "path", c.Request.URL.Path)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   message,
		"details": err.Error(),
	})
}

// Error maps a service error onto the envelope using the fault taxonomy.
// Anything outside the taxonomy is treated as internal.
func Error(c *gin.Context, err error, internalMessage string) {
	switch {
	case fault.IsValidation(err):
		BadRequest(c, err.Error())
	case fault.IsNotFound(err):
		NotFound(c, err.Error())
	case fault.IsConflict(err):
		Conflict(c, err.Error())
	default:
		Internal(c, internalMessage, err)
	}
}
