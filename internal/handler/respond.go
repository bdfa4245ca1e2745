package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/studorg/portal-api/internal/apperr"
	"github.com/studorg/portal-api/internal/dto"
)

// statusText maps HTTP statuses to the short error labels used in responses.
func statusText(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Bad request"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Not found"
	case http.StatusConflict:
		return "Conflict"
	case http.StatusTooManyRequests:
		return "Too Many Requests"
	default:
		return "Internal server error"
	}
}

// respondError translates a service error into an HTTP error response. The
// wrapped cause of internal errors is logged, never sent to the client.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	appErr := apperr.From(err)

	if appErr.Status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(appErr.Status, dto.ErrorResponse{
			Error:   statusText(appErr.Status),
			Message: "internal server error",
		})
		return
	}

	c.JSON(appErr.Status, dto.ErrorResponse{
		Error:   statusText(appErr.Status),
		Message: appErr.Message,
		Code:    appErr.Code,
	})
}

// respondBindError reports a request body or query validation failure.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Validation failed",
		Message: err.Error(),
	})
}
