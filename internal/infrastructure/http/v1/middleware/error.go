package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/infrastructure/storage/postgres"
	"dealerdesk/pkg/logger"
)

// ErrorHandler shapes every error registered on the Gin context into the
// JSON error body. Handlers never write error responses themselves; they
// call c.Error and abort.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		// A handler that already wrote a response wins.
		if c.Writer.Written() {
			return
		}

		status := http.StatusInternalServerError
		var body gin.H

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}
			status = appErr.HTTPStatus
			body = gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
				"details": appErr.Details,
			}
		} else {
			logger.Error(c.Request.Context(), "unhandled error", "error", err)
			body = gin.H{
				"code":    apperror.CodeInternal,
				"message": "Internal server error",
				"details": map[string]any{
					"request_id": c.GetString("request_id"),
				},
			}
		}

		failIdempotency(c, status, body)
		c.JSON(status, body)
	}
}

// failIdempotency settles the request's idempotency key, if any, with the
// exact error body so a retry replays the same verdict.
func failIdempotency(c *gin.Context, status int, body gin.H) {
	key, exists := c.Get("idempotency_key")
	if !exists {
		return
	}
	store, ok := c.Get("idempotency_store")
	if !ok {
		return
	}
	if s, ok := store.(*postgres.IdempotencyStore); ok && s != nil {
		_ = s.FailKey(c.Request.Context(), key.(string), status, "application/json", body)
	}
}
