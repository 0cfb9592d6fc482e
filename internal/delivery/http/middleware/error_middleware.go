package middleware

import (
	"errors"
	"net/http"

	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Kind != apperror.KindInternal {
			if appErr.Err != nil {
				logger.Log.Warn("Request failed",
					"kind", appErr.Kind,
					"path", c.FullPath(),
					"error", appErr.Err,
				)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Kind)
			return
		}

		// Internal details stay in the logs.
		reqID, _ := c.Get("RequestID")
		logger.Log.Error("Internal server error",
			"path", c.FullPath(),
			"request_id", reqID,
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", apperror.KindInternal)
	}
}
