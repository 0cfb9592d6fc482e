package response

import (
	"job-board-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Response standardizes the API JSON response
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorBody  `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorBody carries the machine-readable error classification.
type ErrorBody struct {
	Kind apperror.Kind `json:"kind"`
}

// RequestID returns the id set by the RequestID middleware, if any.
func RequestID(c *gin.Context) string {
	reqID, _ := c.Get("RequestID")
	idStr, _ := reqID.(string)
	return idStr
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: RequestID(c),
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string, kind apperror.Kind) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     &ErrorBody{Kind: kind},
		RequestID: RequestID(c),
	})
}
