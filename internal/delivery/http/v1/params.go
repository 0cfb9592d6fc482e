package v1

import (
	"io"
	"strconv"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// currentUserID returns the authenticated user's id set by AuthMiddleware.
func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(string(domain.KeyUserID))
}

// pathID parses a positive integer path parameter. On failure it records a
// 400 on the context and returns false.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.Error(apperror.BadRequest("Invalid ID format"))
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.Error(apperror.BadRequest(validation.Message(err)))
		return false
	}
	return true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// readUpload reads the multipart file in field, stopping one byte past limit
// so oversized files still fail the size policy without being buffered whole.
func readUpload(c *gin.Context, field string, limit int64) (domain.FileUpload, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		c.Error(apperror.BadRequest("File is required in field '" + field + "'"))
		return domain.FileUpload{}, false
	}
	f, err := header.Open()
	if err != nil {
		c.Error(apperror.BadRequest("Uploaded file could not be read"))
		return domain.FileUpload{}, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		c.Error(apperror.BadRequest("Uploaded file could not be read"))
		return domain.FileUpload{}, false
	}
	return domain.FileUpload{Filename: header.Filename, Data: data}, true
}
