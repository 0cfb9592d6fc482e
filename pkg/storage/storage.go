// Package storage stores uploaded résumés and logos on local disk or in an
// S3-compatible bucket.
package storage

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("storage: invalid key")

// NewKey builds a unique object key under prefix, keeping the extension.
func NewKey(prefix, ext string) string {
	ext = strings.ToLower(ext)
	return path.Join(prefix, time.Now().UTC().Format("2006/01"), uuid.NewString()+ext)
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
