package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"job-board-backend/pkg/logger"
)

// LocalStorage writes objects under a base directory served over HTTP.
type LocalStorage struct {
	basePath string
	baseURL  string
}

func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}
	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	logger.Log.Info("initialized local storage", "base_path", absPath)
	return &LocalStorage{basePath: absPath, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *LocalStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateKey(key); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

// BasePath is the directory to expose as a static route.
func (s *LocalStorage) BasePath() string {
	return s.basePath
}
