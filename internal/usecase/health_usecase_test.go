package usecase_test

import (
	"context"
	"errors"
	"testing"

	"job-board-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestHealthUsecase_Check(t *testing.T) {
	up := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	status, healthy := usecase.NewHealthUsecase(map[string]usecase.HealthCheck{"database": up, "redis": up}).Check(context.Background())
	assert.True(t, healthy)
	assert.Equal(t, map[string]string{"status": "ok", "database": "ok", "redis": "ok"}, status)

	status, healthy = usecase.NewHealthUsecase(map[string]usecase.HealthCheck{"database": up, "redis": down}).Check(context.Background())
	assert.False(t, healthy)
	assert.Equal(t, "degraded", status["status"])
	assert.Equal(t, "down", status["redis"])
}
