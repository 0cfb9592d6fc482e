package usecase

import (
	"context"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/logger"
)

// publish emits a domain event. Failures are logged, never returned.
func publish(ctx context.Context, publisher domain.EventPublisher, eventType string, payload any) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, eventType, payload); err != nil {
		logger.Log.Warn("Failed to publish domain event",
			"event_type", eventType,
			"error", err,
		)
	}
}
