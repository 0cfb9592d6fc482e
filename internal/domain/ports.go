package domain

import "context"

// Domain event names published to the message broker.
const (
	EventJobPublished             = "job.published"
	EventApplicationSubmitted     = "application.submitted"
	EventApplicationStatusChanged = "application.status_changed"
	EventSubscriptionReconciled   = "subscription.reconciled"
)

// EventPublisher emits domain events. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

type FileUpload struct {
	Filename string
	Data     []byte
}

// FileStorage stores uploaded objects and returns their public URL.
type FileStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
