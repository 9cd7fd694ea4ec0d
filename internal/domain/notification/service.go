package notification

import (
	"context"

	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/sse"
)

// Sink receives results that should be shown to the user. Delivery is best
// effort and never affects attendance correctness.
type Sink interface {
	Notify(ctx context.Context, req NotifyRequest) error
}

// Service defines the notification service interface
type Service interface {
	Sink

	// Recent returns up to limit delivered notifications, newest first.
	Recent(ctx context.Context, limit int) (*NotificationListResponse, error)

	// Subscribe registers an SSE subscriber; call the returned func to unsubscribe.
	Subscribe(ctx context.Context) (chan sse.Event, func())

	// Stop drains the queue and stops the worker.
	Stop()
}
