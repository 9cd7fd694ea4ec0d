package notification

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/notification"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/clock"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/sse"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/workday"
	"github.com/google/uuid"
)

// Topic is the SSE topic attendance notifications are published on.
const Topic = "attendance"

// Config holds notification service configuration
type Config struct {
	QueueSize   int // default: 100
	HistorySize int // default: 50
}

type service struct {
	hub    *sse.Hub
	clock  clock.Clock
	config Config

	queue  chan notification.NotifyRequest
	wg     sync.WaitGroup
	stopCh chan struct{}
	once   sync.Once

	mu      sync.RWMutex
	history []notification.Notification
}

// NewNotificationService creates the notification service and starts its worker
func NewNotificationService(hub *sse.Hub, clk clock.Clock, cfg Config) notification.Service {
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 100
	}
	if cfg.HistorySize == 0 {
		cfg.HistorySize = 50
	}
	if clk == nil {
		clk = clock.System()
	}

	s := &service{
		hub:    hub,
		clock:  clk,
		config: cfg,
		queue:  make(chan notification.NotifyRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.worker()

	slog.Info("Notification service started", "queue_size", cfg.QueueSize)

	return s
}

// worker delivers queued notifications until Stop is called
func (s *service) worker() {
	defer s.wg.Done()

	for {
		select {
		case req := <-s.queue:
			s.deliver(req)
		case <-s.stopCh:
			for {
				select {
				case req := <-s.queue:
					s.deliver(req)
				default:
					return
				}
			}
		}
	}
}

func (s *service) deliver(req notification.NotifyRequest) {
	n := notification.Notification{
		ID:        uuid.New().String(),
		Type:      req.Type,
		Date:      req.Date,
		Title:     req.Title,
		Message:   req.Message,
		Data:      req.Data,
		CreatedAt: s.clock.Now(),
	}

	s.mu.Lock()
	s.history = append([]notification.Notification{n}, s.history...)
	if len(s.history) > s.config.HistorySize {
		s.history = s.history[:s.config.HistorySize]
	}
	s.mu.Unlock()

	delivered := s.hub.Publish(Topic, sse.Event{
		ID:    n.ID,
		Event: "notification",
		Data:  toResponse(n),
	})

	slog.Info("Notification delivered",
		"type", n.Type,
		"date", workday.Key(n.Date),
		"title", n.Title,
		"message", n.Message,
		"subscribers", delivered)
}

// Notify queues a notification for async delivery
func (s *service) Notify(ctx context.Context, req notification.NotifyRequest) error {
	select {
	case <-s.stopCh:
		return notification.ErrServiceClosed
	default:
	}

	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return notification.ErrQueueFull
	}
}

// Recent implements notification.Service.
func (s *service) Recent(ctx context.Context, limit int) (*notification.NotificationListResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}

	items := make([]notification.NotificationResponse, 0, limit)
	for _, n := range s.history[:limit] {
		items = append(items, toResponse(n))
	}

	return &notification.NotificationListResponse{
		Notifications: items,
		Total:         len(s.history),
	}, nil
}

// Subscribe implements notification.Service.
func (s *service) Subscribe(ctx context.Context) (chan sse.Event, func()) {
	return s.hub.Subscribe(Topic)
}

// Stop implements notification.Service.
func (s *service) Stop() {
	s.once.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("Notification service stopped")
	})
}

func toResponse(n notification.Notification) notification.NotificationResponse {
	return notification.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Date:      workday.Key(n.Date),
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		CreatedAt: n.CreatedAt,
	}
}
