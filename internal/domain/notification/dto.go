package notification

import "time"

// NotifyRequest carries the (date, title, message) triple to present.
type NotifyRequest struct {
	Type    NotificationType
	Date    time.Time
	Title   string
	Message string
	Data    map[string]interface{}
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        string                 `json:"id"`
	Type      NotificationType       `json:"type"`
	Date      string                 `json:"date"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// NotificationListResponse lists the most recent notifications, newest first.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
}
