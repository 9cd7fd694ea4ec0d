package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeAttendanceRecorded NotificationType = "attendance_recorded"
	TypeAttendanceManual   NotificationType = "attendance_manual"
)

// Notification is a user-visible message about an attendance result.
type Notification struct {
	ID        string
	Type      NotificationType
	Date      time.Time
	Title     string
	Message   string
	Data      map[string]interface{}
	CreatedAt time.Time
}
