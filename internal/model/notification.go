package model

import "time"

// NotificationLevel classifies a user-facing notification.
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
	NotificationInfo    NotificationLevel = "info"
)

// Notification is a transient message addressed to the client.
type Notification struct {
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Notifier receives user-facing notifications.
type Notifier interface {
	Notify(level NotificationLevel, message string)
}
