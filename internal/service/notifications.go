package service

import (
	"sync"
	"time"

	"github.com/dtroode/taskboard-server/internal/model"
)

// maxNotifications bounds a queue nobody drains.
const maxNotifications = 50

var _ model.Notifier = (*Notifications)(nil)

// Notifications queues user-facing messages until the next response picks
// them up. The oldest message is dropped once the queue is full.
type Notifications struct {
	mu    sync.Mutex
	items []model.Notification
	now   func() time.Time
}

// NewNotifications creates an empty queue.
func NewNotifications() *Notifications {
	return &Notifications{now: time.Now}
}

func (n *Notifications) Notify(level model.NotificationLevel, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.items) == maxNotifications {
		n.items = n.items[1:]
	}

	n.items = append(n.items, model.Notification{
		Level:     level,
		Message:   message,
		CreatedAt: n.now(),
	})
}

// Drain returns queued notifications in arrival order and empties the queue.
func (n *Notifications) Drain() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	items := n.items
	n.items = nil

	if items == nil {
		return []model.Notification{}
	}
	return items
}

// Len returns the number of queued notifications.
func (n *Notifications) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.items)
}
