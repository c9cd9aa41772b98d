package application

import "citysync-v0/internal/engine/domain"

// ChangeNotification carries the outcome of one sync cycle to
// downstream consumers. Unchanged buildings are not included.
type ChangeNotification struct {
	// UID correlates the notification with the cycle's log lines.
	UID     string
	Cycle   uint64
	Changes []domain.ChangeRecord
}

// Notifier receives a notification after each cycle that produced at
// least one change. Implementations must not block; the poller calls
// them synchronously between cycles.
type Notifier interface {
	NotifyChanges(n ChangeNotification)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(n ChangeNotification)

func (f NotifierFunc) NotifyChanges(n ChangeNotification) { f(n) }
