// Package notify delivers fire-and-forget operator notifications on signup,
// contact and processing events. Delivery is best-effort: failures are
// logged and never surfaced to callers.
package notify

import (
	"context"
	"log"
)

// Notifier sends a short operator-facing message.
type Notifier interface {
	Notify(ctx context.Context, subject, message string) error
}

// Fire sends in the background and swallows the error.
func Fire(n Notifier, subject, message string) {
	if n == nil {
		return
	}
	go func() {
		if err := n.Notify(context.Background(), subject, message); err != nil {
			log.Printf("notify %q: %v", subject, err)
		}
	}()
}

// Noop discards every notification.
type Noop struct{}

func (Noop) Notify(ctx context.Context, subject, message string) error { return nil }
