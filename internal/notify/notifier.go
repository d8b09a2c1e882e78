// Package notify delivers operation outcomes to the places a session can see them.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yourorg/trading-dashboard/internal/model"
)

// Notifier receives user-visible notifications
type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, n model.Notification) error

// Notify calls f
func (f NotifierFunc) Notify(ctx context.Context, n model.Notification) error {
	return f(ctx, n)
}

// Multi delivers to every notifier and joins their errors
type Multi []Notifier

// Notify fans n out to each notifier. A failing sink does not stop the others.
func (m Multi) Notify(ctx context.Context, n model.Notification) error {
	var errs []error
	for _, notifier := range m {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Scoped stamps notifications with a session before passing them on
type Scoped struct {
	SessionID string
	Next      Notifier
	now       func() time.Time
}

// NewScoped creates a notifier bound to one session
func NewScoped(sessionID string, next Notifier) *Scoped {
	return &Scoped{SessionID: sessionID, Next: next, now: time.Now}
}

// Notify fills the ID, session and timestamp when they are missing
func (s *Scoped) Notify(ctx context.Context, n model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.SessionID == "" {
		n.SessionID = s.SessionID
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	return s.Next.Notify(ctx, n)
}
