package notify

import (
	"context"
	"sync"

	"github.com/yourorg/trading-dashboard/internal/model"
)

// DefaultFeedSize bounds the notifications kept per session
const DefaultFeedSize = 50

// Feed keeps a session's undelivered notifications. The oldest are dropped once full.
type Feed struct {
	mu    sync.Mutex
	items []model.Notification
	limit int
}

// NewFeed creates a feed holding at most limit notifications
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = DefaultFeedSize
	}
	return &Feed{limit: limit}
}

// Notify appends n to the feed
func (f *Feed) Notify(_ context.Context, n model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, n)
	if over := len(f.items) - f.limit; over > 0 {
		f.items = append([]model.Notification(nil), f.items[over:]...)
	}
	return nil
}

// Drain returns pending notifications oldest first and empties the feed
func (f *Feed) Drain() []model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.items
	f.items = nil
	if out == nil {
		out = []model.Notification{}
	}
	return out
}

// Len returns the number of pending notifications
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
