// Package refresh tracks whether a background article refresh is running and
// publishes every state change to subscribers.
package refresh

import (
	"log/slog"
	"sync"

	"github.com/mmcdole/xyzreader/internal/domain"
)

// Broadcaster holds the process-wide refreshing flag.
// It is safe for concurrent use. Observers are called synchronously in
// subscription order and see states in the order they were set. An observer
// must not call back into the broadcaster other than Refreshing.
type Broadcaster struct {
	// notifyMu is held from setting a state until every observer has it.
	notifyMu sync.Mutex

	mu         sync.Mutex
	refreshing bool
	nextID     int
	observers  map[int]domain.RefreshObserver
	order      []int
	logger     *slog.Logger
}

// NewBroadcaster creates a broadcaster in the not-refreshing state.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		observers: make(map[int]domain.RefreshObserver),
		logger:    logger,
	}
}

// OnRefreshStarted sets the state to refreshing and notifies subscribers.
func (b *Broadcaster) OnRefreshStarted() {
	b.publish(true)
}

// OnRefreshFinished clears the refreshing state and notifies subscribers.
// It is also the call to make when a refresh fails.
func (b *Broadcaster) OnRefreshFinished() {
	b.publish(false)
}

// Refreshing reports the current state.
func (b *Broadcaster) Refreshing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshing
}

// Subscribe registers an observer. The observer is immediately told the
// current state. The returned func removes it and is safe to call twice.
func (b *Broadcaster) Subscribe(o domain.RefreshObserver) (unsubscribe func()) {
	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.observers[id] = o
	b.order = append(b.order, id)
	state := b.refreshing
	b.mu.Unlock()

	o.OnRefreshStateChanged(state)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.observers, id)
			for i, oid := range b.order {
				if oid == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *Broadcaster) publish(refreshing bool) {
	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()

	b.mu.Lock()
	b.refreshing = refreshing
	targets := make([]domain.RefreshObserver, 0, len(b.order))
	for _, id := range b.order {
		targets = append(targets, b.observers[id])
	}
	b.mu.Unlock()

	b.logger.Debug("refresh state", "refreshing", refreshing, "observers", len(targets))
	for _, o := range targets {
		o.OnRefreshStateChanged(refreshing)
	}
}
