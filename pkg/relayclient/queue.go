package relayclient

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultDisplayDuration is how long a displayed notification stays
// visible before it is removed automatically.
const DefaultDisplayDuration = 3 * time.Second

// Item is one queued notification awaiting display.
type Item struct {
	ID         string
	Event      Event
	EnqueuedAt time.Time
}

// Queue serializes notification display: items are processed strictly
// FIFO with at most one handler in flight, so concurrent events never
// collide on screen. The display lifetime of a shown item is a separate
// timer, independent of the processing gate.
type Queue struct {
	logger     zerolog.Logger
	displayFor time.Duration

	mu         sync.Mutex
	items      []Item
	processing bool
	visible    map[string]Item
}

// NewQueue builds an empty queue. A zero displayFor selects
// DefaultDisplayDuration.
func NewQueue(logger zerolog.Logger, displayFor time.Duration) *Queue {
	if displayFor <= 0 {
		displayFor = DefaultDisplayDuration
	}
	return &Queue{
		logger:     logger,
		displayFor: displayFor,
		visible:    make(map[string]Item),
	}
}

// Enqueue appends an item for ev and returns it.
func (q *Queue) Enqueue(ev Event) Item {
	item := Item{ID: uuid.NewString(), Event: ev, EnqueuedAt: time.Now()}
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	return item
}

// Len reports how many items are waiting, including one in flight.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// ProcessNext admits the head item into the handler if nothing is in
// flight and the queue is non-empty; otherwise it is a no-op returning
// false. The handler runs asynchronously; on completion, success or
// failure, the item is dequeued and the gate reopens. A handler error is
// logged and never blocks later items.
func (q *Queue) ProcessNext(handler func(Item) error) bool {
	q.mu.Lock()
	if q.processing || len(q.items) == 0 {
		q.mu.Unlock()
		return false
	}
	q.processing = true
	item := q.items[0]
	q.mu.Unlock()

	go func() {
		if err := handler(item); err != nil {
			q.logger.Warn().Err(err).Str("item_id", item.ID).Msg("notification handler failed")
		}
		q.mu.Lock()
		q.items = q.items[1:]
		q.processing = false
		q.mu.Unlock()
	}()
	return true
}

// Display marks an item visible and schedules its automatic removal
// after the configured display duration.
func (q *Queue) Display(item Item) {
	q.mu.Lock()
	q.visible[item.ID] = item
	q.mu.Unlock()

	time.AfterFunc(q.displayFor, func() {
		q.mu.Lock()
		delete(q.visible, item.ID)
		q.mu.Unlock()
	})
}

// Visible returns the currently displayed items.
func (q *Queue) Visible() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Item, 0, len(q.visible))
	for _, item := range q.visible {
		out = append(out, item)
	}
	return out
}
