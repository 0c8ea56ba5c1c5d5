package backlog

import "github.com/nus-fboa2016-si/whiteboard/domain"

const DefaultCapacity = 500

// Backlog is a fixed-size ring of the most recent draw events. Like the
// registry it leaves locking to the hub.
type Backlog struct {
	events []domain.DrawEvent
	head   int
	size   int
}

// New returns a backlog holding at most capacity events. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int) *Backlog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Backlog{events: make([]domain.DrawEvent, capacity)}
}

// Append stores event at the tail, evicting the oldest entry when full.
func (b *Backlog) Append(event domain.DrawEvent) {
	tail := (b.head + b.size) % len(b.events)
	b.events[tail] = event
	if b.size < len(b.events) {
		b.size++
		return
	}
	b.head = (b.head + 1) % len(b.events)
}

// Snapshot returns the stored events oldest first. The returned slice is a
// copy and is never touched by later appends.
func (b *Backlog) Snapshot() []domain.DrawEvent {
	out := make([]domain.DrawEvent, b.size)
	for i := range out {
		out[i] = b.events[(b.head+i)%len(b.events)]
	}
	return out
}

func (b *Backlog) Len() int { return b.size }
func (b *Backlog) Cap() int { return len(b.events) }
