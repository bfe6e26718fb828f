// Package events provides the in-process change stream: after every
// successful write the store publishes the full current booking list,
// and subscribers re-derive whatever they need from the snapshot.
package events

import (
	"sync"

	"velamar/internal/models"
)

// Snapshot is the full booking list at a point in time.
type Snapshot []models.Booking

// CountByStatus tallies the snapshot's bookings per status.
func (s Snapshot) CountByStatus() map[models.BookingStatus]int {
	counts := make(map[models.BookingStatus]int)
	for _, b := range s {
		counts[b.Status]++
	}
	return counts
}

// Bus fans snapshots out to subscribers. Each subscriber holds a
// buffered channel of size one; a newer snapshot replaces an unread
// older one, so slow consumers only ever see the latest state.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Snapshot
	next int
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Snapshot)}
}

// Subscribe registers a new subscriber. The returned cancel func
// removes the subscription and closes the channel.
func (b *Bus) Subscribe() (<-chan Snapshot, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Snapshot, 1)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the snapshot to every subscriber without blocking:
// an unread older snapshot is dropped first.
func (b *Bus) Publish(snapshot Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
