package ecs

import (
	"iter"
	"reflect"
)

type eventQueue[T any] struct {
	typ       reflect.Type
	items     []T
	hasWriter bool
}

func (q *eventQueue[T]) clear() {
	clear(q.items)
	q.items = q.items[:0]
}

type clearer interface {
	clear()
}

// Events owns one queue per event type. Queues are created lazily the first
// time a reader or writer for the type is requested and shared by every
// handle requested afterwards.
type Events struct {
	queues  map[reflect.Type]any
	writers []clearer
}

// NewEvents creates an empty set of event queues.
func NewEvents() *Events {
	return &Events{
		queues: make(map[reflect.Type]any),
	}
}

func queueFor[T any](ev *Events) *eventQueue[T] {
	t := reflect.TypeFor[T]()
	if q, ok := ev.queues[t]; ok {
		return q.(*eventQueue[T])
	}
	q := &eventQueue[T]{typ: t}
	ev.queues[t] = q
	return q
}

// Reader returns a read-only handle to the queue of T.
func Reader[T any](ev *Events) EventReader[T] {
	return EventReader[T]{queue: queueFor[T](ev)}
}

// Writer returns a read-write handle to the queue of T.
func Writer[T any](ev *Events) EventWriter[T] {
	q := queueFor[T](ev)
	if !q.hasWriter {
		q.hasWriter = true
		ev.writers = append(ev.writers, q)
	}
	return EventWriter[T]{EventReader: EventReader[T]{queue: q}}
}

// Len returns the number of event types with a queue.
func (ev *Events) Len() int {
	return len(ev.queues)
}

// ClearAllEventQueues empties every queue a writer has been handed out for.
// Run it once per cycle: an event is then visible from the moment it is
// written until the next sweep.
func ClearAllEventQueues(ev *Events) {
	for _, w := range ev.writers {
		w.clear()
	}
}

// EventReader gives read access to the queue of one event type.
type EventReader[T any] struct {
	queue *eventQueue[T]
}

// Type returns the event type of the queue.
func (r EventReader[T]) Type() reflect.Type {
	return r.queue.typ
}

// Len returns the number of events currently in the queue.
func (r EventReader[T]) Len() int {
	return len(r.queue.items)
}

// All iterates the queue contents. It is a live view: events created while
// iterating are visited as well.
func (r EventReader[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < len(r.queue.items); i++ {
			if !yield(r.queue.items[i]) {
				return
			}
		}
	}
}

// EventWriter gives read and write access to the queue of one event type.
type EventWriter[T any] struct {
	EventReader[T]
}

// Create appends ev to the queue.
func (w EventWriter[T]) Create(ev T) EventWriter[T] {
	w.queue.items = append(w.queue.items, ev)
	return w
}

// Clear immediately empties the queue.
func (w EventWriter[T]) Clear() {
	w.queue.clear()
}
