// Package events carries session side effects to whoever is listening: the
// websocket stream, the CLI, tests.
package events

import (
	"sync"
	"time"
)

type Type string

const (
	// TabPreview asks the UI to show the rendered preview.
	TabPreview Type = "tab.preview"
	// TabCode asks the UI to show the file list and editor.
	TabCode Type = "tab.code"

	FilesCreated    Type = "files.created"
	CodeGenerated   Type = "code.generated"
	MessageAppended Type = "message.appended"
	StateChanged    Type = "state.changed"
	PreviewUpdated  Type = "preview.updated"
)

type Event struct {
	Type      Type   `json:"type"`
	SessionID string `json:"sessionId"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Publisher receives events. Implementations must not block the caller for long.
type Publisher interface {
	Publish(e Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(e Event)

func (f PublisherFunc) Publish(e Event) { f(e) }

// Nop drops every event.
var Nop Publisher = PublisherFunc(func(Event) {})

// New stamps an event with the current time.
func New(t Type, sessionID string, data any) Event {
	return Event{Type: t, SessionID: sessionID, Data: data, Timestamp: time.Now().UnixMilli()}
}

const subscriberBuffer = 64

// Bus fans events out to per-session subscribers. A subscriber that falls
// behind by more than its buffer loses events rather than stalling publishers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]map[chan Event]struct{}
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe returns a channel of events for sessionID and a function that
// unsubscribes and closes the channel.
func (b *Bus) Subscribe(sessionID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan Event]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[sessionID][ch]; ok {
				delete(b.subs[sessionID], ch)
				if len(b.subs[sessionID]) == 0 {
					delete(b.subs, sessionID)
				}
				close(ch)
			}
		})
	}
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[e.SessionID] {
		select {
		case ch <- e:
		default:
		}
	}
}

// Close closes every subscriber channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, set := range b.subs {
		for ch := range set {
			close(ch)
		}
		delete(b.subs, id)
	}
}

// Recorder keeps every published event in order.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of what has been recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types lists the recorded event types in order.
func (r *Recorder) Types() []Type {
	evs := r.Events()
	out := make([]Type, len(evs))
	for i, e := range evs {
		out[i] = e.Type
	}
	return out
}

// Multi publishes to each publisher in turn.
type Multi []Publisher

func (m Multi) Publish(e Event) {
	for _, p := range m {
		p.Publish(e)
	}
}
