package supabase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"sparrow-backend/internal/events"
)

const (
	realtimeQueue   = 256
	realtimeBatch   = 32
	realtimeTimeout = 10 * time.Second
)

// RealtimeClient mirrors session events to Supabase Realtime broadcast
// channels named "session:<id>", so clients subscribed through supabase-js
// see the same stream as the WebSocket endpoint.
type RealtimeClient struct {
	http  *resty.Client
	queue chan events.Event
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewRealtimeClient(supabaseURL, serviceRoleKey string) *RealtimeClient {
	r := &RealtimeClient{
		http: resty.New().
			SetBaseURL(strings.TrimSuffix(supabaseURL, "/")+"/realtime/v1").
			SetTimeout(realtimeTimeout).
			SetHeader("apikey", serviceRoleKey).
			SetAuthToken(serviceRoleKey),
		queue: make(chan events.Event, realtimeQueue),
		done:  make(chan struct{}),
	}
	go r.loop()
	return r
}

// Topic is the broadcast channel for a session.
func Topic(sessionID string) string {
	return "session:" + sessionID
}

type broadcastMessage struct {
	Topic   string       `json:"topic"`
	Event   string       `json:"event"`
	Payload events.Event `json:"payload"`
}

// Publish queues e for broadcast. When the queue is full the event is
// dropped so chat turns never wait on Realtime.
func (r *RealtimeClient) Publish(e events.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- e:
	default:
		slog.Warn("realtime queue full, dropping event", "session", e.SessionID, "type", e.Type)
	}
}

// Broadcast sends evs in a single request.
func (r *RealtimeClient) Broadcast(ctx context.Context, evs ...events.Event) error {
	if len(evs) == 0 {
		return nil
	}
	msgs := make([]broadcastMessage, len(evs))
	for i, e := range evs {
		msgs[i] = broadcastMessage{Topic: Topic(e.SessionID), Event: string(e.Type), Payload: e}
	}

	resp, err := r.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"messages": msgs}).
		Post("/api/broadcast")
	if err != nil {
		return fmt.Errorf("failed to broadcast: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("broadcast rejected: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// Close flushes queued events and stops the sender.
func (r *RealtimeClient) Close() error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()
	<-r.done
	return nil
}

func (r *RealtimeClient) loop() {
	defer close(r.done)
	for e := range r.queue {
		batch := []events.Event{e}
	drain:
		for len(batch) < realtimeBatch {
			select {
			case next, ok := <-r.queue:
				if !ok {
					break drain
				}
				batch = append(batch, next)
			default:
				break drain
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), realtimeTimeout)
		if err := r.Broadcast(ctx, batch...); err != nil {
			slog.Warn("realtime broadcast failed", "events", len(batch), "error", err)
		}
		cancel()
	}
}
