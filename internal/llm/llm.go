// Package llm talks to chat-completion providers.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"sparrow-backend/internal/config"
)

// Message is one entry of a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Image is an attachment sent along with a user turn.
type Image struct {
	MimeType string
	Data     []byte
}

// Completer returns the assistant's reply text for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Describer turns an image into a short textual description.
type Describer interface {
	DescribeImage(ctx context.Context, img Image) (string, error)
}

// ErrMalformedResponse means the provider answered 2xx but the body did not
// carry a string at choices[0].message.content.
var ErrMalformedResponse = errors.New("invalid response from AI service")

// StatusError is a non-2xx answer from the provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Code == http.StatusTooManyRequests {
		return "rate limit exceeded"
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

// IsRetryable reports whether err is worth another attempt: a rate limit or
// a transport failure. Context errors are never retryable.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests
	}
	if errors.Is(err, ErrMalformedResponse) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var transport *TransportError
	return errors.As(err, &transport)
}

// TransportError wraps a failure to reach the provider at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "network error: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// NewCompleter builds the completer selected by cfg.LLMProvider.
func NewCompleter(cfg *config.Config) (Completer, error) {
	switch cfg.LLMProvider {
	case "openrouter":
		return NewOpenRouterClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.LLMModel, cfg.BaseURL), nil
	case "openai":
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.LLMModel, ""), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.LLMProvider)
	}
}

// Backoff configures RetryWithBackoff.
type Backoff struct {
	MaxRetries int
	BaseDelay  time.Duration
	// Sleep waits for d or until ctx is done. Nil means a timer-based wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultBackoff is three retries starting at one second.
func DefaultBackoff() Backoff {
	return Backoff{MaxRetries: 3, BaseDelay: time.Second}
}

// Delay is the wait before retry number attempt (zero based).
func (b Backoff) Delay(attempt int) time.Duration {
	return b.BaseDelay << attempt
}

// RetryWithBackoff calls fn until it succeeds, returns a non-retryable error,
// or the retry ceiling is hit. onRetry runs before each wait with the zero
// based attempt number and the delay.
func RetryWithBackoff(ctx context.Context, b Backoff, fn func(ctx context.Context) error, onRetry func(attempt int, delay time.Duration, err error)) error {
	sleep := b.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt >= b.MaxRetries {
			return fmt.Errorf("failed after %d retries: %w", b.MaxRetries, err)
		}

		delay := b.Delay(attempt)
		if onRetry != nil {
			onRetry(attempt, delay, err)
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
