// Package session runs one chat conversation: it sends the user's turn to the
// model, retries rate limits, and turns a successful reply into project files
// and a fresh preview.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"sparrow-backend/internal/events"
	"sparrow-backend/internal/extractor"
	"sparrow-backend/internal/llm"
	"sparrow-backend/internal/models"
	"sparrow-backend/internal/preview"
	"sparrow-backend/internal/synthesizer"
)

type State string

const (
	Idle             State = "idle"
	AwaitingResponse State = "awaiting_response"
	Success          State = "success"
	RetryableError   State = "retryable_error"
	FatalError       State = "fatal_error"
)

var (
	ErrEmptyInput = errors.New("message is empty")
	ErrNilProject = errors.New("project is nil")
)

const (
	titleLen        = 30
	imageTitle      = "Image request"
	imageUnreadable = "[An image was attached but could not be described.]"
)

// Input is one user turn. Image is optional.
type Input struct {
	Text  string
	Image *llm.Image
}

// Turn reports what a Send did.
type Turn struct {
	User    models.Message   `json:"user"`
	Notices []models.Message `json:"notices,omitempty"`
	Reply   models.Message   `json:"reply"`
	// Outcome is Success or FatalError.
	Outcome State `json:"outcome"`
	// Files lists the names written by this turn.
	Files   []string `json:"files,omitempty"`
	Preview string   `json:"-"`
	Err     error    `json:"-"`
}

type Options struct {
	Completer llm.Completer
	// Describer is optional; without it image turns carry a neutral note.
	Describer llm.Describer
	Publisher events.Publisher
	Backoff   llm.Backoff
	Now       func() time.Time
}

// Session serializes turns: a second Send waits for the first to finish and
// both results are applied in order.
type Session struct {
	turn sync.Mutex

	mu      sync.RWMutex
	chat    *models.ChatSession
	project *models.Project
	state   State

	completer llm.Completer
	describer llm.Describer
	pub       events.Publisher
	backoff   llm.Backoff
	now       func() time.Time
}

func New(chat *models.ChatSession, project *models.Project, opts Options) *Session {
	if opts.Publisher == nil {
		opts.Publisher = events.Nop
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := chat.Clone()
	c.State = string(Idle)
	return &Session{
		chat:      c,
		project:   project.Clone(),
		state:     Idle,
		completer: opts.Completer,
		describer: opts.Describer,
		pub:       opts.Publisher,
		backoff:   opts.Backoff,
		now:       opts.Now,
	}
}

func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chat.ID
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Chat returns a copy of the transcript.
func (s *Session) Chat() *models.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chat.Clone()
}

// Project returns a copy of the current project.
func (s *Session) Project() *models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project.Clone()
}

// ProjectKey is the repository key of the session's project.
func (s *Session) ProjectKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chat.ProjectKey
}

// UpdateProject applies fn to a copy of the working project between turns
// and installs the result. It waits for any running turn so a manual edit is
// not overwritten mid-flight. An error from fn, or a nil project, leaves the
// project unchanged.
func (s *Session) UpdateProject(fn func(*models.Project) (*models.Project, error)) (*models.Project, error) {
	s.turn.Lock()
	defer s.turn.Unlock()

	updated, err := fn(s.Project())
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNilProject
	}
	s.mu.Lock()
	s.project = updated.Clone()
	s.mu.Unlock()
	s.emit(events.PreviewUpdated, preview.Assemble(updated.Files, preview.ForEditor()))
	return updated.Clone(), nil
}

// Send runs one turn. It only returns an error for input it refuses; model
// and transport failures end the turn in FatalError with an apology message
// and the project untouched, and are reported in Turn.Err.
func (s *Session) Send(ctx context.Context, in Input) (Turn, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" && in.Image == nil {
		return Turn{}, ErrEmptyInput
	}

	s.turn.Lock()
	defer s.turn.Unlock()

	turn := Turn{User: s.message(models.RoleUser, text, "")}
	s.mu.Lock()
	if countRole(s.chat.Messages, models.RoleUser) == 0 {
		if text != "" {
			s.chat.Title = Title(text)
		} else {
			s.chat.Title = Title(imageTitle)
		}
	}
	history := transcript(s.chat.Messages)
	s.mu.Unlock()
	s.appendMessage(turn.User)
	s.setState(AwaitingResponse)

	prompt := text
	if in.Image != nil {
		prompt = strings.TrimSpace(prompt + "\n\n[Attached image] " + s.describe(ctx, *in.Image))
	}
	msgs := append([]llm.Message{{Role: string(models.RoleSystem), Content: llm.SystemPrompt}}, history...)
	msgs = append(msgs, llm.Message{Role: string(models.RoleUser), Content: prompt})

	var reply string
	err := llm.RetryWithBackoff(ctx, s.backoff, func(ctx context.Context) error {
		s.setState(AwaitingResponse)
		out, err := s.completer.Complete(ctx, msgs)
		if err != nil {
			return err
		}
		reply = out
		return nil
	}, func(attempt int, delay time.Duration, err error) {
		s.setState(RetryableError)
		notice := s.message(models.RoleAssistant, retryNotice(err, attempt, delay, s.backoff.MaxRetries), models.KindNotice)
		turn.Notices = append(turn.Notices, notice)
		s.appendMessage(notice)
		slog.Info("retrying completion", "session", s.ID(), "attempt", attempt+1, "delay", delay, "error", err)
	})
	if err != nil {
		return s.fail(turn, err), nil
	}
	return s.succeed(turn, reply), nil
}

func (s *Session) succeed(turn Turn, reply string) Turn {
	res := extractor.Extract(reply)

	s.mu.RLock()
	base := s.project
	s.mu.RUnlock()
	updated := synthesizer.Apply(base, res.Filenames, res.Blocks, s.now())
	doc := preview.Assemble(updated.Files, preview.ForEditor())

	s.mu.Lock()
	s.project = updated
	s.mu.Unlock()

	created := present(updated, res.Filenames)
	written := present(updated, blockNames(res.Blocks))
	turn.Files = written
	turn.Preview = doc
	turn.Outcome = Success

	s.setState(Success)
	s.emit(events.FilesCreated, created)
	s.emit(events.TabCode, nil)
	s.emit(events.CodeGenerated, written)
	s.emit(events.PreviewUpdated, doc)
	s.emit(events.TabPreview, nil)

	turn.Reply = s.message(models.RoleAssistant, res.Narrative, "")
	s.appendMessage(turn.Reply)
	s.setState(Idle)
	return turn
}

func (s *Session) fail(turn Turn, err error) Turn {
	slog.Warn("completion failed", "session", s.ID(), "error", err)
	s.setState(FatalError)
	turn.Outcome = FatalError
	turn.Err = err
	turn.Reply = s.message(models.RoleAssistant, ErrorMessage(err), models.KindError)
	s.appendMessage(turn.Reply)
	s.setState(Idle)
	return turn
}

func (s *Session) describe(ctx context.Context, img llm.Image) string {
	if s.describer == nil {
		return imageUnreadable
	}
	desc, err := s.describer.DescribeImage(ctx, img)
	if err != nil || strings.TrimSpace(desc) == "" {
		slog.Warn("image description failed", "session", s.ID(), "error", err)
		return imageUnreadable
	}
	return strings.TrimSpace(desc)
}

func (s *Session) message(role models.Role, content, kind string) models.Message {
	return models.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Kind:      kind,
		Timestamp: s.now(),
	}
}

func (s *Session) appendMessage(m models.Message) {
	s.mu.Lock()
	s.chat.Messages = append(s.chat.Messages, m)
	s.chat.LastModified = m.Timestamp
	s.mu.Unlock()
	s.emit(events.MessageAppended, m)
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.chat.State = string(st)
	s.mu.Unlock()
	s.emit(events.StateChanged, st)
}

func (s *Session) emit(t events.Type, data any) {
	s.pub.Publish(events.New(t, s.ID(), data))
}

// Title derives a session title from its first message.
func Title(text string) string {
	if utf8.RuneCountInString(text) > titleLen {
		text = string([]rune(text)[:titleLen])
	}
	return text + "..."
}

// ErrorMessage is the assistant reply shown when a turn fails.
func ErrorMessage(err error) string {
	return fmt.Sprintf("Sorry, I encountered an error: %s. Please try again.", reason(err))
}

func reason(err error) string {
	var se *llm.StatusError
	switch {
	case errors.As(err, &se) && se.Code == http.StatusTooManyRequests:
		return "Rate limit exceeded. Please try again later"
	case errors.As(err, &se):
		return se.Error()
	case errors.Is(err, llm.ErrMalformedResponse):
		return "Invalid response from AI service"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The request was cancelled"
	}
	var te *llm.TransportError
	if errors.As(err, &te) {
		return "Could not reach the AI service"
	}
	return err.Error()
}

func retryNotice(err error, attempt int, delay time.Duration, maxRetries int) string {
	secs := int(delay / time.Second)
	var se *llm.StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("Rate limit reached. Retrying in %d seconds... (attempt %d/%d)", secs, attempt+1, maxRetries)
	}
	return fmt.Sprintf("Network error. Retrying in %d seconds... (attempt %d/%d)", secs, attempt+1, maxRetries)
}

// transcript converts prior conversation turns into request messages. Notices
// and error replies are left out.
func transcript(msgs []models.Message) []llm.Message {
	var out []llm.Message
	for _, m := range msgs {
		if m.Kind != "" || m.Role == models.RoleSystem {
			continue
		}
		out = append(out, llm.Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// present returns the distinct names that exist in p, in order.
func present(p *models.Project, names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] || p.FileByName(name) < 0 {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func blockNames(blocks []models.CodeBlock) []string {
	names := make([]string, len(blocks))
	for i, b := range blocks {
		names[i] = b.Filename
	}
	return names
}

func countRole(msgs []models.Message, role models.Role) int {
	n := 0
	for _, m := range msgs {
		if m.Role == role {
			n++
		}
	}
	return n
}
