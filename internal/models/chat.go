package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message kinds that are shown to the user but never sent back to the model.
const (
	KindNotice = "notice"
	KindError  = "error"
)

type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Kind      string    `json:"kind,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession owns the transcript of one conversation and points at the
// project its turns write into.
type ChatSession struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ProjectKey   string    `json:"projectKey"`
	Messages     []Message `json:"messages"`
	State        string    `json:"state"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
}

// LastAssistant returns the most recent assistant message, if any.
func (s *ChatSession) LastAssistant() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

// Clone returns a copy with its own message slice.
func (s *ChatSession) Clone() *ChatSession {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Messages = make([]Message, len(s.Messages))
	copy(cp.Messages, s.Messages)
	return &cp
}

// CodeBlock is one fenced region pulled out of a model reply. It only lives
// between extraction and synthesis.
type CodeBlock struct {
	Language string `json:"language"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type SessionSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ProjectKey   string    `json:"projectKey"`
	MessageCount int       `json:"messageCount"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
}
