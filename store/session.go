package store

import (
	"time"

	"github.com/addislaw/counsel/attachment"
)

// Session is one conversation thread. The message log is append-only from
// the client's perspective: turns are appended or the whole session is
// deleted, never edited or reordered. UpdatedAt is monotonically
// non-decreasing.
type Session struct {
	ID        string
	Owner     string
	Title     string
	Messages  []Message
	UpdatedAt time.Time
}

// Append adds a turn to the log and advances UpdatedAt, never backwards.
func (s *Session) Append(m Message) {
	s.Messages = append(s.Messages, m)
	if at := m.Timestamp(); at.After(s.UpdatedAt) {
		s.UpdatedAt = at
	}
}

// HasUserTurn reports whether the session holds any real user message. The
// welcome turn does not count: title derivation fires on the first send into
// a session where this is false.
func (s *Session) HasUserTurn() bool {
	for _, m := range s.Messages {
		if _, ok := m.(*UserMessage); ok {
			return true
		}
	}
	return false
}

// Message is one immutable turn in a session, owned by exactly that session.
// It is a sealed variant: a turn is either a *UserMessage or an
// *AssistantMessage, with disjoint attribute sets.
type Message interface {
	ID() string
	Timestamp() time.Time
	Text() string

	message()
}

// UserMessage is a user turn. Only user turns carry attachments.
type UserMessage struct {
	MessageID   string
	Body        string
	At          time.Time
	Attachments []*attachment.Attachment
}

func (m *UserMessage) ID() string           { return m.MessageID }
func (m *UserMessage) Timestamp() time.Time { return m.At }
func (m *UserMessage) Text() string         { return m.Body }
func (m *UserMessage) message()             {}

// AssistantMessage is a model turn. Only model turns carry citation sources
// and the error flag.
type AssistantMessage struct {
	MessageID string
	Body      string
	At        time.Time
	Sources   []Source
	// Failed marks a locally substituted placeholder for a failed exchange.
	Failed bool
	// Welcome marks the client-only greeting seeded into a fresh session.
	Welcome bool
}

func (m *AssistantMessage) ID() string           { return m.MessageID }
func (m *AssistantMessage) Timestamp() time.Time { return m.At }
func (m *AssistantMessage) Text() string         { return m.Body }
func (m *AssistantMessage) message()             {}

// Source is a grounding citation substantiating an assistant answer.
type Source struct {
	Title string
	URI   string
}
