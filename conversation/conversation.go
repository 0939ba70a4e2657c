// Package conversation owns conversation state: the session list, the active
// session and its message log, pending attachments, and the in-flight state
// of the current exchange. It is the only writer of that state.
//
// The controller is single-threaded by construction: every method is called
// from the UI's update loop. Network work is carved out into Exchange.Do,
// which touches no controller state and is safe to run in a background
// command; its outcome is folded back in through FinishSend.
package conversation

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/addislaw/counsel/attachment"
	"github.com/addislaw/counsel/auth"
	"github.com/addislaw/counsel/internal/language"
	"github.com/addislaw/counsel/store"
)

// Preconditions under which a send is rejected as a no-op.
var (
	ErrNothingToSend    = errors.New("nothing to send")
	ErrExchangeInFlight = errors.New("an exchange is already in flight")
	ErrNoActiveSession  = errors.New("no active session")
)

const titleRuneLimit = 30

// Controller orchestrates message exchange and session lifecycle for one
// signed-in identity.
type Controller struct {
	exchanger Exchanger
	identity  auth.Identity
	lang      language.Tag

	sessions []*store.Session
	active   *store.Session
	inFlight bool
	pending  []*attachment.Attachment

	now   func() time.Time
	newID func() string
}

// NewController builds a controller for the identity. The language tag
// selects the welcome/error strings and rides on every exchange.
func NewController(exchanger Exchanger, identity auth.Identity, lang language.Tag) *Controller {
	return &Controller{
		exchanger: exchanger,
		identity:  identity,
		lang:      lang,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// Identity returns the signed-in identity.
func (c *Controller) Identity() auth.Identity { return c.identity }

// Language returns the active language preference.
func (c *Controller) Language() language.Tag { return c.lang }

// SetLanguage switches the conversation language for subsequent exchanges.
func (c *Controller) SetLanguage(lang language.Tag) {
	if lang.Valid() {
		c.lang = lang
	}
}

// Sessions returns the session list, ordered by last-modified descending.
func (c *Controller) Sessions() []*store.Session { return c.sessions }

// Active returns the active session, nil before initial load completes.
func (c *Controller) Active() *store.Session { return c.active }

// InFlight reports whether an exchange is outstanding.
func (c *Controller) InFlight() bool { return c.inFlight }

// ApplySessions reconciles a freshly fetched list with local state. The
// active session keeps its local object (which may hold the welcome turn and
// turns the server stamped with different identifiers) wherever the fetched
// list knows the same ID. It returns true when no active session could be
// established, meaning the caller must create one.
func (c *Controller) ApplySessions(refreshed []*store.Session) (needActive bool) {
	c.sessions = refreshed
	if c.active != nil {
		for i, s := range c.sessions {
			if s.ID == c.active.ID {
				c.sessions[i] = c.active
				return false
			}
		}
		// The active session vanished server-side; fall through and pick
		// a replacement.
		c.active = nil
	}
	if len(c.sessions) > 0 {
		c.active = c.sessions[0]
		return false
	}
	return true
}

// AdoptSession makes a newly created session active and lists it first.
func (c *Controller) AdoptSession(s *store.Session) {
	c.sessions = append([]*store.Session{s}, c.sessions...)
	c.active = s
}

// Select swaps the active session. Pure state switch: the session's messages
// are already resident from the prior list fetch.
func (c *Controller) Select(id string) bool {
	for _, s := range c.sessions {
		if s.ID == id {
			c.active = s
			return true
		}
	}
	return false
}

// HandleDeleted folds a completed deletion into local state. refreshed is
// the post-deletion list fetch, or nil when that fetch failed, in which case
// the deletion is applied locally so the UI still converges. Returns true
// when the deleted session was active and no fallback exists, meaning the
// caller must create a fresh session.
func (c *Controller) HandleDeleted(id string, refreshed []*store.Session) (needNew bool) {
	wasActive := c.active != nil && c.active.ID == id

	if refreshed == nil {
		kept := c.sessions[:0]
		for _, s := range c.sessions {
			if s.ID != id {
				kept = append(kept, s)
			}
		}
		c.sessions = kept
	} else {
		c.sessions = refreshed
	}

	if !wasActive {
		// Keep the current active object in place.
		for i, s := range c.sessions {
			if c.active != nil && s.ID == c.active.ID {
				c.sessions[i] = c.active
			}
		}
		return false
	}

	if len(c.sessions) > 0 {
		c.active = c.sessions[0]
		return false
	}
	c.active = nil
	return true
}

// AddPending appends an encoded attachment to the pending list.
func (c *Controller) AddPending(att *attachment.Attachment) {
	c.pending = append(c.pending, att)
}

// RemovePending drops the pending attachment at index i.
func (c *Controller) RemovePending(i int) {
	if i < 0 || i >= len(c.pending) {
		return
	}
	c.pending = append(c.pending[:i], c.pending[i+1:]...)
}

// Pending returns the attachments queued for the next send.
func (c *Controller) Pending() []*attachment.Attachment { return c.pending }

// BeginSend starts an exchange: it validates the preconditions, appends the
// optimistic user message to the active session, derives the title on the
// first real turn, consumes the pending attachments, and takes the
// single-flight lock. The network happens later, in Exchange.Do.
func (c *Controller) BeginSend(text string) (*Exchange, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" && len(c.pending) == 0 {
		return nil, ErrNothingToSend
	}
	if c.inFlight {
		return nil, ErrExchangeInFlight
	}
	if c.active == nil || c.identity.ID == "" {
		return nil, ErrNoActiveSession
	}

	if trimmed != "" && !c.active.HasUserTurn() {
		c.active.Title = deriveTitle(trimmed)
	}

	attachments := c.pending
	c.pending = nil

	userMessage := &store.UserMessage{
		MessageID:   c.newID(),
		Body:        trimmed,
		At:          c.now(),
		Attachments: attachments,
	}
	c.active.Append(userMessage)
	c.sortSessions()
	c.inFlight = true

	return &Exchange{
		exchanger:   c.exchanger,
		session:     c.active,
		lang:        c.lang,
		userMessage: userMessage,
	}, nil
}

// FinishSend resolves an exchange. On success the assistant reply (text plus
// citation sources) is appended; on failure a flagged assistant message with
// the localized generic error body is substituted. The optimistic user
// message is never rolled back. Both paths release the single-flight lock.
func (c *Controller) FinishSend(outcome Outcome) store.Message {
	e := outcome.exchange
	if e == nil || e.finished {
		return nil
	}
	e.finished = true
	c.inFlight = false

	var reply store.Message
	if outcome.err != nil {
		reply = &store.AssistantMessage{
			MessageID: c.newID(),
			Body:      language.Lookup(e.lang).ErrorText,
			At:        c.now(),
			Failed:    true,
		}
	} else {
		reply = store.MessageFromWire(*outcome.reply)
		if assistant, ok := reply.(*store.AssistantMessage); ok {
			if assistant.MessageID == "" {
				assistant.MessageID = c.newID()
			}
			if assistant.At.IsZero() {
				assistant.At = c.now()
			}
		}
	}

	e.session.Append(reply)
	c.sortSessions()
	return reply
}

func (c *Controller) sortSessions() {
	sort.SliceStable(c.sessions, func(i, j int) bool {
		return c.sessions[i].UpdatedAt.After(c.sessions[j].UpdatedAt)
	})
}

// deriveTitle truncates the first substantive user text to roughly
// titleRuneLimit runes, extending past the limit rather than splitting the
// word in progress, and keeping that word's trailing separator.
func deriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= titleRuneLimit {
		return text
	}
	i := titleRuneLimit
	for i < len(runes) && runes[i-1] != ' ' {
		i++
	}
	return string(runes[:i])
}
