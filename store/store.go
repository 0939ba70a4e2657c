// Package store is the client-side session store. It owns the typed Session
// and Message model and mediates every read and write against the remote
// persistence backend. Sessions live server-side; the only client-invented
// state is the welcome turn seeded into a fresh session.
package store

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/addislaw/counsel/api"
	"github.com/addislaw/counsel/internal/language"
)

// Backend is the persistence surface the store consumes, implemented by
// *api.Client.
type Backend interface {
	ListChats(ctx context.Context) ([]*api.Chat, error)
	CreateChat(ctx context.Context, title string) (*api.Chat, error)
	DeleteChat(ctx context.Context, id string) error
}

// Store mediates session reads/writes for one signed-in identity.
type Store struct {
	backend Backend
	now     func() time.Time
}

// New builds a store over the given backend.
func New(backend Backend) *Store {
	return &Store{backend: backend, now: time.Now}
}

// List fetches all sessions owned by the identity, sorted by last-modified
// descending. Ties keep the backend's order for a given snapshot.
func (s *Store) List(ctx context.Context) ([]*Session, error) {
	chats, err := s.backend.ListChats(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching sessions")
	}

	sessions := make([]*Session, 0, len(chats))
	for _, chat := range chats {
		sessions = append(sessions, sessionFromWire(chat))
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

// Create makes a new, empty session server-side, then seeds it with a
// client-only welcome turn. The welcome turn never reaches the backend, so a
// session nobody talks to stays an empty log in the history store.
func (s *Store) Create(ctx context.Context, lang language.Tag) (*Session, error) {
	chat, err := s.backend.CreateChat(ctx, language.Lookup(lang).NewChatTitle)
	if err != nil {
		return nil, errors.Wrap(err, "creating session")
	}

	session := sessionFromWire(chat)
	session.Append(&AssistantMessage{
		MessageID: "welcome-" + uuid.New().String()[:8],
		Body:      language.Lookup(lang).WelcomeText,
		At:        s.now(),
		Welcome:   true,
	})
	return session, nil
}

// Delete removes a session. Idempotent: deleting an already-absent session
// is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.backend.DeleteChat(ctx, id)
	if err != nil && !api.IsNotFound(err) {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}
