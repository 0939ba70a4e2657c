package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/addislaw/counsel/api"
	"github.com/addislaw/counsel/attachment"
	"github.com/addislaw/counsel/auth"
	"github.com/addislaw/counsel/internal/language"
	"github.com/addislaw/counsel/store"
)

type fakeExchanger struct {
	calls    int
	lastID   string
	lastReq  *api.SendMessageRequest
	reply    *api.ChatMessage
	err      error
	blocking chan struct{}
}

func (f *fakeExchanger) SendMessage(_ context.Context, chatID string, request *api.SendMessageRequest) (*api.ChatMessage, error) {
	f.calls++
	f.lastID = chatID
	f.lastReq = request
	if f.blocking != nil {
		<-f.blocking
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func newTestController(exchanger Exchanger) *Controller {
	c := NewController(exchanger, auth.Identity{ID: "user-1", Username: "abebe"}, language.English)
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	seq := 0
	c.now = func() time.Time {
		seq++
		return base.Add(time.Duration(seq) * time.Second)
	}
	c.newID = func() string {
		seq++
		return string(rune('a' + seq))
	}
	return c
}

func welcomeSession(id string) *store.Session {
	return &store.Session{
		ID:    id,
		Title: "New Consultation",
		Messages: []store.Message{
			&store.AssistantMessage{MessageID: "welcome-1", Body: "Hello!", Welcome: true},
		},
	}
}

func TestBeginSendRejectsEmptyInput(t *testing.T) {
	exchanger := &fakeExchanger{}
	controller := newTestController(exchanger)
	controller.AdoptSession(welcomeSession("chat-1"))

	_, err := controller.BeginSend("   \n\t ")
	require.ErrorIs(t, err, ErrNothingToSend)
	require.Equal(t, 0, exchanger.calls)
	require.Len(t, controller.Active().Messages, 1)
	require.False(t, controller.InFlight())
}

func TestBeginSendRequiresActiveSession(t *testing.T) {
	controller := newTestController(&fakeExchanger{})
	_, err := controller.BeginSend("hello")
	require.ErrorIs(t, err, ErrNoActiveSession)
}

func TestSuccessfulExchange(t *testing.T) {
	exchanger := &fakeExchanger{
		reply: &api.ChatMessage{
			ID:   "srv-9",
			Role: api.RoleModel,
			Text: "Under the labour proclamation...",
			GroundingSources: []api.GroundingSource{
				{Title: "Proclamation 1156/2019", URI: "https://law.example/1156"},
			},
		},
	}
	controller := newTestController(exchanger)
	controller.AdoptSession(welcomeSession("chat-1"))

	exchange, err := controller.BeginSend("Am I owed severance pay?")
	require.NoError(t, err)
	require.True(t, controller.InFlight())

	// The user's turn is visible before the round trip resolves.
	log := controller.Active().Messages
	require.Len(t, log, 2)
	user, ok := log[1].(*store.UserMessage)
	require.True(t, ok)
	require.Equal(t, "Am I owed severance pay?", user.Body)

	outcome := exchange.Do(context.Background())
	require.NoError(t, outcome.Err())
	require.Equal(t, "chat-1", exchanger.lastID)
	require.Equal(t, "en", exchanger.lastReq.Language)

	reply := controller.FinishSend(outcome)
	require.False(t, controller.InFlight())

	assistant, ok := reply.(*store.AssistantMessage)
	require.True(t, ok)
	require.Equal(t, "Under the labour proclamation...", assistant.Body)
	require.Len(t, assistant.Sources, 1)
	require.False(t, assistant.Failed)
	require.Len(t, controller.Active().Messages, 3)
}

func TestFailedExchangeKeepsUserMessage(t *testing.T) {
	exchanger := &fakeExchanger{err: errors.New("upstream blew up")}
	controller := newTestController(exchanger)
	controller.AdoptSession(welcomeSession("chat-1"))

	exchange, err := controller.BeginSend("Is my lease enforceable?")
	require.NoError(t, err)

	outcome := exchange.Do(context.Background())
	require.Error(t, outcome.Err())

	reply := controller.FinishSend(outcome)
	require.False(t, controller.InFlight())

	assistant, ok := reply.(*store.AssistantMessage)
	require.True(t, ok)
	require.True(t, assistant.Failed)
	require.Equal(t, language.Lookup(language.English).ErrorText, assistant.Body)

	// No rollback: welcome, user turn, flagged reply.
	log := controller.Active().Messages
	require.Len(t, log, 3)
	require.Equal(t, "Is my lease enforceable?", log[1].Text())
}

func TestFailedExchangeUsesSessionLanguage(t *testing.T) {
	exchanger := &fakeExchanger{err: errors.New("timeout")}
	controller := newTestController(exchanger)
	controller.SetLanguage(language.Amharic)
	controller.AdoptSession(welcomeSession("chat-1"))

	exchange, err := controller.BeginSend("ውል አለኝ")
	require.NoError(t, err)
	require.Equal(t, language.Amharic, exchange.lang)

	reply := controller.FinishSend(exchange.Do(context.Background()))
	require.Equal(t, language.Lookup(language.Amharic).ErrorText, reply.Text())
}

func TestSingleFlight(t *testing.T) {
	exchanger := &fakeExchanger{reply: &api.ChatMessage{Role: api.RoleModel, Text: "ok"}}
	controller := newTestController(exchanger)
	controller.AdoptSession(welcomeSession("chat-1"))

	exchange, err := controller.BeginSend("first")
	require.NoError(t, err)

	_, err = controller.BeginSend("second")
	require.ErrorIs(t, err, ErrExchangeInFlight)

	controller.FinishSend(exchange.Do(context.Background()))
	require.Equal(t, 1, exchanger.calls)

	_, err = controller.BeginSend("third")
	require.NoError(t, err)
}

func TestFinishSendIsIdempotent(t *testing.T) {
	exchanger := &fakeExchanger{reply: &api.ChatMessage{Role: api.RoleModel, Text: "ok"}}
	controller := newTestController(exchanger)
	controller.AdoptSession(welcomeSession("chat-1"))

	exchange, err := controller.BeginSend("hello")
	require.NoError(t, err)
	outcome := exchange.Do(context.Background())

	require.NotNil(t, controller.FinishSend(outcome))
	require.Nil(t, controller.FinishSend(outcome))
	require.Len(t, controller.Active().Messages, 3)
}

func TestTitleDerivation(t *testing.T) {
	exchanger := &fakeExchanger{reply: &api.ChatMessage{Role: api.RoleModel, Text: "ok"}}
	controller := newTestController(exchanger)
	controller.AdoptSession(welcomeSession("chat-1"))

	exchange, err := controller.BeginSend("Can I terminate my employee without notice?")
	require.NoError(t, err)
	require.Equal(t, "Can I terminate my employee without ", controller.Active().Title)
	controller.FinishSend(exchange.Do(context.Background()))

	// Later sends never retitle.
	exchange, err = controller.BeginSend("What about probation periods?")
	require.NoError(t, err)
	require.Equal(t, "Can I terminate my employee without ", controller.Active().Title)
	controller.FinishSend(exchange.Do(context.Background()))
}

func TestTitleKeptShortWhenTextFits(t *testing.T) {
	controller := newTestController(&fakeExchanger{reply: &api.ChatMessage{Role: api.RoleModel}})
	controller.AdoptSession(welcomeSession("chat-1"))

	_, err := controller.BeginSend("Quick question")
	require.NoError(t, err)
	require.Equal(t, "Quick question", controller.Active().Title)
}

func TestPendingAttachmentsRideTheSend(t *testing.T) {
	exchanger := &fakeExchanger{reply: &api.ChatMessage{Role: api.RoleModel, Text: "ok"}}
	controller := newTestController(exchanger)
	controller.AdoptSession(welcomeSession("chat-1"))

	controller.AddPending(&attachment.Attachment{Kind: attachment.KindFile, MediaType: "application/pdf", Name: "lease.pdf", Data: "aGk="})
	controller.AddPending(&attachment.Attachment{Kind: attachment.KindImage, MediaType: "image/png", Name: "photo.png", Data: "aGk="})
	controller.RemovePending(1)
	require.Len(t, controller.Pending(), 1)

	exchange, err := controller.BeginSend("see attached")
	require.NoError(t, err)
	require.Empty(t, controller.Pending())

	exchange.Do(context.Background())
	require.Len(t, exchanger.lastReq.Attachments, 1)
	require.Equal(t, "lease.pdf", exchanger.lastReq.Attachments[0].Name)
}

func TestAttachmentOnlySendAllowed(t *testing.T) {
	exchanger := &fakeExchanger{reply: &api.ChatMessage{Role: api.RoleModel, Text: "ok"}}
	controller := newTestController(exchanger)
	controller.AdoptSession(welcomeSession("chat-1"))
	controller.AddPending(&attachment.Attachment{Kind: attachment.KindFile, MediaType: "application/pdf", Name: "contract.pdf"})

	_, err := controller.BeginSend("")
	require.NoError(t, err)
	// No substantive text, so the seed title stays.
	require.Equal(t, "New Consultation", controller.Active().Title)
}

func TestReplyLandsOnItsOwnSession(t *testing.T) {
	exchanger := &fakeExchanger{reply: &api.ChatMessage{Role: api.RoleModel, Text: "answer"}}
	controller := newTestController(exchanger)
	first := welcomeSession("chat-1")
	second := welcomeSession("chat-2")
	controller.AdoptSession(first)
	controller.AdoptSession(second)
	require.True(t, controller.Select("chat-1"))

	exchange, err := controller.BeginSend("question")
	require.NoError(t, err)

	// Switch away while the round trip is outstanding.
	require.True(t, controller.Select("chat-2"))
	controller.FinishSend(exchange.Do(context.Background()))

	require.Len(t, first.Messages, 3)
	require.Len(t, second.Messages, 1)
}

func TestApplySessionsPreservesActiveObject(t *testing.T) {
	controller := newTestController(&fakeExchanger{})
	active := welcomeSession("chat-1")
	controller.AdoptSession(active)

	refreshed := []*store.Session{
		{ID: "chat-2", Title: "Other"},
		{ID: "chat-1", Title: "New Consultation"},
	}
	require.False(t, controller.ApplySessions(refreshed))
	require.Same(t, active, controller.Active())
	require.Same(t, active, controller.Sessions()[1])
}

func TestApplySessionsNeedsActiveWhenEmpty(t *testing.T) {
	controller := newTestController(&fakeExchanger{})
	require.True(t, controller.ApplySessions(nil))
	require.Nil(t, controller.Active())
}

func TestApplySessionsFallsBackWhenActiveVanished(t *testing.T) {
	controller := newTestController(&fakeExchanger{})
	controller.AdoptSession(welcomeSession("chat-1"))

	refreshed := []*store.Session{{ID: "chat-2", Title: "Other"}}
	require.False(t, controller.ApplySessions(refreshed))
	require.Equal(t, "chat-2", controller.Active().ID)
}

func TestHandleDeletedFallsBackToFirst(t *testing.T) {
	controller := newTestController(&fakeExchanger{})
	controller.AdoptSession(welcomeSession("chat-2"))
	controller.AdoptSession(welcomeSession("chat-1"))

	refreshed := []*store.Session{{ID: "chat-2", Title: "Survivor"}}
	require.False(t, controller.HandleDeleted("chat-1", refreshed))
	require.Equal(t, "chat-2", controller.Active().ID)
}

func TestHandleDeletedLastSessionNeedsNew(t *testing.T) {
	controller := newTestController(&fakeExchanger{})
	controller.AdoptSession(welcomeSession("chat-1"))

	require.True(t, controller.HandleDeleted("chat-1", []*store.Session{}))
	require.Nil(t, controller.Active())
	require.Empty(t, controller.Sessions())
}

func TestHandleDeletedNonActiveKeepsSelection(t *testing.T) {
	controller := newTestController(&fakeExchanger{})
	controller.AdoptSession(welcomeSession("chat-2"))
	active := welcomeSession("chat-1")
	controller.AdoptSession(active)

	refreshed := []*store.Session{{ID: "chat-1", Title: "New Consultation"}}
	require.False(t, controller.HandleDeleted("chat-2", refreshed))
	require.Same(t, active, controller.Active())
}

func TestHandleDeletedDegradesWithoutRefresh(t *testing.T) {
	controller := newTestController(&fakeExchanger{})
	controller.AdoptSession(welcomeSession("chat-2"))
	controller.AdoptSession(welcomeSession("chat-1"))

	require.False(t, controller.HandleDeleted("chat-2", nil))
	require.Len(t, controller.Sessions(), 1)
	require.Equal(t, "chat-1", controller.Active().ID)
}

func TestBeginSendMovesSessionToFront(t *testing.T) {
	controller := newTestController(&fakeExchanger{reply: &api.ChatMessage{Role: api.RoleModel}})
	older := welcomeSession("chat-2")
	older.UpdatedAt = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	newer := welcomeSession("chat-1")
	newer.UpdatedAt = time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)
	controller.AdoptSession(older)
	controller.AdoptSession(newer)
	require.True(t, controller.Select("chat-2"))

	_, err := controller.BeginSend("bump")
	require.NoError(t, err)
	require.Equal(t, "chat-2", controller.Sessions()[0].ID)
}
