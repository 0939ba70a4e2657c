package conversation

import (
	"context"

	"github.com/pkg/errors"

	"github.com/addislaw/counsel/api"
	"github.com/addislaw/counsel/internal/language"
	"github.com/addislaw/counsel/store"
)

// Exchanger performs the single network round trip of an exchange.
// *api.Client satisfies it.
type Exchanger interface {
	SendMessage(ctx context.Context, chatID string, request *api.SendMessageRequest) (*api.ChatMessage, error)
}

// Exchange is one send, between BeginSend and FinishSend. It carries
// everything the round trip needs so Do can run off the update loop without
// touching controller state.
type Exchange struct {
	exchanger   Exchanger
	session     *store.Session
	lang        language.Tag
	userMessage *store.UserMessage
	finished    bool
}

// Session returns the session the exchange is bound to. The reply lands on
// this object even if the user switches or deletes sessions meanwhile.
func (e *Exchange) Session() *store.Session { return e.session }

// UserMessage returns the optimistic user message the exchange sent.
func (e *Exchange) UserMessage() *store.UserMessage { return e.userMessage }

// Do performs the round trip and packages the result for FinishSend. Safe to
// call from a background goroutine.
func (e *Exchange) Do(ctx context.Context) Outcome {
	request := &api.SendMessageRequest{
		Message:     e.userMessage.Body,
		Language:    string(e.lang),
		Attachments: store.AttachmentsToWire(e.userMessage.Attachments),
	}
	reply, err := e.exchanger.SendMessage(ctx, e.session.ID, request)
	if err != nil {
		return Outcome{exchange: e, err: errors.Wrap(err, "sending message")}
	}
	return Outcome{exchange: e, reply: reply}
}

// Outcome is the resolved result of an exchange's round trip.
type Outcome struct {
	exchange *Exchange
	reply    *api.ChatMessage
	err      error
}

// Err returns the transport or server error, nil on success. FinishSend
// converts it into a flagged assistant message; callers only need it for
// logging.
func (o Outcome) Err() error { return o.err }
