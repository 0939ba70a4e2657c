package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"

	"github.com/addislaw/counsel/attachment"
	"github.com/addislaw/counsel/conversation"
	"github.com/addislaw/counsel/store"
	"github.com/addislaw/counsel/transcript"
)

type sessionsMsg struct {
	sessions []*store.Session
	err      error
}

type sessionCreatedMsg struct {
	session *store.Session
	err     error
}

type sessionDeletedMsg struct {
	id        string
	refreshed []*store.Session
	err       error
}

type exchangeDoneMsg struct {
	outcome conversation.Outcome
}

type attachmentMsg struct {
	attachment *attachment.Attachment
	err        error
}

type speechMsg struct {
	event transcript.Event
}

func (m *Model) loadSessions() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.store.List(m.ctx)
		return sessionsMsg{sessions: sessions, err: err}
	}
}

func (m *Model) createSession() tea.Cmd {
	lang := m.controller.Language()
	return func() tea.Msg {
		session, err := m.store.Create(m.ctx, lang)
		return sessionCreatedMsg{session: session, err: err}
	}
}

func (m *Model) deleteSession(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.Delete(m.ctx, id); err != nil {
			return sessionDeletedMsg{id: id, err: err}
		}
		// Best effort refresh; the deletion itself already succeeded.
		refreshed, err := m.store.List(m.ctx)
		if err != nil {
			log.Warn("refreshing sessions after delete", "error", err)
			refreshed = nil
		}
		return sessionDeletedMsg{id: id, refreshed: refreshed}
	}
}

// sendMessage starts an exchange from the textarea content. The user's turn
// appears immediately; the round trip resolves in the background.
func (m *Model) sendMessage() tea.Cmd {
	input := m.textarea.Value()

	if path, ok := parseAttachCommand(input); ok {
		m.textarea.Reset()
		return m.attachFile(path)
	}
	if n, ok := parseDetachCommand(input); ok {
		m.textarea.Reset()
		if n > len(m.controller.Pending()) {
			return m.alert.NewAlertCmd(bubbleup.WarnKey, "No such attachment")
		}
		m.controller.RemovePending(n - 1)
		m.recalculateLayout()
		return nil
	}

	exchange, err := m.controller.BeginSend(input)
	if err != nil {
		switch err {
		case conversation.ErrNothingToSend, conversation.ErrExchangeInFlight:
			return nil
		default:
			return m.alert.NewAlertCmd(bubbleup.ErrorKey, err.Error())
		}
	}

	if trimmed := strings.TrimSpace(input); trimmed != "" {
		m.history.Add(trimmed)
	}
	m.historyNavigating = false
	m.textarea.Reset()
	m.recalculateLayout()
	m.viewport.GotoBottom()

	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return exchangeDoneMsg{outcome: exchange.Do(m.ctx)}
		},
	)
}

func (m *Model) attachFile(path string) tea.Cmd {
	return func() tea.Msg {
		att, err := attachment.FromFile(path)
		return attachmentMsg{attachment: att, err: err}
	}
}

// startListening opens the recognizer stream and begins accumulating
// fragments into the input buffer.
func (m *Model) startListening() tea.Cmd {
	if m.speech == nil {
		return m.alert.NewAlertCmd(bubbleup.WarnKey, "Voice input is not configured")
	}

	m.accumulator = transcript.NewAccumulator(m.textarea.Value())
	if err := m.accumulator.Start(); err != nil {
		return nil
	}

	events, err := m.speech.Start(m.ctx, m.speechLocale())
	if err != nil {
		m.accumulator.Stop()
		return m.alert.NewAlertCmd(bubbleup.ErrorKey, err.Error())
	}
	m.speechEvents = events
	return m.waitSpeech()
}

// waitSpeech delivers the next recognizer event to the update loop. It is
// re-issued after each event until the stream ends.
func (m *Model) waitSpeech() tea.Cmd {
	events := m.speechEvents
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return speechMsg{event: transcript.Event{End: true}}
		}
		return speechMsg{event: event}
	}
}

func (m *Model) stopListening() {
	if m.speech != nil {
		m.speech.Stop()
	}
	if m.accumulator != nil {
		m.accumulator.Stop()
		m.textarea.SetValue(m.accumulator.Committed())
	}
	m.speechEvents = nil
}
