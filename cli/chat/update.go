package chat

import (
	"fmt"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"
	"golang.design/x/clipboard"
)

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Always update the alert model with every message
	outAlert, alertCmd := m.alert.Update(msg)
	m.alert = outAlert.(bubbleup.AlertModel)
	if alertCmd != nil {
		cmds = append(cmds, alertCmd)
	}

	// Log for non-tick messages only
	defer func() {
		switch msg.(type) {
		case spinner.TickMsg, cursor.BlinkMsg, tea.MouseMsg:
		// Skip logging for spinner ticks
		default:
			log.Info("update completed", "msg_type", fmt.Sprintf("%T", msg), "in_flight", m.controller.InFlight())
		}
	}()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if model, cmd, handled := m.handleKey(msg); handled {
			return model, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalculateLayout()

	case sessionsMsg:
		if msg.err != nil {
			// Degrade to what we have locally and keep going.
			log.Warn("fetching sessions", "error", msg.err)
			cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.WarnKey, "Could not load consultations"))
			if m.controller.Active() == nil {
				cmds = append(cmds, m.createSession())
			}
			return m, tea.Batch(cmds...)
		}
		if needActive := m.controller.ApplySessions(msg.sessions); needActive {
			cmds = append(cmds, m.createSession())
		}
		m.refreshViewport(true)
		return m, tea.Batch(cmds...)

	case sessionCreatedMsg:
		if msg.err != nil {
			log.Error("creating session", "error", msg.err)
			cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.ErrorKey, "Could not start a consultation"))
			return m, tea.Batch(cmds...)
		}
		m.controller.AdoptSession(msg.session)
		m.refreshViewport(true)
		return m, tea.Batch(cmds...)

	case sessionDeletedMsg:
		if msg.err != nil {
			log.Error("deleting session", "session_id", msg.id, "error", msg.err)
			cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.ErrorKey, "Could not delete the consultation"))
			return m, tea.Batch(cmds...)
		}
		if needNew := m.controller.HandleDeleted(msg.id, msg.refreshed); needNew {
			cmds = append(cmds, m.createSession())
		}
		m.refreshViewport(true)
		return m, tea.Batch(cmds...)

	case exchangeDoneMsg:
		if err := msg.outcome.Err(); err != nil {
			log.Error("exchange failed", "error", err)
		}
		m.controller.FinishSend(msg.outcome)
		m.refreshViewport(true)
		if msg.outcome.Err() == nil {
			// Server timestamps are authoritative for list ordering.
			cmds = append(cmds, m.loadSessions())
		}
		return m, tea.Batch(cmds...)

	case attachmentMsg:
		if msg.err != nil {
			cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.ErrorKey, msg.err.Error()))
			return m, tea.Batch(cmds...)
		}
		m.controller.AddPending(msg.attachment)
		m.recalculateLayout()
		return m, tea.Batch(cmds...)

	case speechMsg:
		return m.handleSpeech(msg, cmds)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.controller.InFlight() && m.confirmingDelete == "" && !m.listening() {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		m.adjustTextareaHeight()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes key presses. handled reports whether the key was
// consumed here rather than falling through to the textarea and viewport.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	// Delete confirmation intercepts everything.
	if m.confirmingDelete != "" {
		switch msg.String() {
		case "y", "Y":
			id := m.confirmingDelete
			m.confirmingDelete = ""
			return m, m.deleteSession(id), true
		case "n", "N", "esc":
			m.confirmingDelete = ""
			return m, nil, true
		}
		return m, nil, true
	}

	switch msg.String() {
	case "alt+{":
		m.selectAdjacentSession(-1)
		return m, nil, true
	case "alt+}":
		m.selectAdjacentSession(1)
		return m, nil, true

	case "alt+w":
		if text := m.lastReplyText(); text != "" {
			clipboard.Write(clipboard.FmtText, []byte(text))
			return m, m.alert.NewAlertCmd(bubbleup.InfoKey, "Copied to clipboard!"), true
		}
		return m, nil, true

	case "alt+p":
		if !m.controller.InFlight() && !m.listening() {
			if entry, ok := m.history.Previous(m.textarea.Value()); ok {
				m.textarea.SetValue(entry)
				m.historyNavigating = true
				m.adjustTextareaHeight()
			}
		}
		return m, nil, true
	case "alt+n":
		if !m.controller.InFlight() && !m.listening() {
			if entry, ok := m.history.Next(); ok {
				m.textarea.SetValue(entry)
				m.historyNavigating = true
				m.adjustTextareaHeight()
			}
		}
		return m, nil, true
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.listening() {
			m.stopListening()
			return m, nil, true
		}
		m.quitting = true
		return m, tea.Quit, true

	case tea.KeyCtrlJ:
		if m.listening() {
			m.stopListening()
		}
		if !m.controller.InFlight() {
			return m, m.sendMessage(), true
		}
		return m, nil, true

	case tea.KeyCtrlT:
		if !m.controller.InFlight() {
			return m, m.createSession(), true
		}
		return m, nil, true

	case tea.KeyCtrlD:
		if active := m.controller.Active(); active != nil && !m.controller.InFlight() {
			m.confirmingDelete = active.ID
		}
		return m, nil, true

	case tea.KeyCtrlG:
		m.controller.SetLanguage(m.controller.Language().Toggle())
		m.textarea.Placeholder = m.strings().Placeholder
		m.refreshViewport(false)
		return m, nil, true

	case tea.KeyCtrlR:
		if m.listening() {
			m.stopListening()
			return m, nil, true
		}
		return m, m.startListening(), true

	case tea.KeyEnter:
		if m.historyNavigating {
			m.history.Reset()
			m.historyNavigating = false
		}

	case tea.KeyRunes, tea.KeyBackspace, tea.KeyDelete:
		if m.historyNavigating {
			m.history.Reset()
			m.historyNavigating = false
		}
	}

	return m, nil, false
}

func (m *Model) handleSpeech(msg speechMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if !m.listening() {
		return m, tea.Batch(cmds...)
	}

	event := msg.event
	if event.Err != nil {
		log.Error("speech recognition", "error", event.Err)
		m.stopListening()
		cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.ErrorKey, "Voice input failed"))
		return m, tea.Batch(cmds...)
	}
	if event.End {
		m.stopListening()
		return m, tea.Batch(cmds...)
	}

	m.accumulator.Result(event.Fragments...)
	m.textarea.SetValue(m.accumulator.Preview())
	m.adjustTextareaHeight()
	cmds = append(cmds, m.waitSpeech())
	return m, tea.Batch(cmds...)
}

func (m *Model) selectAdjacentSession(delta int) {
	sessions := m.controller.Sessions()
	active := m.controller.Active()
	if len(sessions) == 0 || active == nil {
		return
	}
	for i, s := range sessions {
		if s.ID == active.ID {
			next := i + delta
			if next >= 0 && next < len(sessions) {
				m.controller.Select(sessions[next].ID)
				m.refreshViewport(true)
			}
			return
		}
	}
}

// refreshViewport re-renders the message log. gotoBottom pins the view to
// the newest message.
func (m *Model) refreshViewport(gotoBottom bool) {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}
