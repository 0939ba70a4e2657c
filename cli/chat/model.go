package chat

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"

	"github.com/addislaw/counsel/cli/chat/styles"
	"github.com/addislaw/counsel/conversation"
	"github.com/addislaw/counsel/internal/configuration"
	"github.com/addislaw/counsel/internal/debug"
	"github.com/addislaw/counsel/internal/history"
	"github.com/addislaw/counsel/internal/language"
	"github.com/addislaw/counsel/internal/markdown"
	"github.com/addislaw/counsel/store"
	"github.com/addislaw/counsel/transcript"
)

var log = debug.GetLogger()

// Model represents the Bubble Tea model for the consultation screen.
type Model struct {
	// Core dependencies
	ctx        context.Context
	config     *configuration.Config
	store      *store.Store
	controller *conversation.Controller

	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *markdown.Renderer

	// UI state
	width    int
	height   int
	ready    bool
	err      error
	quitting bool

	// Alert notifications.
	alert bubbleup.AlertModel

	// Input history
	history           *history.History
	historyNavigating bool

	// Session pending delete confirmation ("" when none).
	confirmingDelete string

	// Voice input
	speech       transcript.Engine
	accumulator  *transcript.Accumulator
	speechEvents <-chan transcript.Event
}

// New creates the consultation model.
func New(
	ctx context.Context,
	config *configuration.Config,
	s *store.Store,
	controller *conversation.Controller,
) (*Model, error) {
	strs := language.Lookup(controller.Language())

	ta := textarea.New()
	ta.Placeholder = strs.Placeholder
	ta.Focus()
	ta.CharLimit = 0
	ta.SetWidth(styles.DefaultTextareaWidth)
	ta.SetHeight(styles.MinTextareaHeight)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(true)
	ta.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	alert := bubbleup.NewAlertModel(25, true, 1)

	renderer, err := markdown.NewRenderer(styles.DefaultTextareaWidth)
	if err != nil {
		return nil, err
	}

	var speech transcript.Engine
	if config.Speech.Command != "" {
		speech = transcript.NewCommandEngine(config.Speech.Command)
	}

	return &Model{
		ctx:        ctx,
		config:     config,
		store:      s,
		controller: controller,
		textarea:   ta,
		spinner:    sp,
		renderer:   renderer,
		history:    history.New(config.Chat.HistoryFile),
		alert:      *alert,
		speech:     speech,
	}, nil
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.alert.Init(),
		m.loadSessions(),
	)
}

func (m *Model) strings() language.Strings {
	return language.Lookup(m.controller.Language())
}

func (m *Model) listening() bool {
	return m.accumulator != nil && m.accumulator.State() == transcript.StateListening
}

// lastReplyText returns the body of the most recent assistant reply in the
// active session, for clipboard copy.
func (m *Model) lastReplyText() string {
	active := m.controller.Active()
	if active == nil {
		return ""
	}
	for i := len(active.Messages) - 1; i >= 0; i-- {
		if reply, ok := active.Messages[i].(*store.AssistantMessage); ok {
			return reply.Body
		}
	}
	return ""
}

// parseAttachCommand recognizes the "/attach <path>" input command. It
// returns the path and true when the input is an attach command.
func parseAttachCommand(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/attach ") {
		return "", false
	}
	path := strings.TrimSpace(strings.TrimPrefix(trimmed, "/attach "))
	if path == "" {
		return "", false
	}
	return path, true
}

// parseDetachCommand recognizes the "/detach <n>" input command, where n is
// the 1-based position in the pending-attachment list.
func parseDetachCommand(input string) (int, bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/detach ") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(trimmed, "/detach ")))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// speechLocale maps the conversation language to the recognizer locale.
func (m *Model) speechLocale() string {
	if locale, ok := m.config.Speech.Locales[string(m.controller.Language())]; ok {
		return locale
	}
	return "en-US"
}
