package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/addislaw/counsel/cli/chat/styles"
	"github.com/addislaw/counsel/store"
)

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n")

	main := styles.ViewportStyle.Render(m.viewport.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
	b.WriteString(body)
	b.WriteString("\n")

	if m.confirmingDelete != "" {
		b.WriteString(m.renderConfirmDialog())
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Press Y to confirm, N or Esc to cancel"))
		return m.alert.Render(b.String())
	}

	if m.controller.InFlight() {
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), m.strings().Consulting))
	} else {
		if pending := m.controller.Pending(); len(pending) > 0 {
			names := make([]string, len(pending))
			for i, att := range pending {
				names[i] = fmt.Sprintf("%d:%s", i+1, att.Name)
			}
			b.WriteString(styles.AttachmentStyle.Render("📎 " + strings.Join(names, "  ")))
			b.WriteString("\n")
		}
		if m.listening() {
			b.WriteString(styles.ListeningStyle.Render("● " + m.strings().Listening))
			b.WriteString("\n")
		}
		b.WriteString(styles.TextAreaStyle.Render(m.textarea.View()))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return m.alert.Render(b.String())
}

func (m *Model) renderTitle() string {
	lang := strings.ToUpper(string(m.controller.Language()))
	title := "…"
	if active := m.controller.Active(); active != nil {
		title = active.Title
	}
	header := fmt.Sprintf(" ⚖ counsel │ 👤 %s │ 🌐 %s │ 💬 %s ",
		m.controller.Identity().Username, lang, styles.Truncate(title, styles.TruncateLength*2))
	return styles.TitleStyle.Width(m.width).Render(header)
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	active := m.controller.Active()

	for i, s := range m.controller.Sessions() {
		if i > 0 {
			b.WriteString("\n")
		}
		label := styles.Truncate(s.Title, styles.TruncateLength)
		if active != nil && s.ID == active.ID {
			b.WriteString(styles.SidebarActiveStyle.Render("▌ " + label))
		} else {
			b.WriteString(styles.SidebarEntryStyle.Render("  " + label))
		}
	}

	height := m.viewport.Height
	return styles.SidebarStyle.Height(height).Render(b.String())
}

func (m *Model) renderMessages() string {
	active := m.controller.Active()
	if active == nil {
		return ""
	}

	var b strings.Builder
	for i, msg := range active.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg := msg.(type) {
		case *store.UserMessage:
			rendered := m.renderer.Render(msg.MessageID, msg.Body)
			b.WriteString(styles.UserMessageStyle.Render(rendered))
			for _, att := range msg.Attachments {
				b.WriteString("\n")
				b.WriteString(styles.AttachmentStyle.Render(fmt.Sprintf("📎 %s", att.Name)))
			}

		case *store.AssistantMessage:
			style := styles.AssistantMessageStyle
			if msg.Welcome {
				style = styles.WelcomeMessageStyle
			}
			if msg.Failed {
				b.WriteString(styles.MessageErrorStyle.Render("⚠️ " + msg.Body))
				continue
			}
			rendered := m.renderer.Render(msg.MessageID, msg.Body)
			b.WriteString(style.Render(rendered))

			if len(msg.Sources) > 0 {
				b.WriteString("\n")
				b.WriteString(styles.SourceLabelStyle.Render("§ Sources:"))
				for _, source := range msg.Sources {
					b.WriteString("\n")
					b.WriteString(styles.SourceStyle.Render(fmt.Sprintf("%s │ %s", source.Title, source.URI)))
				}
			}
		}
	}

	return b.String()
}

func (m *Model) renderConfirmDialog() string {
	title := m.confirmingDelete
	for _, s := range m.controller.Sessions() {
		if s.ID == m.confirmingDelete {
			title = s.Title
			break
		}
	}

	var b strings.Builder
	b.WriteString(styles.ConfirmTitleStyle.Render("🗑 Delete this consultation?"))
	b.WriteString("\n\n")
	b.WriteString(styles.ConfirmSubjectStyle.Render(" " + title + " "))
	return styles.ConfirmBoxStyle.Render(b.String())
}
