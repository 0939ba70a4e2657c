package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Layout constants
const (
	// Textarea
	MinTextareaHeight    = 3
	MaxTextareaHeight    = 10
	DefaultTextareaWidth = 80
	TextAreaPaddingLeft  = 1

	// Viewport
	MinViewportHeight = 1

	// Layout
	InputBorderHeight  = 2
	HeaderHeight       = 2
	SidebarWidth       = 28
	MessagePaddingLeft = 2

	// Confirmation dialog
	ConfirmPaddingHorizontal = 2
	ConfirmPaddingVertical   = 1
	ConfirmMarginTop         = 1

	// Help
	HelpMarginTop = 1

	// Truncation
	TruncateLength       = 24
	TruncateSuffix       = "..."
	TruncateSuffixLength = 3
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#B45309") // Amber, for the bench
	SecondaryColor = lipgloss.Color("#0E7490") // Teal
	AccentColor    = lipgloss.Color("#F59E0B") // Bright amber
	SuccessColor   = lipgloss.Color("#10B981") // Green
	ErrorColor     = lipgloss.Color("#EF4444") // Red
	MutedColor     = lipgloss.Color("#6B7280") // Gray
	TextColor      = lipgloss.Color("#F9FAFB") // Light gray
	DimTextColor   = lipgloss.Color("#9CA3AF") // Dim gray
	WelcomeColor   = lipgloss.Color("#FCD34D")
	SourceColor    = lipgloss.Color("#93C5FD") // Pale blue for citations
	BorderColor    = lipgloss.Color("#4B5563")
	DividerColor   = lipgloss.Color("#374151")
	CodeBgColor    = lipgloss.Color("#374151")
)

// Title bar
var (
	TitleStyle = lipgloss.NewStyle().
			Background(PrimaryColor).
			Foreground(TextColor).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(DimTextColor).
			Background(PrimaryColor)
)

// Sidebar
var (
	SidebarStyle = lipgloss.NewStyle().
			Width(SidebarWidth).
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(BorderColor).
			PaddingRight(1)

	SidebarEntryStyle = lipgloss.NewStyle().
				Foreground(DimTextColor)

	SidebarActiveStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true)
)

// Messages.
var (
	messageStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder())

	UserMessageStyle = lipgloss.NewStyle().
				Inherit(messageStyle).
				BorderForeground(PrimaryColor).
				MarginLeft(10)

	AssistantMessageStyle = lipgloss.NewStyle().
				Inherit(messageStyle).
				BorderForeground(SecondaryColor).
				MarginRight(10)

	WelcomeMessageStyle = lipgloss.NewStyle().
				Inherit(messageStyle).
				BorderForeground(WelcomeColor).
				MarginRight(10)

	MessageErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Italic(true).
				PaddingLeft(MessagePaddingLeft)
)

// Citations
var (
	SourceLabelStyle = lipgloss.NewStyle().
				Foreground(AccentColor).
				Bold(true)

	SourceStyle = lipgloss.NewStyle().
			Foreground(SourceColor).
			PaddingLeft(MessagePaddingLeft)
)

// Attachments
var (
	AttachmentStyle = lipgloss.NewStyle().
		Foreground(SuccessColor).
		Italic(true)
)

// Voice input
var (
	ListeningStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	InterimStyle = lipgloss.NewStyle().
			Foreground(DimTextColor).
			Italic(true)
)

var (
	DimTextStyle = lipgloss.NewStyle().
		Foreground(DimTextColor)
)

// Error
var (
	ErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)
)

// Input area
var (
	TextAreaStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		PaddingLeft(TextAreaPaddingLeft)
)

// Spinner
var (
	SpinnerStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor)
)

// Help text
var (
	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true).
		MarginTop(HelpMarginTop)
)

// Confirmation dialog
var (
	ConfirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(AccentColor).
			Padding(ConfirmPaddingVertical, ConfirmPaddingHorizontal).
			MarginTop(ConfirmMarginTop)

	ConfirmTitleStyle = lipgloss.NewStyle().
				Foreground(AccentColor).
				Bold(true)

	ConfirmSubjectStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(CodeBgColor)
)

// Viewport
var (
	ViewportStyle = lipgloss.NewStyle().Margin(0).Padding(0)
)

// Divider
var (
	DividerStyle = lipgloss.NewStyle().
		Foreground(DividerColor)
)

// MessageHorizontalFrameSize returns the horizontal frame size of assistant messages.
func MessageHorizontalFrameSize() int {
	return AssistantMessageStyle.GetHorizontalFrameSize()
}

// Truncate truncates a string to the specified length with a suffix.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-TruncateSuffixLength]) + TruncateSuffix
}
