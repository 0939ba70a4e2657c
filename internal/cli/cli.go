package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/buger/goterm"
	"github.com/fatih/color"
)

var (
	// Colors for different types of output
	titleColor     = color.New(color.FgMagenta, color.Bold) // Bold magenta for titles
	separatorColor = color.New(color.FgHiBlack)             // Dark grey for separators
	infoColor      = color.New(color.FgCyan)                // Cyan for informational output
	successColor   = color.New(color.FgGreen)               // Green for success messages
	warningColor   = color.New(color.FgYellow)              // Yellow for warnings
	errorColor     = color.New(color.FgRed)                 // Red for errors
	fieldColor     = color.New(color.FgWhite)               // White for record fields
	dimColor       = color.New(color.FgHiBlack)             // Dark grey for secondary fields

	width = goterm.Width()
)

// Separator printed to cli.
func Separator() {
	separator := strings.Repeat("-", width)
	separatorColor.Println(separator)
}

// Title printed to cli.
func Title(text string, args ...any) {
	title := "      " + fmt.Sprintf(text, args...) + "      "
	leftWidth := (width - len(title)) / 2
	separator1 := strings.Repeat("-", leftWidth)
	separator2 := strings.Repeat("-", width-len(title)-len(separator1))
	output := fmt.Sprintf("%s%s%s", separator1, title, separator2)
	titleColor.Println(output)
}

// Info printed to cli.
func Info(text string, args ...any) {
	infoColor.Printf(text+"\n", args...)
}

// Success printed to cli.
func Success(text string, args ...any) {
	successColor.Printf(text+"\n", args...)
}

// Warning printed to cli.
func Warning(text string, args ...any) {
	warningColor.Printf(text+"\n", args...)
}

// Error printed to cli.
func Error(text string, args ...any) {
	errorColor.Printf(text+"\n", args...)
}

// Field prints a record field with a dim secondary column.
func Field(primary, secondary string) {
	fieldColor.Printf("%s  ", primary)
	dimColor.Println(secondary)
}

// PromptInput asks the user for a line of input.
func PromptInput(message string) (string, error) {
	var answer string
	prompt := &survey.Input{Message: message}
	if err := survey.AskOne(prompt, &answer, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return answer, nil
}

// PromptPassword asks the user for a password without echoing it.
func PromptPassword(message string) (string, error) {
	var answer string
	prompt := &survey.Password{Message: message}
	if err := survey.AskOne(prompt, &answer, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return answer, nil
}

// QueryUser a yes/no question.
func QueryUser(question string) bool {
	surveyQuestion := &survey.Confirm{
		Message: question,
	}
	confirm := false
	survey.AskOne(surveyQuestion, &confirm)
	return confirm
}
