package chat

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/addislaw/counsel/api"
	"github.com/addislaw/counsel/attachment"
	"github.com/addislaw/counsel/auth"
	"github.com/addislaw/counsel/conversation"
	"github.com/addislaw/counsel/internal/configuration"
	"github.com/addislaw/counsel/internal/language"
	"github.com/addislaw/counsel/store"
)

// NewCmd instantiates and returns the chat command.
func NewCmd(config *configuration.Config) *cobra.Command {
	var opts struct {
		Files    []string
		Language string
	}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the consultation screen",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			session, err := auth.Load(config.CredentialsFile)
			if err != nil {
				return err
			}
			if !session.Valid(time.Now()) {
				return fmt.Errorf("not logged in: run 'counsel login' first")
			}

			lang := language.Tag(config.Language)
			if opts.Language != "" {
				lang = language.Tag(opts.Language)
			}
			if !lang.Valid() {
				return fmt.Errorf("unknown language %q", lang)
			}

			client := api.NewClient(config.APIHost, time.Duration(config.RequestTimeout)*time.Second)
			client.SetToken(session.Token)

			controller := conversation.NewController(client, session.Identity, lang)

			// Files given on the command line ride the first send.
			for _, path := range append(opts.Files, args...) {
				att, err := attachment.FromFile(path)
				cobra.CheckErr(err)
				controller.AddPending(att)
			}

			m, err := New(ctx, config, store.New(client), controller)
			if err != nil {
				return err
			}

			p := tea.NewProgram(
				m,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithMouseCellMotion(),
				tea.WithReportFocus(),
			)

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running chat: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Files, "file", "f", nil, "attach a file to the first message")
	cmd.Flags().StringVarP(&opts.Language, "language", "l", "", "conversation language (en, am)")
	return cmd
}
