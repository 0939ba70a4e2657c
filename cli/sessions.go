package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/addislaw/counsel/internal/cli"
	"github.com/addislaw/counsel/internal/configuration"
	"github.com/addislaw/counsel/store"
)

// NewSessionsCmd instantiates and returns the sessions command.
func NewSessionsCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List consultations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, session, err := authenticatedClient(config)
			if err != nil {
				return err
			}

			sessions, err := store.New(client).List(cmd.Context())
			if err != nil {
				return err
			}

			cli.Title("Consultations: %s", session.Identity.Username)
			if len(sessions) == 0 {
				cli.Info("No consultations yet. Run 'counsel chat' to start one.")
				return nil
			}
			for _, s := range sessions {
				secondary := fmt.Sprintf("%s  %s", s.ID, s.UpdatedAt.Format("2006-01-02 15:04"))
				cli.Field(s.Title, secondary)
			}
			return nil
		},
	}

	cmd.AddCommand(newSessionsDeleteCmd(config))
	return cmd
}

func newSessionsDeleteCmd(config *configuration.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a consultation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := authenticatedClient(config)
			if err != nil {
				return err
			}

			id := args[0]
			if !cli.QueryUser(fmt.Sprintf("Delete consultation %s? This cannot be undone.", id)) {
				return nil
			}

			if err := store.New(client).Delete(cmd.Context(), id); err != nil {
				return err
			}
			cli.Success("Deleted %s", id)
			return nil
		},
	}
}
