package cli

import (
	"github.com/spf13/cobra"

	"github.com/addislaw/counsel/auth"
	"github.com/addislaw/counsel/internal/cli"
	"github.com/addislaw/counsel/internal/configuration"
)

// NewLogoutCmd instantiates and returns the logout command.
func NewLogoutCmd(config *configuration.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.Clear(config.CredentialsFile); err != nil {
				return err
			}
			cli.Info("Logged out")
			return nil
		},
	}
}
