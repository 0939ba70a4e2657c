package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/addislaw/counsel/auth"
	"github.com/addislaw/counsel/internal/cli"
	"github.com/addislaw/counsel/internal/configuration"
)

// NewRegisterCmd instantiates and returns the register command.
func NewRegisterCmd(config *configuration.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			username, err := cli.PromptInput("Username:")
			if err != nil {
				return err
			}
			password, err := cli.PromptPassword("Password:")
			if err != nil {
				return err
			}
			confirm, err := cli.PromptPassword("Confirm password:")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			token, err := newClient(config).Register(ctx, username, password)
			if err != nil {
				return err
			}

			identity := auth.Identity{
				ID:       token.UserID,
				Username: token.Username,
				Provider: auth.ProviderLocal,
			}
			if err := auth.Save(config.CredentialsFile, token.AccessToken, identity); err != nil {
				return err
			}

			cli.Success("Registered and logged in as %s", identity.Username)
			return nil
		},
	}
}
