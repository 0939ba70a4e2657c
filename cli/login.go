package cli

import (
	"github.com/spf13/cobra"

	"github.com/addislaw/counsel/api"
	"github.com/addislaw/counsel/auth"
	"github.com/addislaw/counsel/internal/cli"
	"github.com/addislaw/counsel/internal/configuration"
)

// NewLoginCmd instantiates and returns the login command.
func NewLoginCmd(config *configuration.Config) *cobra.Command {
	var google bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := newClient(config)

			var token *api.Token
			provider := auth.ProviderLocal
			if google {
				name, err := cli.PromptInput("Name:")
				if err != nil {
					return err
				}
				email, err := cli.PromptInput("Google email:")
				if err != nil {
					return err
				}
				token, err = client.GoogleLogin(ctx, name, email)
				if err != nil {
					return err
				}
				provider = auth.ProviderGoogle
			} else {
				username, err := cli.PromptInput("Username:")
				if err != nil {
					return err
				}
				password, err := cli.PromptPassword("Password:")
				if err != nil {
					return err
				}
				token, err = client.Login(ctx, username, password)
				if err != nil {
					return err
				}
			}

			identity := auth.Identity{
				ID:       token.UserID,
				Username: token.Username,
				Provider: provider,
			}
			if err := auth.Save(config.CredentialsFile, token.AccessToken, identity); err != nil {
				return err
			}

			cli.Success("Logged in as %s", identity.Username)
			return nil
		},
	}

	cmd.Flags().BoolVar(&google, "google", false, "sign in with a Google account")
	return cmd
}
