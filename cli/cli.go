// Package cli holds the counsel commands.
package cli

import (
	"time"

	"github.com/pkg/errors"

	"github.com/addislaw/counsel/api"
	"github.com/addislaw/counsel/auth"
	"github.com/addislaw/counsel/internal/configuration"
)

func newClient(config *configuration.Config) *api.Client {
	return api.NewClient(config.APIHost, time.Duration(config.RequestTimeout)*time.Second)
}

// authenticatedClient loads the stored credentials and returns a client
// carrying the bearer token.
func authenticatedClient(config *configuration.Config) (*api.Client, *auth.Session, error) {
	session, err := auth.Load(config.CredentialsFile)
	if err != nil {
		return nil, nil, err
	}
	if !session.Valid(time.Now()) {
		return nil, nil, errors.New("session expired: run 'counsel login' again")
	}
	client := newClient(config)
	client.SetToken(session.Token)
	return client, session, nil
}
