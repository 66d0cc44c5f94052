package azuread

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/runwell-io/action-azuread-group-remove/runner"
)

// CredentialStrategy produces the Authorization header value for the
// directory calls. Only OAuthClientCredentials performs network I/O.
type CredentialStrategy interface {
	AuthorizationHeader(ctx context.Context) (string, error)
}

// BearerSecret is a token used directly as a bearer credential.
type BearerSecret struct {
	Token string
}

func (s BearerSecret) AuthorizationHeader(ctx context.Context) (string, error) {
	return withBearerPrefix(s.Token), nil
}

// BasicAuth is a username/password pair sent as an HTTP Basic credential.
type BasicAuth struct {
	Username string
	Password string
}

func (s BasicAuth) AuthorizationHeader(ctx context.Context) (string, error) {
	encoded := base64.StdEncoding.EncodeToString([]byte(s.Username + ":" + s.Password))

	return "Basic " + encoded, nil
}

// OAuthStaticToken is a pre-issued OAuth2 access token.
type OAuthStaticToken struct {
	AccessToken string
}

func (s OAuthStaticToken) AuthorizationHeader(ctx context.Context) (string, error) {
	return withBearerPrefix(s.AccessToken), nil
}

// OAuthClientCredentials exchanges a client id and secret for an access token
// at the configured token endpoint.
type OAuthClientCredentials struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scope        string
	Audience     string
	AuthStyle    oauth2.AuthStyle
}

func (s OAuthClientCredentials) AuthorizationHeader(ctx context.Context) (string, error) {
	conf := &clientcredentials.Config{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		TokenURL:     s.TokenURL,
		AuthStyle:    s.AuthStyle,
	}

	if s.Scope != "" {
		conf.Scopes = strings.Fields(s.Scope)
	}

	if s.Audience != "" {
		conf.EndpointParams = url.Values{"audience": {s.Audience}}
	}

	token, err := conf.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("could not fetch an access token from %s: %w", s.TokenURL, err)
	}

	if token.AccessToken == "" {
		return "", fmt.Errorf("token response from %s did not contain an access_token", s.TokenURL)
	}

	return withBearerPrefix(token.AccessToken), nil
}

// ResolveCredential selects the first satisfiable credential scheme. The
// order is a fixed priority: bearer secret, basic auth, pre-issued OAuth2
// access token, OAuth2 client credentials.
func ResolveCredential(cfg *runner.ConfigMap) (CredentialStrategy, error) {
	if token := cfg.GetString(EnvBearerToken); token != "" {
		return BearerSecret{Token: token}, nil
	}

	username := cfg.GetString(EnvBasicUsername)
	password := cfg.GetString(EnvBasicPassword)

	if username != "" && password != "" {
		return BasicAuth{Username: username, Password: password}, nil
	}

	if token := cfg.GetString(EnvOAuthAccessToken); token != "" {
		return OAuthStaticToken{AccessToken: token}, nil
	}

	if secret := cfg.GetString(EnvOAuthClientSecret); secret != "" {
		tokenURL := cfg.GetString(EnvOAuthTokenURL)
		if tokenURL == "" {
			return nil, fmt.Errorf("%s is set but %s is missing", EnvOAuthClientSecret, EnvOAuthTokenURL)
		}

		clientID := cfg.GetString(EnvOAuthClientID)
		if clientID == "" {
			return nil, fmt.Errorf("%s is set but %s is missing", EnvOAuthClientSecret, EnvOAuthClientID)
		}

		authStyle := oauth2.AuthStyleInHeader
		if cfg.GetString(EnvOAuthClientAuthStyle) == AuthMethodInParams {
			authStyle = oauth2.AuthStyleInParams
		}

		return OAuthClientCredentials{
			TokenURL:     tokenURL,
			ClientID:     clientID,
			ClientSecret: secret,
			Scope:        cfg.GetString(EnvOAuthScope),
			Audience:     cfg.GetString(EnvOAuthAudience),
			AuthStyle:    authStyle,
		}, nil
	}

	var reasons error

	reasons = multierror.Append(reasons,
		fmt.Errorf("%s is not set", EnvBearerToken),
		fmt.Errorf("%s and %s are not both set", EnvBasicUsername, EnvBasicPassword),
		fmt.Errorf("%s is not set", EnvOAuthAccessToken),
		fmt.Errorf("%s is not set", EnvOAuthClientSecret),
	)

	return nil, fmt.Errorf("no supported credential scheme is configured: %w", reasons)
}

func withBearerPrefix(token string) string {
	if strings.HasPrefix(token, "Bearer ") || strings.HasPrefix(token, "Basic ") {
		return token
	}

	return "Bearer " + token
}
