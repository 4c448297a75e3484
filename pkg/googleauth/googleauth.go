// Package googleauth wraps the Google OAuth2 authorization-code flow used
// for browser login. It only ever yields a verified profile (email plus
// given/family name); role assignment stays with the application.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// Config carries the OAuth client registration values. Endpoint and
// UserinfoURL override the Google defaults; tests point them at a local
// server.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Endpoint     oauth2.Endpoint
	UserinfoURL  string
}

// Profile is the verified identity assertion returned by Google.
type Profile struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// Client drives the authorization-code exchange.
type Client struct {
	oauth       *oauth2.Config
	userinfoURL string
	logger      zerolog.Logger
}

// New constructs a Google OAuth client.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, fmt.Errorf("google oauth client id, secret and redirect url must be provided")
	}

	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	userinfoURL := cfg.UserinfoURL
	if userinfoURL == "" {
		userinfoURL = userinfoEndpoint
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     endpoint,
		},
		userinfoURL: userinfoURL,
		logger:      logger.With().Str("component", "googleauth").Logger(),
	}, nil
}

// AuthCodeURL returns the consent page URL for the given anti-CSRF state.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for a token and fetches the profile.
func (c *Client) Exchange(ctx context.Context, code string) (Profile, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("code exchange failed: %w", err)
	}

	return c.fetchProfile(ctx, token)
}

func (c *Client) fetchProfile(ctx context.Context, token *oauth2.Token) (Profile, error) {
	client := c.oauth.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userinfoURL, nil)
	if err != nil {
		return Profile{}, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn().Int("status", resp.StatusCode).Bytes("body", body).Msg("userinfo endpoint returned non-200")
		return Profile{}, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Profile{}, fmt.Errorf("failed to decode userinfo payload: %w", err)
	}

	if profile.Email == "" {
		return Profile{}, fmt.Errorf("userinfo payload missing email")
	}

	return profile, nil
}
