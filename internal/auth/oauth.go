package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/opengrove/sheetset/internal/shared"
)

// Scopes requested at sign-in: spreadsheet writes plus read-only Drive access
// for the song catalog.
const (
	ScopeSpreadsheets = "https://www.googleapis.com/auth/spreadsheets"
	ScopeDriveRead    = "https://www.googleapis.com/auth/drive.readonly"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// NewOAuthConfig builds the Google OAuth2 config for the authorization-code
// flow used by `auth login`.
func NewOAuthConfig(cfg shared.OAuthConfig) (*oauth2.Config, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: oauth client_id and client_secret", shared.ErrInvalidConfig)
	}

	redirect := cfg.RedirectURI
	if redirect == "" {
		redirect = "http://localhost:8080/callback"
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirect,
		Scopes: []string{
			ScopeSpreadsheets,
			ScopeDriveRead,
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}, nil
}

// FetchProfile retrieves the signed-in user's identity with the given token.
func FetchProfile(ctx context.Context, config *oauth2.Config, token *oauth2.Token) (Profile, error) {
	client := config.Client(ctx, token)

	resp, err := client.Get(userinfoURL)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: userinfo request: %v", shared.ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Profile{}, fmt.Errorf("%w: userinfo status %d", shared.ErrAuthFailed, resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Profile{}, fmt.Errorf("%w: decode userinfo: %v", shared.ErrAuthFailed, err)
	}

	return profile, nil
}
