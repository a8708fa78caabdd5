package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/opengrove/sheetset/internal/auth"
)

const loginTimeout = 3 * time.Minute

// AuthLogin runs the browser-based authorization-code flow and persists the
// resulting session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	oauthConfig, err := auth.NewOAuthConfig(r.config.OAuth)
	if err != nil {
		return err
	}

	loginCtx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	r.logger.Info("starting sign-in flow", "redirect", oauthConfig.RedirectURL)

	token, err := auth.Login(loginCtx, oauthConfig)
	if err != nil {
		return err
	}

	profile, err := auth.FetchProfile(ctx, oauthConfig, token)
	if err != nil {
		return err
	}

	r.session.SignIn(profile, token)

	if r.store != nil {
		if err := r.store.Save(profile, token); err != nil {
			r.logger.Warn("failed to persist session", "error", err)
		}
	}

	r.logger.Info("sign-in complete", "email", profile.Email)
	return r.writePlain("✓ Signed in as %s\n", profile.Email)
}

// AuthStatus reports whether the current session can write to the playlist.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	profile, ok := r.session.Profile()
	if !ok {
		return r.writePlain("✗ Not signed in\nPlaylist edits require 'auth login'\n")
	}

	if r.session.IsReady() {
		return r.writePlain("✓ Signed in as %s\n", profile.Email)
	}

	r.writePlain("✗ Session for %s has expired\n", profile.Email)
	return r.writePlain("Run 'auth login' to sign in again\n")
}

// AuthLogout discards the in-memory session and the stored one.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.session.SignOut()

	if r.store != nil {
		if err := r.store.Clear(); err != nil {
			return err
		}
	}

	return r.writePlain("✓ Signed out\n")
}
