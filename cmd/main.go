package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/opengrove/sheetset/internal/auth"
	"github.com/opengrove/sheetset/internal/catalog"
	"github.com/opengrove/sheetset/internal/playlist"
	"github.com/opengrove/sheetset/internal/sheets"
	"github.com/opengrove/sheetset/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	ctx := context.Background()

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	session := auth.NewSession()
	var store *auth.Store
	if s, err := auth.OpenStore(config.Database.Path); err == nil {
		store = s
		if profile, token, ok, err := s.Load(); err == nil && ok {
			session.SignIn(profile, token)
		}
	} else {
		logger.Warn("session store unavailable", "error", err)
	}

	opts := RunnerOpts{
		Config:  config,
		Session: session,
		Store:   store,
		Logger:  logger,
	}

	if config.Spreadsheet.ID != "" && config.Spreadsheet.Tab != "" {
		client, err := sheets.NewClient(ctx, sheets.Options{
			SpreadsheetID: config.Spreadsheet.ID,
			Tab:           config.Spreadsheet.Tab,
			APIKey:        config.Spreadsheet.APIKey,
			TokenSource:   session,
			Pacer:         playlist.NewLimiter(config.Sync.RateInterval()),
			Timeout:       config.Sync.RequestTimeout(),
			Logger:        logger,
		})
		if err != nil {
			logger.Warn("spreadsheet client unavailable", "error", err)
		} else {
			reader := playlist.NewReader(client, logger)
			writer := playlist.NewWriter(client, session, logger)
			opts.Reader = reader
			opts.Mutator = playlist.NewMutator(reader, writer, logger)
		}
	}

	if config.Catalog.FolderID != "" {
		catalogOpts := catalog.Options{
			FolderID: config.Catalog.FolderID,
			APIKey:   config.Spreadsheet.APIKey,
			Timeout:  config.Sync.RequestTimeout(),
			Logger:   logger,
		}
		if session.IsReady() {
			catalogOpts.TokenSource = session
		}
		if client, err := catalog.NewClient(ctx, catalogOpts); err == nil {
			opts.Catalog = client
		} else {
			logger.Warn("catalog client unavailable", "error", err)
		}
	}

	runner := NewRunner(opts)

	if err := newRootCommand(runner).Run(ctx, os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func newRootCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "sheetset",
		Usage:    "Curate a shared song playlist backed by a spreadsheet",
		Version:  "0.3.0",
		Commands: r.register(),
	}
}
