package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/opengrove/sheetset/internal/shared"
)

// SongsList lists songs in the catalog folder.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	songs, err := r.catalog.List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	if len(songs) == 0 {
		return r.writePlain("Catalog is empty\n")
	}

	for _, song := range songs {
		r.writePlain("%s\t%s\n", song.ID, song.Name)
	}
	return nil
}

// SongsShow prints the text of one song document.
func (r *Runner) SongsShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	songID := cmd.StringArg("id")
	if songID == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	text, err := r.catalog.ExportText(ctx, songID)
	if err != nil {
		return err
	}

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return r.writePlain("%s", text)
}
