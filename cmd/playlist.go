package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/opengrove/sheetset/internal/playlist"
	"github.com/opengrove/sheetset/internal/shared"
)

// PlaylistShow prints the playlist in performance order.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requirePlaylist(); err != nil {
		return err
	}

	entries, err := r.reader.FetchAll(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	if len(entries) == 0 {
		return r.writePlain("Playlist is empty\n")
	}

	for _, entry := range entries {
		marker := " "
		if entry.Selected {
			marker = "✓"
		}
		r.writePlain("%3d %s %s\n", entry.Order, marker, entry.SongID)
	}
	return nil
}

// PlaylistToggle flips a song's membership.
func (r *Runner) PlaylistToggle(ctx context.Context, cmd *cli.Command) error {
	if err := r.requirePlaylist(); err != nil {
		return err
	}

	songID := cmd.StringArg("song-id")
	if err := r.mutator.Toggle(ctx, songID); err != nil {
		return err
	}
	return r.writePlain("✓ Toggled %s\n", songID)
}

// PlaylistAdd appends a song to the end of the playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requirePlaylist(); err != nil {
		return err
	}

	songID := cmd.StringArg("song-id")
	if err := r.mutator.Add(ctx, songID); err != nil {
		return err
	}
	return r.writePlain("✓ Added %s\n", songID)
}

// PlaylistRemove deletes a song from the playlist.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.requirePlaylist(); err != nil {
		return err
	}

	songID := cmd.StringArg("song-id")
	if err := r.mutator.Remove(ctx, songID); err != nil {
		return err
	}
	return r.writePlain("✓ Removed %s\n", songID)
}

// PlaylistReorder replaces the playlist order with the given song ids.
func (r *Runner) PlaylistReorder(ctx context.Context, cmd *cli.Command) error {
	if err := r.requirePlaylist(); err != nil {
		return err
	}

	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one song id", shared.ErrMissingArgument)
	}

	if err := r.mutator.Reorder(ctx, ids); err != nil {
		return err
	}
	return r.writePlain("✓ Reordered %d songs\n", len(ids))
}

// PlaylistExport writes the playlist as JSON or CSV, to stdout or a file.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requirePlaylist(); err != nil {
		return err
	}

	entries, err := r.reader.FetchAll(ctx)
	if err != nil {
		return err
	}

	out := r.output
	if path := cmd.String("output"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	format := cmd.String("format")
	switch format {
	case "json":
		return exportJSON(out, entries)
	case "csv":
		return exportCSV(out, entries)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidInput, format)
	}
}

func exportJSON(out io.Writer, entries []playlist.Entry) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode playlist: %w", err)
	}
	return nil
}

func exportCSV(out io.Writer, entries []playlist.Entry) error {
	writer := csv.NewWriter(out)

	if err := writer.Write([]string{"song_id", "selected", "order"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, entry := range entries {
		record := []string{
			entry.SongID,
			strconv.FormatBool(entry.Selected),
			strconv.Itoa(entry.Order),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
