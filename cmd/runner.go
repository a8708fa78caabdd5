package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/opengrove/sheetset/internal/auth"
	"github.com/opengrove/sheetset/internal/catalog"
	"github.com/opengrove/sheetset/internal/playlist"
	"github.com/opengrove/sheetset/internal/shared"
)

// playlistReader reads the shared playlist from the backing spreadsheet.
type playlistReader interface {
	FetchAll(ctx context.Context) ([]playlist.Entry, error)
}

// playlistMutator applies read-modify-write edits to the shared playlist.
type playlistMutator interface {
	Toggle(ctx context.Context, songID string) error
	Add(ctx context.Context, songID string) error
	Remove(ctx context.Context, songID string) error
	Reorder(ctx context.Context, orderedSongIDs []string) error
}

// songCatalog lists song documents and exports their text.
type songCatalog interface {
	List(ctx context.Context) ([]catalog.Song, error)
	ExportText(ctx context.Context, songID string) (string, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	session *auth.Session
	store   *auth.Store
	reader  playlistReader
	mutator playlistMutator
	catalog songCatalog
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Session *auth.Session
	Store   *auth.Store
	Reader  playlistReader
	Mutator playlistMutator
	Catalog songCatalog
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Session == nil {
		opts.Session = auth.NewSession()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		session: opts.Session,
		store:   opts.Store,
		reader:  opts.Reader,
		mutator: opts.Mutator,
		catalog: opts.Catalog,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, songsCommand, playlistCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) requirePlaylist() error {
	if r.reader == nil || r.mutator == nil {
		return fmt.Errorf("%w: spreadsheet.id and spreadsheet.tab must be configured", shared.ErrMissingConfig)
	}
	return nil
}

func (r *Runner) requireCatalog() error {
	if r.catalog == nil {
		return fmt.Errorf("%w: catalog.folder_id must be configured", shared.ErrMissingConfig)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
