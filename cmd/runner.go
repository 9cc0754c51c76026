package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songbook/internal/repositories"
	"github.com/desertthunder/songbook/internal/shared"
	"github.com/urfave/cli/v3"
)

const version = "0.3.0"

// StoreOpener opens the record store described by a [shared.DatabaseConfig].
type StoreOpener func(cfg shared.DatabaseConfig) (*shared.Store, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	logger    *log.Logger
	output    io.Writer
	openStore StoreOpener
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is resolved from --config, .env and the environment before any command runs.
type RunnerOpts struct {
	Config    *shared.Config
	Logger    *log.Logger
	Output    io.Writer
	OpenStore StoreOpener
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.OpenStore == nil {
		opts.OpenStore = shared.OpenStore
	}

	return &Runner{
		config:    opts.Config,
		logger:    opts.Logger,
		output:    opts.Output,
		openStore: opts.OpenStore,
	}
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "songbook",
		Usage:   "Manage songs and lyrics from the browser or the terminal",
		Version: version,
		Writer:  r.output,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("SONGBOOK_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "database-url",
				Usage: "Database connection string (overrides config and DATABASE_URL)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
		},
		Before:   r.configure,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, dbCommand, songsCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configure resolves configuration once and applies global flag overrides.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.config == nil {
		config, err := shared.ResolveConfig(cmd.String("config"))
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if url := cmd.String("database-url"); url != "" {
		r.config.Database.URL = url
	}

	level := r.config.Log.Level
	if l := cmd.String("log-level"); l != "" {
		level = l
	}
	if err := shared.ParseLogLevel(r.logger, level); err != nil {
		return ctx, err
	}

	return ctx, nil
}

// store opens the configured record store, applying migrations when migrate is set.
func (r *Runner) store(migrate bool) (*shared.Store, error) {
	if r.config == nil {
		return nil, fmt.Errorf("%w: configuration was not resolved", shared.ErrMissingConfig)
	}

	store, err := r.openStore(r.config.Database)
	if err != nil {
		return nil, err
	}

	if migrate {
		if err := shared.RunMigrations(store); err != nil {
			store.Close()
			return nil, fmt.Errorf("%w: failed to run migrations: %w", shared.ErrPersistence, err)
		}
	}
	return store, nil
}

// songRepository opens a migrated store and wraps it in a [repositories.SongRepository].
//
// The caller closes the returned store.
func (r *Runner) songRepository() (*repositories.SongRepository, *shared.Store, error) {
	store, err := r.store(true)
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewSongRepository(store), store, nil
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
