package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/songbook/internal/formatter"
	"github.com/desertthunder/songbook/internal/shared"
	"github.com/desertthunder/songbook/internal/ui"
	"github.com/urfave/cli/v3"
)

// parseIDArg reads the positional id argument. Only positive integers name a song.
func parseIDArg(cmd *cli.Command) (int64, error) {
	raw := strings.TrimSpace(cmd.StringArg("id"))
	if raw == "" {
		return 0, fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q is not a song id", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

// SongsList prints every song ordered by ID.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	repo, store, err := r.songRepository()
	if err != nil {
		return err
	}
	defer store.Close()

	songs, err := repo.List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}

	if len(songs) == 0 {
		return r.writePlain("No songs found yet.\n")
	}

	if cmd.Bool("plain") {
		for _, s := range songs {
			if err := r.writePlain("ID: %d, Title: %s\n", s.ID, s.Title); err != nil {
				return err
			}
		}
		return nil
	}

	rows := make([][]string, len(songs))
	for i, s := range songs {
		rows[i] = []string{strconv.FormatInt(s.ID, 10), s.Title}
	}
	return r.writePlain("%s\n", ui.Table([]string{"ID", "Title"}, rows))
}

// SongsShow prints one song with its lyrics.
func (r *Runner) SongsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}

	repo, store, err := r.songRepository()
	if err != nil {
		return err
	}
	defer store.Close()

	song, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(song, true)
	}

	return r.writePlain("%s\n%s\n", ui.Title(fmt.Sprintf("%s (#%d)", song.Title, song.ID)), song.Lyrics)
}

// SongsAdd creates a song from flags, reading lyrics from --lyrics-file when given.
func (r *Runner) SongsAdd(ctx context.Context, cmd *cli.Command) error {
	lyrics := cmd.String("lyrics")
	if path := cmd.String("lyrics-file"); path != "" {
		if lyrics != "" {
			return fmt.Errorf("%w: cannot specify both --lyrics and --lyrics-file", shared.ErrInvalidArgument)
		}
		data, err := readInput(path, cmd.Root().Reader)
		if err != nil {
			return err
		}
		lyrics = string(data)
	}

	repo, store, err := r.songRepository()
	if err != nil {
		return err
	}
	defer store.Close()

	song, err := repo.Create(ctx, cmd.String("title"), lyrics)
	if err != nil {
		return err
	}

	r.logger.Info("song created", "id", song.ID, "title", song.Title)
	return r.writePlain("%s Added %q with ID %d\n", ui.Success("✓"), song.Title, song.ID)
}

// SongsDelete removes a song by ID.
func (r *Runner) SongsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}

	repo, store, err := r.songRepository()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := repo.Delete(ctx, id); err != nil {
		return err
	}

	r.logger.Info("song deleted", "id", id)
	return r.writePlain("%s Deleted song %d\n", ui.Success("✓"), id)
}

// SongsExport renders every song in --format to stdout, --output, or songbook.<ext> with --save.
func (r *Runner) SongsExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	output := cmd.String("output")
	save := cmd.Bool("save")
	if output != "" && save {
		return fmt.Errorf("%w: cannot specify both --output and --save", shared.ErrInvalidArgument)
	}

	repo, store, err := r.songRepository()
	if err != nil {
		return err
	}
	defer store.Close()

	songs, err := repo.List(ctx)
	if err != nil {
		return err
	}

	if output == "" && !save {
		data, err := formatter.Export(format, songs)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	path, err := formatter.WriteExport(format, songs, output)
	if err != nil {
		return err
	}

	r.logger.Info("songbook exported", "format", format, "path", path, "songs", len(songs))
	return r.writePlain("%s Exported %d songs to %s\n", ui.Success("✓"), len(songs), path)
}

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lyrics file: %w", err)
	}
	return data, nil
}
