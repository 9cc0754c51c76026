package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/server"
	"github.com/desertthunder/songbook/internal/shared"
	tu "github.com/desertthunder/songbook/internal/testing"
)

// harness runs the songbook app against dbURL with a config path that does not exist.
type harness struct {
	t     *testing.T
	dbURL string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{t: t, dbURL: filepath.Join(t.TempDir(), "songs.db")}
}

func (c *harness) run(args ...string) (string, error) {
	c.t.Helper()

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(io.Discard)})

	argv := append([]string{"songbook", "--config", filepath.Join(c.t.TempDir(), "none.toml"), "--database-url", c.dbURL}, args...)
	err := runner.app().Run(context.Background(), argv)
	return output.String(), err
}

func (c *harness) mustRun(args ...string) string {
	c.t.Helper()

	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("songbook %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config:    config,
				Logger:    logger,
				Output:    output,
				OpenStore: shared.OpenStore,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.openStore == nil {
				t.Error("expected store opener to be set")
			}
		})

		t.Run("with nil config defers resolution", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config != nil {
				t.Error("expected config to be resolved later")
			}
			if _, err := runner.store(false); !errors.Is(err, shared.ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected stdout as default output")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.NewLimitedWriter(1, 0, &bytes.Buffer{})})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("writePlainln surrounds with newlines", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			runner.writePlainln("next")
			if output.String() != "\nnext\n" {
				t.Errorf("expected newline-wrapped text, got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"serve", "setup", "db", "songs"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})
}

func TestConfigure(t *testing.T) {
	t.Run("flags override provided config", func(t *testing.T) {
		config := shared.DefaultConfig()
		runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}, Logger: shared.NewLogger(io.Discard)})

		dbURL := filepath.Join(t.TempDir(), "override.db")
		err := runner.app().Run(context.Background(), []string{"songbook", "--database-url", dbURL, "--log-level", "debug", "songs", "list"})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		if config.Database.URL != dbURL {
			t.Errorf("expected database url override, got %q", config.Database.URL)
		}
		tu.AssertFileExists(t, dbURL)
	})

	t.Run("invalid log level", func(t *testing.T) {
		c := newHarness(t)
		if _, err := c.run("--log-level", "chatty", "songs", "list"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("unsupported database scheme", func(t *testing.T) {
		c := newHarness(t)
		c.dbURL = "mysql://localhost/songs"
		if _, err := c.run("songs", "list"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("config file is read", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "from-file.db")
		configPath := filepath.Join(dir, "config.toml")
		content := "[database]\nurl = \"" + filepath.ToSlash(dbPath) + "\"\n"
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: shared.NewLogger(io.Discard)})
		if err := runner.app().Run(context.Background(), []string{"songbook", "--config", configPath, "setup", "database"}); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		tu.AssertFileExists(t, dbPath)
	})
}

func TestSongsCommands(t *testing.T) {
	c := newHarness(t)

	t.Run("empty list", func(t *testing.T) {
		if out := c.mustRun("songs", "list"); !strings.Contains(out, "No songs found yet.") {
			t.Errorf("expected empty message, got %q", out)
		}
	})

	t.Run("add", func(t *testing.T) {
		out := c.mustRun("songs", "add", "--title", "  Amazing Grace ", "--lyrics", "How sweet the sound")
		if !strings.Contains(out, `Added "Amazing Grace" with ID 1`) {
			t.Errorf("unexpected output: %q", out)
		}

		lyricsFile := filepath.Join(t.TempDir(), "lyrics.txt")
		os.WriteFile(lyricsFile, []byte("When peace like a river\n"), 0644)
		c.mustRun("songs", "add", "--title", "It Is Well", "--lyrics-file", lyricsFile)
	})

	t.Run("add rejects blank fields", func(t *testing.T) {
		if _, err := c.run("songs", "add", "--title", "   ", "--lyrics", "x"); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		if _, err := c.run("songs", "add", "--title", "x", "--lyrics", "x", "--lyrics-file", "y"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("list formats", func(t *testing.T) {
		plain := c.mustRun("songs", "list", "--plain")
		if plain != "ID: 1, Title: Amazing Grace\nID: 2, Title: It Is Well\n" {
			t.Errorf("unexpected plain list: %q", plain)
		}

		table := c.mustRun("songs", "list")
		if !strings.Contains(table, "Amazing Grace") || !strings.Contains(table, "It Is Well") {
			t.Errorf("table missing titles: %s", table)
		}

		var songs []models.Song
		if err := json.Unmarshal([]byte(c.mustRun("songs", "list", "--json")), &songs); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(songs) != 2 || songs[1].Lyrics != "When peace like a river" {
			t.Errorf("unexpected songs: %+v", songs)
		}
	})

	t.Run("show", func(t *testing.T) {
		if out := c.mustRun("songs", "show", "1"); !strings.Contains(out, "How sweet the sound") {
			t.Errorf("expected lyrics, got %q", out)
		}

		tc := []struct {
			arg  string
			want error
		}{
			{arg: "abc", want: shared.ErrInvalidArgument},
			{arg: "0", want: shared.ErrInvalidArgument},
			{arg: "99", want: shared.ErrSongNotFound},
		}
		for _, tt := range tc {
			if _, err := c.run("songs", "show", tt.arg); !errors.Is(err, tt.want) {
				t.Errorf("show %s: expected %v, got %v", tt.arg, tt.want, err)
			}
		}

		if _, err := c.run("songs", "show"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("export", func(t *testing.T) {
		if out := c.mustRun("songs", "export", "--format", "csv"); !strings.HasPrefix(out, "ID,Title,Lyrics\n") {
			t.Errorf("unexpected CSV: %q", out)
		}

		path := filepath.Join(t.TempDir(), "songbook.md")
		c.mustRun("songs", "export", "--format", "markdown", "--output", path)
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "## It Is Well") {
			t.Errorf("markdown export missing song: %s", content)
		}

		if _, err := c.run("songs", "export", "--format", "xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
		if _, err := c.run("songs", "export", "--output", path, "--save"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		c.mustRun("songs", "delete", "1")

		if _, err := c.run("songs", "delete", "1"); !errors.Is(err, shared.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound on repeated delete, got %v", err)
		}
		if out := c.mustRun("songs", "list", "--plain"); out != "ID: 2, Title: It Is Well\n" {
			t.Errorf("unexpected list after delete: %q", out)
		}
	})
}

func TestDatabaseCommands(t *testing.T) {
	c := newHarness(t)

	if out := c.mustRun("setup", "database"); !strings.Contains(out, "Database ready") {
		t.Errorf("unexpected setup output: %q", out)
	}

	out := c.mustRun("db", "check")
	for _, want := range []string{"songs", "schema_migrations", "title", "lyrics", "Migrations applied: [1]"} {
		if !strings.Contains(out, want) {
			t.Errorf("db check missing %q:\n%s", want, out)
		}
	}

	if out := c.mustRun("db", "rollback"); !strings.Contains(out, "Rolled back migration 1") {
		t.Errorf("unexpected rollback output: %q", out)
	}

	if out := c.mustRun("db", "check"); !strings.Contains(out, "songs table is missing") {
		t.Errorf("expected missing table warning, got:\n%s", out)
	}

	if _, err := c.run("db", "rollback"); err == nil {
		t.Error("expected error rolling back with nothing applied")
	}
}

func TestSetupConfig(t *testing.T) {
	c := newHarness(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	c.mustRun("setup", "config", "--output", path)
	tu.AssertFileExists(t, path)

	config, err := shared.LoadConfig(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if config.Server.Port != shared.DefaultConfig().Server.Port {
		t.Errorf("expected default port, got %d", config.Server.Port)
	}

	if _, err := c.run("setup", "config", "--output", path); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestHandler(t *testing.T) {
	store := tu.NewTestStore(t)
	runner := NewRunner(RunnerOpts{Config: shared.DefaultConfig(), Logger: shared.NewLogger(io.Discard)})
	h := runner.handler(store)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 from /health, got %d", rec.Code)
	}
	if rec.Header().Get(server.RequestIDHeader) == "" {
		t.Error("expected request id header")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/songs/9999", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing song, got %d", rec.Code)
	}
}
