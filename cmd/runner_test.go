package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/desertthunder/mytunes/internal/fallback"
	"github.com/desertthunder/mytunes/internal/library"
	"github.com/desertthunder/mytunes/internal/models"
	"github.com/desertthunder/mytunes/internal/shared"
	tu "github.com/desertthunder/mytunes/internal/testing"
)

// newTestRunner builds a Runner over a fallback-only library so commands never touch the network.
func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	logger := shared.NewLogger(&bytes.Buffer{})

	lib, err := library.New(library.Options{Fallback: fallback.NewStore(nil, logger), Logger: logger})
	if err != nil {
		t.Fatalf("failed to create library: %v", err)
	}

	output := &bytes.Buffer{}
	return NewRunner(RunnerOpts{Library: lib, Logger: logger, Output: output}), output
}

func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	return newApp(r).Run(context.Background(), append([]string{"mytunes"}, args...))
}

func mustRun(t *testing.T, r *Runner, args ...string) {
	t.Helper()
	if err := run(t, r, args...); err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
}

// decodeJSON runs a --json command and decodes its output.
func decodeJSON[T any](t *testing.T, r *Runner, output *bytes.Buffer, args ...string) []T {
	t.Helper()
	output.Reset()
	mustRun(t, r, append(args, "--json")...)

	var out []T
	if err := json.Unmarshal(output.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode output: %v\n%s", err, output.String())
	}
	return out
}

func idArg(v int64) string { return strconv.FormatInt(v, 10) }

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
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
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("Close without a library", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if err := runner.Close(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
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
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

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
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlainln("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

func TestCommands(t *testing.T) {
	t.Run("playlist ordering round trip", func(t *testing.T) {
		r, output := newTestRunner(t)

		mustRun(t, r, "playlists", "create", "Road Trip")
		for _, title := range []string{"A", "B", "C", "D"} {
			mustRun(t, r, "songs", "add", "--title", title, "--artist", "Band", "--file", "/music/"+title+".mp3", "--duration", "200")
		}
		playlist := idArg(decodeJSON[models.Playlist](t, r, output, "playlists", "list")[0].ID)
		for _, song := range decodeJSON[models.Song](t, r, output, "songs", "list") {
			mustRun(t, r, "playlists", "append", "--playlist", playlist, "--song", idArg(song.ID))
		}
		mustRun(t, r, "playlists", "move", "--playlist", playlist, "--from", "0", "--to", "2")
		mustRun(t, r, "playlists", "remove", "--playlist", playlist, "--pos", "3")

		songs := decodeJSON[models.Song](t, r, output, "playlists", "show", "--playlist", playlist)

		var titles []string
		for _, s := range songs {
			titles = append(titles, s.Title)
		}
		if got := strings.Join(titles, ""); got != "BCA" {
			t.Errorf("expected BCA, got %s", got)
		}
	})

	t.Run("invalid position is reported", func(t *testing.T) {
		r, output := newTestRunner(t)
		mustRun(t, r, "playlists", "create", "mix")
		playlist := idArg(decodeJSON[models.Playlist](t, r, output, "playlists", "list")[0].ID)

		err := run(t, r, "playlists", "remove", "--playlist", playlist, "--pos", "0")
		if !errors.Is(err, shared.ErrInvalidPosition) {
			t.Errorf("expected ErrInvalidPosition, got %v", err)
		}
	})

	t.Run("create without a name", func(t *testing.T) {
		r, _ := newTestRunner(t)
		if err := run(t, r, "playlists", "create"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("search songs", func(t *testing.T) {
		r, output := newTestRunner(t)
		mustRun(t, r, "songs", "add", "--title", "Jolene", "--artist", "Dolly Parton", "--file", "/j.mp3")
		mustRun(t, r, "songs", "add", "--title", "Hey Jude", "--artist", "The Beatles", "--file", "/h.mp3")

		songs := decodeJSON[models.Song](t, r, output, "songs", "list", "--search", "dolly")
		if len(songs) != 1 || songs[0].Title != "Jolene" {
			t.Errorf("unexpected result: %+v", songs)
		}
	})

	t.Run("health on fallback only", func(t *testing.T) {
		r, output := newTestRunner(t)
		mustRun(t, r, "health", "--recheck")

		if !strings.Contains(output.String(), "fallback") {
			t.Errorf("expected fallback in output, got %q", output.String())
		}
	})

	t.Run("export playlist", func(t *testing.T) {
		r, output := newTestRunner(t)
		mustRun(t, r, "playlists", "create", "mix")
		mustRun(t, r, "songs", "add", "--title", "Jolene", "--artist", "Dolly Parton", "--file", "/j.mp3", "--duration", "161")
		playlist := idArg(decodeJSON[models.Playlist](t, r, output, "playlists", "list")[0].ID)
		song := idArg(decodeJSON[models.Song](t, r, output, "songs", "list")[0].ID)
		mustRun(t, r, "playlists", "append", "--playlist", playlist, "--song", song)

		path := filepath.Join(t.TempDir(), "mix.m3u")
		mustRun(t, r, "playlists", "export", "--playlist", playlist, "--output", path)

		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "#EXTINF:161,Dolly Parton - Jolene\n/j.mp3") {
			t.Errorf("unexpected export: %q", content)
		}

		err := run(t, r, "playlists", "export", "--playlist", "9", "--output", path)
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("setup rollback needs a primary", func(t *testing.T) {
		r, _ := newTestRunner(t)
		configPath := filepath.Join(t.TempDir(), "config.toml")

		err := run(t, r, "--config", configPath, "setup", "--rollback")
		if !errors.Is(err, shared.ErrPrimaryDisabled) {
			t.Errorf("expected ErrPrimaryDisabled, got %v", err)
		}
	})

	t.Run("setup creates the config file", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")

		config := shared.DefaultConfig()
		config.Fallback.Path = filepath.Join(dir, "local.db")

		output := &bytes.Buffer{}
		r := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(&bytes.Buffer{}), Output: output})
		defer r.Close()

		mustRun(t, r, "--config", configPath, "setup")

		tu.AssertFileExists(t, configPath)
		tu.AssertFileExists(t, config.Fallback.Path)
		if !strings.Contains(tu.MustReadFile(t, configPath), "[primary]") {
			t.Error("expected config file to be written from the template")
		}
	})
}
