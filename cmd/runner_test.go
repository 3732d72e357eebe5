package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackport/internal/models"
	"github.com/desertthunder/trackport/internal/services"
	"github.com/desertthunder/trackport/internal/shared"
	tu "github.com/desertthunder/trackport/internal/testing"
	"github.com/urfave/cli/v3"
)

const (
	keyA = "4uLU6hMCjMI75M1A2tKUQC"
	keyB = "7GhIk7Il098yCjg4BQjzvb"
)

type testCLI struct {
	runner  *Runner
	output  *bytes.Buffer
	catalog *tu.MockCatalog
	dir     string
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()

	dir := t.TempDir()
	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(dir, "trackport.db")
	config.Import.RateLimit = 1000

	catalog := tu.NewMockCatalog(
		tu.NewSpotifyTrack(keyA, "Never Gonna Give You Up", "A1", "Rick Astley", "AL1", "Whenever You Need Somebody"),
		tu.NewSpotifyTrack(keyB, "Together Forever", "A1", "Rick Astley", "AL1", "Whenever You Need Somebody"),
	)

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Logger:  log.New(io.Discard),
		Output:  output,
	})

	return &testCLI{runner: runner, output: output, catalog: catalog, dir: dir}
}

func (c *testCLI) run(args ...string) error {
	c.output.Reset()
	app := &cli.Command{
		Name:     "trackport",
		Commands: c.runner.register(),
		Writer:   io.Discard,
	}
	return app.Run(context.Background(), append([]string{"trackport"}, args...))
}

func (c *testCLI) listTracks(t *testing.T) []models.TrackDetail {
	t.Helper()
	if err := c.run("tracks", "list", "--json"); err != nil {
		t.Fatalf("tracks list failed: %v", err)
	}
	var tracks []models.TrackDetail
	if err := json.Unmarshal(c.output.Bytes(), &tracks); err != nil {
		t.Fatalf("failed to decode list output: %v\n%s", err, c.output.String())
	}
	return tracks
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			catalog := tu.NewMockCatalog()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Catalog:    catalog,
				Logger:     logger,
				Output:     output,
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
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
			if runner.catalog != nil {
				t.Error("expected no catalog")
			}
		})

		t.Run("SetLogger", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			logger := log.New(io.Discard)
			runner.SetLogger(logger)

			if runner.logger != logger {
				t.Error("expected logger to be replaced")
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
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
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
		commands := NewRunner(RunnerOpts{}).register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "serve", "tracks", "catalog", "tui"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})
}

func TestTracksCommands(t *testing.T) {
	t.Run("import", func(t *testing.T) {
		c := newTestCLI(t)

		if err := c.run("tracks", "import", "https://open.spotify.com/track/"+keyA); err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if !strings.Contains(c.output.String(), "✓ Imported Rick Astley - Never Gonna Give You Up [3:33]") {
			t.Errorf("unexpected output: %q", c.output.String())
		}

		err := c.run("tracks", "import", "spotify:track:"+keyA)
		if !errors.Is(err, shared.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
		tracks := c.listTracks(t)
		if len(tracks) != 1 {
			t.Fatalf("expected 1 stored track, got %d", len(tracks))
		}
		if tracks[0].SpotifyData != nil {
			t.Error("list output should not carry the raw payload")
		}
	})

	t.Run("import reports already stored track id", func(t *testing.T) {
		c := newTestCLI(t)
		c.run("tracks", "import", keyA)
		id := c.listTracks(t)[0].ID

		c.run("tracks", "import", keyA)
		if !strings.Contains(c.output.String(), "Track already exists in database: "+id) {
			t.Errorf("expected existing id in output, got %q", c.output.String())
		}
	})

	t.Run("import requires input", func(t *testing.T) {
		c := newTestCLI(t)

		if err := c.run("tracks", "import"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("import without catalog", func(t *testing.T) {
		c := newTestCLI(t)
		c.runner.catalog = nil

		if err := c.run("tracks", "import", keyA); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("import --file", func(t *testing.T) {
		c := newTestCLI(t)
		path := filepath.Join(c.dir, "ids.txt")
		tu.MustWriteFile(t, path, "# favourites\n"+keyA+"\n\nspotify:track:"+keyB+"\nnot a track\n")

		if err := c.run("tracks", "import", "--file", path, "--workers", "2"); err != nil {
			t.Fatalf("bulk import failed: %v", err)
		}

		out := c.output.String()
		for _, want := range []string{"Import Complete", "Total: 3", "Imported: 2", "Invalid: 1", "not a track"} {
			if !strings.Contains(out, want) {
				t.Errorf("bulk output missing %q:\n%s", want, out)
			}
		}
		if n := len(c.listTracks(t)); n != 2 {
			t.Errorf("expected 2 stored tracks, got %d", n)
		}
	})

	t.Run("import --file from stdin", func(t *testing.T) {
		c := newTestCLI(t)
		c.runner.input = strings.NewReader(keyA + "\n" + keyA + "\n")

		if err := c.run("tracks", "import", "--file", "-", "--json"); err != nil {
			t.Fatalf("bulk import failed: %v", err)
		}

		var result struct {
			Total    int `json:"total"`
			Imported int `json:"imported"`
			Existing int `json:"existing"`
		}
		if err := json.Unmarshal(c.output.Bytes(), &result); err != nil {
			t.Fatalf("failed to decode result: %v\n%s", err, c.output.String())
		}
		if result.Total != 2 || result.Imported+result.Existing != 2 || result.Imported != 1 {
			t.Errorf("unexpected bulk result: %+v", result)
		}
	})

	t.Run("list", func(t *testing.T) {
		c := newTestCLI(t)

		if err := c.run("tracks", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(c.output.String(), "No tracks stored") {
			t.Errorf("expected empty message, got %q", c.output.String())
		}

		c.run("tracks", "import", keyA)
		if err := c.run("tracks", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		out := c.output.String()
		if !strings.Contains(out, "Never Gonna Give You Up") || !strings.Contains(out, "1 tracks stored") {
			t.Errorf("unexpected list output:\n%s", out)
		}
	})

	t.Run("show", func(t *testing.T) {
		c := newTestCLI(t)
		c.run("tracks", "import", keyA)
		id := c.listTracks(t)[0].ID

		if err := c.run("tracks", "show", id); err != nil {
			t.Fatalf("show failed: %v", err)
		}
		out := c.output.String()
		for _, want := range []string{"Rick Astley", "Whenever You Need Somebody", "1987-11-12", keyA} {
			if !strings.Contains(out, want) {
				t.Errorf("show output missing %q", want)
			}
		}

		if err := c.run("tracks", "show", "--json", "--raw", id); err != nil {
			t.Fatalf("show --json failed: %v", err)
		}
		if !strings.Contains(c.output.String(), `"spotify_data"`) {
			t.Error("--raw should include the stored payload")
		}

		if err := c.run("tracks", "show", "missing"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("edit", func(t *testing.T) {
		c := newTestCLI(t)
		c.run("tracks", "import", keyA)
		id := c.listTracks(t)[0].ID

		if err := c.run("tracks", "edit", "--title", "Renamed", "--bpm", "113", id); err != nil {
			t.Fatalf("edit failed: %v", err)
		}
		track := c.listTracks(t)[0]
		if track.Title != "Renamed" || track.BPM == nil || *track.BPM != 113 {
			t.Errorf("unexpected track after edit: %+v", track)
		}

		if err := c.run("tracks", "edit", "--clear-bpm", id); err != nil {
			t.Fatalf("edit --clear-bpm failed: %v", err)
		}
		if track := c.listTracks(t)[0]; track.BPM != nil {
			t.Errorf("expected bpm cleared, got %d", *track.BPM)
		}

		if err := c.run("tracks", "edit", id); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if err := c.run("tracks", "edit", "--bpm", "90", "--clear-bpm", id); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if err := c.run("tracks", "edit", "--title", "", id); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for empty title, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		c := newTestCLI(t)
		c.run("tracks", "import", keyA)
		id := c.listTracks(t)[0].ID

		if err := c.run("tracks", "delete", id); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if !strings.Contains(c.output.String(), "Track deleted successfully") {
			t.Errorf("unexpected output: %q", c.output.String())
		}
		if n := len(c.listTracks(t)); n != 0 {
			t.Errorf("expected no tracks, got %d", n)
		}

		if err := c.run("tracks", "delete", id); err != nil {
			t.Errorf("deleting twice should succeed, got %v", err)
		}
		if err := c.run("tracks", "delete"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("export", func(t *testing.T) {
		c := newTestCLI(t)
		c.run("tracks", "import", keyA)

		path := filepath.Join(c.dir, "out.md")
		if err := c.run("tracks", "export", "--format", "markdown", "-o", path); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		tu.AssertFileExists(t, path)
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "Rick Astley - Never Gonna Give You Up") {
			t.Errorf("unexpected markdown export:\n%s", content)
		}

		if err := c.run("tracks", "export", "-o", "-"); err != nil {
			t.Fatalf("export to stdout failed: %v", err)
		}
		if !strings.HasPrefix(c.output.String(), "ID,Title,Artist") {
			t.Errorf("expected CSV header, got %q", c.output.String())
		}

		if err := c.run("tracks", "export", "--format", "xml", "-o", "-"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestCatalogCommands(t *testing.T) {
	t.Run("search", func(t *testing.T) {
		c := newTestCLI(t)
		c.catalog.SearchResults = []services.SpotifyTrack{
			tu.NewSpotifyTrack(keyA, "Never Gonna Give You Up", "A1", "Rick Astley", "AL1", "Whenever You Need Somebody"),
			tu.NewSpotifyTrack(keyB, "Together Forever", "A1", "Rick Astley", "AL1", "Whenever You Need Somebody"),
		}

		if err := c.run("catalog", "search", "--limit", "1", "rick astley"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		out := c.output.String()
		if !strings.Contains(out, " 1. Rick Astley - Never Gonna Give You Up (Whenever You Need Somebody) [3:33]") {
			t.Errorf("unexpected search output:\n%s", out)
		}
		if strings.Contains(out, "Together Forever") {
			t.Error("limit should cap the results")
		}
		if !strings.Contains(out, "spotify:track:"+keyA) {
			t.Error("search output should include an importable URI")
		}
	})

	t.Run("search without results", func(t *testing.T) {
		c := newTestCLI(t)

		if err := c.run("catalog", "search", "nothing"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if !strings.Contains(c.output.String(), `No results for "nothing"`) {
			t.Errorf("unexpected output: %q", c.output.String())
		}
	})

	t.Run("search without catalog", func(t *testing.T) {
		c := newTestCLI(t)
		c.runner.catalog = nil

		if err := c.run("catalog", "search", "x"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("track", func(t *testing.T) {
		c := newTestCLI(t)

		if err := c.run("catalog", "track", "https://open.spotify.com/track/"+keyB); err != nil {
			t.Fatalf("track failed: %v", err)
		}
		if !strings.Contains(c.output.String(), `"name": "Together Forever"`) {
			t.Errorf("unexpected output: %s", c.output.String())
		}

		if err := c.run("catalog", "track", "nope"); !errors.Is(err, shared.ErrInvalidIdentifier) {
			t.Errorf("expected ErrInvalidIdentifier, got %v", err)
		}
	})

	t.Run("album and artist", func(t *testing.T) {
		tests := []struct {
			name    string
			args    []string
			want    string
			wantErr error
		}{
			{name: "album url", args: []string{"catalog", "album", "https://open.spotify.com/album/AL1"}, want: `"name": "Whenever You Need Somebody"`},
			{name: "artist url", args: []string{"catalog", "artist", "https://open.spotify.com/intl-de/artist/A1"}, want: `"name": "Rick Astley"`},
			{name: "unknown album", args: []string{"catalog", "album", "https://open.spotify.com/album/missing"}, wantErr: shared.ErrAPIRequest},
			{name: "track url for album", args: []string{"catalog", "album", "https://open.spotify.com/track/" + keyA}, wantErr: shared.ErrInvalidIdentifier},
			{name: "empty artist", args: []string{"catalog", "artist"}, wantErr: shared.ErrInvalidIdentifier},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				c := newTestCLI(t)

				err := c.run(tt.args...)
				if tt.wantErr != nil {
					if !errors.Is(err, tt.wantErr) {
						t.Errorf("expected %v, got %v", tt.wantErr, err)
					}
					return
				}
				if err != nil {
					t.Fatalf("%s failed: %v", tt.args[1], err)
				}
				if !strings.Contains(c.output.String(), tt.want) {
					t.Errorf("unexpected output: %s", c.output.String())
				}
			})
		}
	})

	t.Run("album without catalog", func(t *testing.T) {
		c := newTestCLI(t)
		c.runner.catalog = nil

		for _, sub := range []string{"album", "artist"} {
			if err := c.run("catalog", sub, "https://open.spotify.com/"+sub+"/A1"); !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("%s: expected ErrServiceUnavailable, got %v", sub, err)
			}
		}
	})
}

func TestSetupCommands(t *testing.T) {
	dir := t.TempDir()
	wd := tu.MustGetwd(t)
	tu.MustChdir(t, dir)
	t.Cleanup(func() { tu.MustChdir(t, wd) })

	c := newTestCLI(t)
	configPath := filepath.Join(dir, "config.toml")

	if err := c.run("setup", "database", "--config", configPath); err != nil {
		t.Fatalf("setup database failed: %v", err)
	}
	tu.AssertFileExists(t, configPath)
	tu.AssertFileExists(t, filepath.Join(dir, "trackport.db"))
	if !strings.Contains(c.output.String(), "schema version 1") {
		t.Errorf("unexpected setup output: %q", c.output.String())
	}

	if err := c.run("setup", "database", "--config", configPath); err != nil {
		t.Fatalf("setup should be repeatable: %v", err)
	}

	c.runner.config.Database.Path = filepath.Join(dir, "trackport.db")
	if err := c.run("setup", "status"); err != nil {
		t.Fatalf("setup status failed: %v", err)
	}
	if !strings.Contains(c.output.String(), "Schema version: 1") {
		t.Errorf("unexpected status output: %q", c.output.String())
	}

	if err := c.run("setup", "rollback"); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}
	if !strings.Contains(c.output.String(), "Rolled back to schema version 0") {
		t.Errorf("unexpected rollback output: %q", c.output.String())
	}
}

func TestHasCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  shared.SpotifyConfig
		want bool
	}{
		{"empty", shared.SpotifyConfig{}, false},
		{"missing secret", shared.SpotifyConfig{ClientID: "id"}, false},
		{"template placeholders", shared.DefaultConfig().Credentials.Spotify, false},
		{"real values", shared.SpotifyConfig{ClientID: "abc", ClientSecret: "def"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasCredentials(tt.cfg); got != tt.want {
				t.Errorf("hasCredentials() = %v, want %v", got, tt.want)
			}
		})
	}
}
