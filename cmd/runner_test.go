package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ghshelf/ghshelf/internal/github"
	"github.com/ghshelf/ghshelf/internal/shared"
	tu "github.com/ghshelf/ghshelf/internal/testing"
	"github.com/urfave/cli/v3"
)

// newGitHubStub serves a minimal GitHub API: one owned repo, one starred
// repo, a valid user, and a quota.
func newGitHubStub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login": "octocat", "name": "Octo Cat"}`)
	})
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprint(w, `[{"id": 1, "name": "alpha", "html_url": "https://github.com/octocat/alpha",
			"language": "Go", "stargazers_count": 3, "updated_at": "2024-06-01T00:00:00Z",
			"owner": {"login": "octocat"}}]`)
	})
	mux.HandleFunc("/user/starred", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprint(w, `[{"id": 2, "name": "lib", "html_url": "https://github.com/someone/lib",
			"owner": {"login": "someone"}}]`)
	})
	mux.HandleFunc("/rate_limit", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"rate": {"limit": 5000, "remaining": 4999, "reset": 1700000000}}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// newTestRunner wires a runner against an in-memory database and the stub
// API server.
func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()

	server := newGitHubStub(t)
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: shared.DefaultConfig(),
		Logger: shared.NewLogger(&bytes.Buffer{}),
		Output: output,
		DB:     tu.MustOpenDB(t),
		NewClient: func(tok string) *github.Client {
			return github.New(tok, github.Opts{BaseURL: server.URL, RequestsPerSecond: 1000})
		},
	})
	return runner, output
}

func run(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "ghshelf", Commands: runner.register()}
	return app.Run(context.Background(), append([]string{"ghshelf"}, args...))
}

func mustRun(t *testing.T, runner *Runner, args ...string) {
	t.Helper()
	if err := run(t, runner, args...); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
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

		t.Run("with nil client factory uses the configured API", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.newClient == nil {
				t.Error("expected a default client factory")
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

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limited := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limited})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
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

func TestTokenCommands(t *testing.T) {
	t.Run("set verifies and stores", func(t *testing.T) {
		runner, output := newTestRunner(t)

		mustRun(t, runner, "token", "set", "ghp_test")

		if !strings.Contains(output.String(), "octocat") {
			t.Errorf("expected verification output, got %s", output.String())
		}

		output.Reset()
		mustRun(t, runner, "token", "status")
		if !strings.Contains(output.String(), "authenticated as octocat") {
			t.Errorf("expected authenticated status, got %s", output.String())
		}
	})

	t.Run("set without argument fails", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		if err := run(t, runner, "token", "set"); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("clear removes the token", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "token", "set", "ghp_test")

		mustRun(t, runner, "token", "clear")

		output.Reset()
		mustRun(t, runner, "token", "status")
		if !strings.Contains(output.String(), "No token stored") {
			t.Errorf("expected empty status, got %s", output.String())
		}
	})
}

func TestImportCommand(t *testing.T) {
	t.Run("imports both collections", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "token", "set", "ghp_test")

		output.Reset()
		mustRun(t, runner, "import")

		got := output.String()
		if !strings.Contains(got, "Owned: 1 (1 new)") || !strings.Contains(got, "Starred: 1 (1 new)") {
			t.Errorf("unexpected summary:\n%s", got)
		}
	})

	t.Run("a second import adds nothing", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "token", "set", "ghp_test")
		mustRun(t, runner, "import")

		output.Reset()
		mustRun(t, runner, "import")

		if !strings.Contains(output.String(), "Owned: 1 (0 new)") {
			t.Errorf("expected idempotent import, got:\n%s", output.String())
		}
	})

	t.Run("fails without a token", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		if err := run(t, runner, "import"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestRepoCommands(t *testing.T) {
	t.Run("add then list", func(t *testing.T) {
		runner, output := newTestRunner(t)

		mustRun(t, runner, "repo", "add", "--name", "notes", "--url", "https://example.com/notes")

		output.Reset()
		mustRun(t, runner, "repo", "list")
		if !strings.Contains(output.String(), "notes") {
			t.Errorf("expected the added repo, got:\n%s", output.String())
		}
	})

	t.Run("added repos carry local ids and placeholders", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "repo", "add", "--name", "notes", "--url", "https://example.com/notes")

		mustRun(t, runner, "repo", "list", "--json")
		got := output.String()
		if !strings.Contains(got, `"id":"repo-`) && !strings.Contains(got, `"id": "repo-`) {
			t.Errorf("expected a local id, got:\n%s", got)
		}
		if !strings.Contains(got, "No description available") {
			t.Errorf("expected the description placeholder, got:\n%s", got)
		}
	})

	t.Run("edit updates fields and keeps the rest", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "token", "set", "ghp_test")
		mustRun(t, runner, "import")

		mustRun(t, runner, "repo", "edit", "github-owned-1", "--description", "my fork")

		output.Reset()
		mustRun(t, runner, "repo", "list", "--json")
		got := output.String()
		if !strings.Contains(got, "my fork") {
			t.Errorf("expected the new description, got:\n%s", got)
		}
		if !strings.Contains(got, `"stars": 3`) && !strings.Contains(got, `"stars":3`) {
			t.Errorf("expected stars preserved, got:\n%s", got)
		}
	})

	t.Run("edit with no field flags fails", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		mustRun(t, runner, "token", "set", "ghp_test")
		mustRun(t, runner, "import")

		if err := run(t, runner, "repo", "edit", "github-owned-1"); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("edit unknown id fails", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		if err := run(t, runner, "repo", "edit", "repo-unknown", "--name", "x"); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("delete removes the repo", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "token", "set", "ghp_test")
		mustRun(t, runner, "import")

		mustRun(t, runner, "repo", "delete", "github-owned-1")

		output.Reset()
		mustRun(t, runner, "repo", "list")
		if !strings.Contains(output.String(), "No owned repositories") {
			t.Errorf("expected empty list, got:\n%s", output.String())
		}
	})

	t.Run("delete unknown id fails", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		if err := run(t, runner, "repo", "delete", "nope"); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("search filters the list", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "repo", "add", "--name", "alpha", "--url", "https://example.com/a", "--language", "Go")
		mustRun(t, runner, "repo", "add", "--name", "beta", "--url", "https://example.com/b", "--language", "Rust")

		output.Reset()
		mustRun(t, runner, "repo", "list", "--search", "rust")

		got := output.String()
		if strings.Contains(got, "alpha") || !strings.Contains(got, "beta") {
			t.Errorf("expected only beta, got:\n%s", got)
		}
	})
}

func TestSettingsCommands(t *testing.T) {
	t.Run("set then show", func(t *testing.T) {
		runner, output := newTestRunner(t)

		mustRun(t, runner, "settings", "set", "owned", "stars", "false")

		output.Reset()
		mustRun(t, runner, "settings", "show")
		if !strings.Contains(output.String(), "✗ stars") {
			t.Errorf("expected stars hidden, got:\n%s", output.String())
		}
	})

	t.Run("reset restores defaults", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "settings", "set", "owned", "stars", "false")

		mustRun(t, runner, "settings", "reset")

		output.Reset()
		mustRun(t, runner, "settings", "show")
		if strings.Contains(output.String(), "✗") {
			t.Errorf("expected everything visible, got:\n%s", output.String())
		}
	})

	t.Run("rejects unknown elements", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		if err := run(t, runner, "settings", "set", "owned", "bogus", "true"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestExportCommand(t *testing.T) {
	t.Run("json writes a file", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		mustRun(t, runner, "repo", "add", "--name", "notes", "--url", "https://example.com/notes")

		path := filepath.Join(t.TempDir(), "export.json")
		mustRun(t, runner, "export", "--format", "json", "--output", path)

		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), "notes") {
			t.Error("expected the repo in the export")
		}
	})

	t.Run("csv prints to output", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "repo", "add", "--name", "notes", "--url", "https://example.com/notes")

		output.Reset()
		mustRun(t, runner, "export", "--format", "csv")

		if !strings.HasPrefix(output.String(), "Collection,ID,Name") {
			t.Errorf("expected CSV header, got:\n%s", output.String())
		}
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		if err := run(t, runner, "export", "--format", "xml"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestRateLimitCommand(t *testing.T) {
	t.Run("prints the quota", func(t *testing.T) {
		runner, output := newTestRunner(t)
		mustRun(t, runner, "token", "set", "ghp_test")

		output.Reset()
		mustRun(t, runner, "ratelimit")

		if !strings.Contains(output.String(), "Remaining: 4999") {
			t.Errorf("expected quota output, got:\n%s", output.String())
		}
	})

	t.Run("fails without a token", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		if err := run(t, runner, "ratelimit"); err == nil {
			t.Error("expected an error")
		}
	})
}
