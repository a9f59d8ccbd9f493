package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-go/sortable/internal/errors"
	"github.com/vango-go/sortable/internal/replay"
	"github.com/vango-go/sortable/pkg/dom"
)

func TestMain(m *testing.M) {
	errors.DisableColors()
	os.Exit(m.Run())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunReplay(t *testing.T) {
	dir := t.TempDir()
	pass := writeFile(t, dir, "pass.yaml", `name: swap
items: [a, b]
steps:
  - down: [10, 10]
  - move: [10, 50]
  - up: [10, 50]
expect:
  order: [b, a]
`)
	fail := writeFile(t, dir, "fail.yaml", `name: wrong order
items: [a, b]
steps:
  - down: [10, 10]
  - move: [10, 50]
  - up: [10, 50]
expect:
  order: [a, b]
`)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var out bytes.Buffer
	if err := runReplay(t.Context(), &out, &replay.Loader{}, []string{pass}, true, logger); err != nil {
		t.Fatalf("runReplay() error = %v", err)
	}
	got := out.String()
	for _, want := range []string{"swap: 3 steps, 1 reorders, order [b, a], idle", `on "b"`, "reorder 0->1"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	missing := filepath.Join(dir, "missing.yaml")
	err := runReplay(t.Context(), &out, &replay.Loader{}, []string{pass, fail, missing}, false, logger)
	if err == nil || err.Error() != "2 of 3 scenarios failed" {
		t.Errorf("runReplay() error = %v, want 2 of 3 failed", err)
	}
	got = out.String()
	for _, want := range []string{"wrong order", errors.CodeOrderMismatch, "got [b, a], want [a, b]", errors.CodeScenarioUnreachable} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "reorder 0->1") {
		t.Error("non-verbose output printed steps")
	}
}

func TestReplayRequiresArgs(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"replay"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); !errors.HasCode(err, errors.CodeMissingArgument) {
		t.Errorf("Execute() error = %v, want %s", err, errors.CodeMissingArgument)
	}
}

func TestNeedsS3(t *testing.T) {
	if needsS3([]string{"a.yaml", "b.json"}) {
		t.Error("needsS3() = true for local files")
	}
	if !needsS3([]string{"a.yaml", "s3://bucket/b.yaml"}) {
		t.Error("needsS3() = false with an s3:// ref")
	}
}

func TestServeConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sortable.json", `{
  "server": {"port": 4000, "metrics": false},
  "list": {"title": "Groceries", "items": ["Milk", "Eggs"], "gap": 4},
  "session": {"readTimeout": "5s"}
}`)

	cmd := serveCmd()
	if err := cmd.ParseFlags([]string{"--config", path, "--axis", "horizontal", "--handle", ".grip", "--origin", "https://example.com"}); err != nil {
		t.Fatal(err)
	}
	f := serveFlags{configPath: path, axis: "horizontal", handle: ".grip", origins: []string{"https://example.com"}, metrics: true}
	cfg, err := loadServeConfig(cmd, f)
	if err != nil {
		t.Fatalf("loadServeConfig() error = %v", err)
	}
	if cfg.Server.Metrics {
		t.Error("Metrics = true, want the file's false when --metrics is unset")
	}

	sc := serverConfig(cfg)
	if sc.Address != "localhost:4000" {
		t.Errorf("Address = %q, want localhost:4000", sc.Address)
	}
	if sc.Title != "Groceries" || len(sc.Items) != 2 || sc.Gap != 4 {
		t.Errorf("list = %q %v %v", sc.Title, sc.Items, sc.Gap)
	}
	if sc.Axis != dom.Horizontal {
		t.Errorf("Axis = %v, want horizontal", sc.Axis)
	}
	if sc.Drag.Handle != ".grip" {
		t.Errorf("Drag.Handle = %q, want .grip", sc.Drag.Handle)
	}
	if sc.SessionConfig.ReadTimeout != 5*time.Second || sc.SessionConfig.WriteTimeout != 10*time.Second {
		t.Errorf("timeouts = %v %v", sc.SessionConfig.ReadTimeout, sc.SessionConfig.WriteTimeout)
	}
	if sc.CheckOrigin == nil {
		t.Error("CheckOrigin = nil with allowed origins set")
	}
}

func TestServeConfigInvalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sortable.json", `{"list": {"axis": "diagonal"}}`)
	cmd := serveCmd()
	_, err := loadServeConfig(cmd, serveFlags{configPath: path})
	if !errors.HasCode(err, errors.CodeConfigInvalid) {
		t.Fatalf("loadServeConfig() error = %v, want %s", err, errors.CodeConfigInvalid)
	}
	if se := errors.FromError(err, ""); !strings.Contains(se.Suggestion, path) {
		t.Errorf("Suggestion = %q, want it to name %s", se.Suggestion, path)
	}
}

func TestVersion(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version", "--short"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != version {
		t.Errorf("version = %q, want %q", got, version)
	}
}
