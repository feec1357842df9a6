package cli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/five82/photowall/internal/app"
	"github.com/five82/photowall/internal/knownset"
	"github.com/five82/photowall/internal/kvstore"
)

func disableColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

// writeConfig points the store and log file into a temp dir.
func writeConfig(t *testing.T) (configFile, storePath, logPath string) {
	t.Helper()
	dir := t.TempDir()
	storePath = filepath.Join(dir, "known.toml")
	logPath = filepath.Join(dir, "photowall.log")
	configFile = filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("[store]\nbackend = \"file\"\npath = %q\n\n[logging]\nfile = %q\n", storePath, logPath)
	if err := os.WriteFile(configFile, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return configFile, storePath, logPath
}

func seedKnown(t *testing.T, storePath string, urls ...string) {
	t.Helper()
	store, err := kvstore.OpenFile(storePath)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer store.Close()
	set, err := knownset.Load(store, knownset.Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, u := range urls {
		if _, _, err := set.Observe(u); err != nil {
			t.Fatalf("Observe(%q): %v", u, err)
		}
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmdRegistersSubcommands(t *testing.T) {
	root := RootCmd()
	want := map[string]bool{"run": false, "known": false, "logs": false}
	for _, sub := range root.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
			if sub.Short == "" {
				t.Errorf("%s command should have a Short description", sub.Name())
			}
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s subcommand not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Fatal("root command should define a persistent --config flag")
	}
}

func stubRunApp(t *testing.T) *[]app.Options {
	t.Helper()
	var calls []app.Options
	prev := runApp
	runApp = func(ctx context.Context, opts app.Options) error {
		calls = append(calls, opts)
		return nil
	}
	t.Cleanup(func() { runApp = prev })
	return &calls
}

func TestRunFlagsBecomeOptions(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantPoll  time.Duration
		wantDelay *time.Duration
		headless  bool
	}{
		{name: "root defaults", args: nil},
		{name: "root flags", args: []string{"--poll", "3s", "--headless"}, wantPoll: 3 * time.Second, headless: true},
		{name: "run explicit zero delay", args: []string{"run", "--delay", "0s"}, wantDelay: new(time.Duration)},
		{name: "run config", args: []string{"--config", "/tmp/pw.toml", "run", "--poll", "1m"}, wantPoll: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := stubRunApp(t)
			if _, err := execute(t, tt.args...); err != nil {
				t.Fatalf("execute: %v", err)
			}
			if len(*calls) != 1 {
				t.Fatalf("runApp called %d times, want 1", len(*calls))
			}
			got := (*calls)[0]
			if got.PollEvery != tt.wantPoll {
				t.Errorf("PollEvery = %v, want %v", got.PollEvery, tt.wantPoll)
			}
			if got.Headless != tt.headless {
				t.Errorf("Headless = %v, want %v", got.Headless, tt.headless)
			}
			switch {
			case tt.wantDelay == nil && got.Delay != nil:
				t.Errorf("Delay = %v, want unset", *got.Delay)
			case tt.wantDelay != nil && (got.Delay == nil || *got.Delay != *tt.wantDelay):
				t.Errorf("Delay = %v, want %v", got.Delay, *tt.wantDelay)
			}
		})
	}

	calls := stubRunApp(t)
	if _, err := execute(t, "--config", "/tmp/pw.toml", "run"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if (*calls)[0].ConfigPath != "/tmp/pw.toml" {
		t.Fatalf("ConfigPath = %q, want inherited /tmp/pw.toml", (*calls)[0].ConfigPath)
	}
}

func TestKnownCountAndList(t *testing.T) {
	disableColor(t)
	configFile, storePath, _ := writeConfig(t)
	seedKnown(t, storePath,
		"https://cdn.example.com/ada.png",
		"https://cdn.example.com/grace.png",
		"https://cdn.example.com/alan.png")

	out, err := execute(t, "--config", configFile, "known", "count")
	if err != nil {
		t.Fatalf("known count: %v", err)
	}
	if strings.TrimSpace(out) != "3" {
		t.Fatalf("known count = %q, want 3", out)
	}

	out, err = execute(t, "--config", configFile, "known", "list")
	if err != nil {
		t.Fatalf("known list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || lines[0] != "https://cdn.example.com/ada.png" {
		t.Fatalf("known list = %q, want insertion order", lines)
	}

	out, err = execute(t, "--config", configFile, "known", "list", "grace")
	if err != nil {
		t.Fatalf("known list grace: %v", err)
	}
	if strings.TrimSpace(out) != "https://cdn.example.com/grace.png" {
		t.Fatalf("filtered list = %q, want only grace", out)
	}
}

func TestKnownResetRequiresConfirmation(t *testing.T) {
	disableColor(t)
	configFile, storePath, _ := writeConfig(t)
	seedKnown(t, storePath, "https://cdn.example.com/ada.png")

	if _, err := execute(t, "--config", configFile, "known", "reset"); err == nil {
		t.Fatal("expected reset without --yes to fail")
	}

	out, err := execute(t, "--config", configFile, "known", "reset", "--yes")
	if err != nil {
		t.Fatalf("known reset: %v", err)
	}
	if !strings.Contains(out, "Known set cleared") {
		t.Fatalf("reset output = %q", out)
	}

	out, err = execute(t, "--config", configFile, "known", "count")
	if err != nil {
		t.Fatalf("known count: %v", err)
	}
	if strings.TrimSpace(out) != "0" {
		t.Fatalf("count after reset = %q, want 0", out)
	}
}

func TestWriteKnown(t *testing.T) {
	disableColor(t)

	var buf bytes.Buffer
	writeKnown(&buf, nil, "")
	if got := buf.String(); got != "No known images\n" {
		t.Fatalf("empty output = %q", got)
	}

	buf.Reset()
	writeKnown(&buf, []string{"a.png", "b.png"}, "zzz")
	if got := buf.String(); !strings.Contains(got, `No known images match "zzz"`) {
		t.Fatalf("no-match output = %q", got)
	}
}

func TestHighlightMatchWrapsMatchedRunes(t *testing.T) {
	c := color.New(color.FgHiMagenta)
	c.EnableColor()

	got := highlightMatch("abc", []int{1}, c)
	if !strings.HasPrefix(got, "a\x1b[") || !strings.HasSuffix(got, "c") {
		t.Fatalf("highlightMatch = %q, want b wrapped in escapes", got)
	}
	if plain := highlightMatch("abc", nil, c); plain != "abc" {
		t.Fatalf("highlightMatch without indexes = %q", plain)
	}
}

func TestLogsFiltersByLevel(t *testing.T) {
	disableColor(t)
	configFile, _, logPath := writeConfig(t)
	lines := []string{
		`{"time":"2026-01-02T15:04:05Z","level":"DEBUG","msg":"no new entries","component":"wall"}`,
		`{"time":"2026-01-02T15:04:06Z","level":"INFO","msg":"new entries found","component":"wall","new":2}`,
		`{"time":"2026-01-02T15:04:07Z","level":"WARN","msg":"list fetch failed","component":"wall"}`,
	}
	if err := os.WriteFile(logPath, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := execute(t, "--config", configFile, "logs", "--level", "info")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if strings.Contains(out, "no new entries") {
		t.Fatalf("DEBUG entry should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "new entries found") || !strings.Contains(out, "list fetch failed") {
		t.Fatalf("logs output missing entries:\n%s", out)
	}

	out, err = execute(t, "--config", configFile, "logs", "-n", "1")
	if err != nil {
		t.Fatalf("logs -n 1: %v", err)
	}
	if got := strings.Count(strings.TrimSpace(out), "\n"); got != 0 {
		t.Fatalf("logs -n 1 printed %d extra lines:\n%s", got, out)
	}
}

func TestWriteLogsEmpty(t *testing.T) {
	var buf bytes.Buffer
	writeLogs(&buf, nil, slog.LevelInfo)
	if buf.String() != "No log entries\n" {
		t.Fatalf("output = %q", buf.String())
	}
}
