package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// observeLogs routes the package logger through an observer core for the
// duration of the test and returns the recorded entries.
func observeLogs(t *testing.T, level zapcore.LevelEnabler) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	mu.Lock()
	prev := log
	log = zap.New(core)
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		log = prev
		mu.Unlock()
	})
	return logs
}

func TestTaggedHelpers(t *testing.T) {
	logs := observeLogs(t, zap.DebugLevel)

	Info("Engine", "computed")
	Success("Store", "opened")
	Warn("Prices", "degraded")
	Error("Server", "failed")
	Debug("Ledger", "hydrated")

	entries := logs.All()
	if len(entries) != 5 {
		t.Fatalf("entries = %d, want 5", len(entries))
	}
	wantLevels := []zapcore.Level{zap.InfoLevel, zap.InfoLevel, zap.WarnLevel, zap.ErrorLevel, zap.DebugLevel}
	wantTags := []string{"[Engine]", "[Store]", "[Prices]", "[Server]", "[Ledger]"}
	for i, e := range entries {
		if e.Level != wantLevels[i] {
			t.Errorf("entry %d level = %v, want %v", i, e.Level, wantLevels[i])
		}
		if !strings.HasPrefix(e.Message, wantTags[i]) {
			t.Errorf("entry %d message = %q, want %q prefix", i, e.Message, wantTags[i])
		}
	}
	if !strings.Contains(entries[1].Message, "✓") {
		t.Errorf("Success message = %q, want check mark", entries[1].Message)
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	logs := observeLogs(t, zap.InfoLevel)
	Debug("Ledger", "hydrated")
	if n := logs.Len(); n != 0 {
		t.Errorf("entries = %d, want 0 at info level", n)
	}
}

func TestStatsAndServer(t *testing.T) {
	logs := observeLogs(t, zap.InfoLevel)
	Stats("trades", 3)
	Server("127.0.0.1:13380")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Message != "[Stats] trades = 3" {
		t.Errorf("stats message = %q", entries[0].Message)
	}
	if !strings.Contains(entries[1].Message, "http://127.0.0.1:13380") {
		t.Errorf("server message = %q", entries[1].Message)
	}
}

func TestInitEnablesDebugLevel(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	Init(true)
	Debug("Init", "verbose on")

	w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	buf.ReadFrom(r)
	if !strings.Contains(buf.String(), "verbose on") {
		t.Errorf("debug output = %q, want message at debug level", buf.String())
	}
}

func TestBannerAndSection(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	Banner("v2.1.0")
	Banner("")
	Section("Startup")

	w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	buf.ReadFrom(r)
	out := buf.String()
	if !strings.Contains(out, "v2.1.0") {
		t.Errorf("banner output missing version: %q", out)
	}
	if !strings.Contains(out, "dev") {
		t.Errorf("banner output missing fallback version: %q", out)
	}
	if !strings.Contains(out, "Startup") {
		t.Errorf("section output missing title: %q", out)
	}
}
