package log

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"testing"
)

// lineFormat matches the expected log line layout:
// 2025-06-15 10:30:00,123 - name - LEVEL - message
var lineFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3} - \S+ - [A-Z]+ - `)

// TestNewLineHandler tests handler construction.
func TestNewLineHandler(t *testing.T) {
	t.Parallel()

	t.Run("defaults to info level", func(t *testing.T) {
		t.Parallel()

		h := NewLineHandler(&bytes.Buffer{}, "test", nil)

		if !h.Enabled(context.Background(), slog.LevelInfo) {
			t.Error("expected info to be enabled")
		}
		if h.Enabled(context.Background(), slog.LevelDebug) {
			t.Error("expected debug to be disabled")
		}
	})

	t.Run("honors explicit level", func(t *testing.T) {
		t.Parallel()

		h := NewLineHandler(&bytes.Buffer{}, "test", slog.LevelDebug)

		if !h.Enabled(context.Background(), slog.LevelDebug) {
			t.Error("expected debug to be enabled")
		}
	})
}

// TestLineHandlerFormat tests the rendered line layout.
func TestLineHandlerFormat(t *testing.T) {
	t.Parallel()

	t.Run("renders timestamp, name, level, and message", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, "automation_issue_5", slog.LevelInfo)

		logger.Info("starting automation")

		line := buf.String()
		if !lineFormat.MatchString(line) {
			t.Errorf("line does not match expected format: %q", line)
		}
		if !strings.Contains(line, " - automation_issue_5 - INFO - starting automation") {
			t.Errorf("unexpected line content: %q", line)
		}
		if !strings.HasSuffix(line, "\n") {
			t.Errorf("expected trailing newline: %q", line)
		}
	})

	t.Run("renders WARN as WARNING", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, "test", slog.LevelInfo)

		logger.Warn("suspicious value")

		if !strings.Contains(buf.String(), " - WARNING - ") {
			t.Errorf("expected WARNING level name: %q", buf.String())
		}
	})

	t.Run("appends attributes as key=value", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, "test", slog.LevelInfo)

		logger.Info("step completed", "step", "detect_implementation_type", "issue", 5)

		line := buf.String()
		if !strings.Contains(line, "step=detect_implementation_type") {
			t.Errorf("missing step attribute: %q", line)
		}
		if !strings.Contains(line, "issue=5") {
			t.Errorf("missing issue attribute: %q", line)
		}
	})

	t.Run("suppresses records below the level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, "test", slog.LevelWarn)

		logger.Info("should not appear")

		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}

// TestLineHandlerWithAttrs tests pre-attached attributes.
func TestLineHandlerWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, "test", slog.LevelInfo).With("issue", 42)

	logger.Info("running")

	if !strings.Contains(buf.String(), "issue=42") {
		t.Errorf("missing attached attribute: %q", buf.String())
	}
}

// TestLineHandlerWithGroup tests group key prefixing.
func TestLineHandlerWithGroup(t *testing.T) {
	t.Parallel()

	t.Run("prefixes record attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, "test", slog.LevelInfo).WithGroup("run")

		logger.Info("done", "status", "success")

		if !strings.Contains(buf.String(), "run.status=success") {
			t.Errorf("missing group prefix: %q", buf.String())
		}
	})

	t.Run("prefixes attributes attached after the group", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, "test", slog.LevelInfo).WithGroup("run").With("id", 7)

		logger.Info("done")

		if !strings.Contains(buf.String(), "run.id=7") {
			t.Errorf("missing prefixed attached attribute: %q", buf.String())
		}
	})

	t.Run("expands inline groups", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, "test", slog.LevelInfo)

		logger.Info("done", slog.Group("perf", slog.String("time", "1.2s")))

		if !strings.Contains(buf.String(), "perf.time=1.2s") {
			t.Errorf("missing expanded group attribute: %q", buf.String())
		}
	})
}

// TestLineHandlerConcurrency tests that concurrent writes produce whole lines.
func TestLineHandlerConcurrency(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, "test", slog.LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("concurrent write")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 20 {
		t.Fatalf("expected 20 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !lineFormat.MatchString(line) {
			t.Errorf("malformed line: %q", line)
		}
	}
}
