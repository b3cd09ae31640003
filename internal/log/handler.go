package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// timestampLayout renders timestamps with millisecond precision, using a
// comma separator for the fractional part to match the established log
// line format.
const timestampLayout = "2006-01-02 15:04:05"

// LineHandler is an slog.Handler that writes human-readable single-line
// records tagged with a component name.
type LineHandler struct {
	// name is the component name embedded in every line.
	name string

	// level is the minimum level this handler emits.
	level slog.Leveler

	// attrs are attributes attached via WithAttrs.
	attrs []slog.Attr

	// groups are open group names from WithGroup, applied as key prefixes.
	groups []string

	// mu serializes writes so concurrent loggers never interleave lines.
	mu *sync.Mutex

	// w is the output destination.
	w io.Writer
}

// NewLineHandler creates a LineHandler writing to w.
// If level is nil, slog.LevelInfo is used.
func NewLineHandler(w io.Writer, name string, level slog.Leveler) *LineHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &LineHandler{
		name:  name,
		level: level,
		mu:    &sync.Mutex{},
		w:     w,
	}
}

// NewLogger creates an slog.Logger backed by a LineHandler.
func NewLogger(w io.Writer, name string, level slog.Leveler) *slog.Logger {
	return slog.New(NewLineHandler(w, name, level))
}

// Enabled reports whether records at the given level are emitted.
func (h *LineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes the record as a single formatted line.
func (h *LineHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	ts := r.Time
	fmt.Fprintf(&sb, "%s,%03d - %s - %s - %s",
		ts.Format(timestampLayout),
		ts.Nanosecond()/1e6,
		h.name,
		levelName(r.Level),
		r.Message,
	)

	for _, a := range h.attrs {
		appendAttr(&sb, "", a)
	}
	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&sb, prefix, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

// WithAttrs returns a handler that includes the given attributes on
// every record. Open groups are applied to the keys at attachment time.
func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		if len(h.groups) > 0 {
			a.Key = strings.Join(h.groups, ".") + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup returns a handler that prefixes subsequent attribute keys with
// the group name.
func (h *LineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

// appendAttr appends one key=value pair, expanding groups recursively.
func appendAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			appendAttr(sb, key, ga)
		}
		return
	}

	fmt.Fprintf(sb, " %s=%v", key, a.Value.Resolve().Any())
}

// levelName maps slog levels to the level names used in the line format.
// WARN is spelled out as WARNING to match the consumers of this stream.
func levelName(level slog.Level) string {
	if level == slog.LevelWarn {
		return "WARNING"
	}
	return level.String()
}
