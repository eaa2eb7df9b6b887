package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiDim    = "\x1b[2m"
	ansiCyan   = "\x1b[36m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
)

// consoleHandler renders records as a human-readable line: timestamp, level,
// message, then key=value attributes. Colors are enabled only when the
// underlying writer is a terminal.
type consoleHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level *slog.LevelVar
	color bool
	attrs []slog.Attr
	group string
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar) slog.Handler {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &consoleHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: lvl,
		color: color,
	}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder

	if !record.Time.IsZero() {
		h.paint(&b, ansiDim, record.Time.Format("15:04:05"))
		b.WriteByte(' ')
	}
	h.paint(&b, h.levelColor(record.Level), levelLabel(record.Level))
	b.WriteByte(' ')
	b.WriteString(record.Message)

	attrs := make([]slog.Attr, 0, record.NumAttrs()+len(h.attrs))
	attrs = append(attrs, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, attr)
		return true
	})
	sort.SliceStable(attrs, func(i, j int) bool {
		// The component attribute always leads so log lines scan uniformly.
		if attrs[i].Key == FieldComponent {
			return attrs[j].Key != FieldComponent
		}
		return false
	})
	for _, attr := range attrs {
		if attr.Equal(slog.Attr{}) {
			continue
		}
		key := attr.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		b.WriteByte(' ')
		h.paint(&b, ansiDim, key+"=")
		b.WriteString(formatValue(attr.Value))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}
	return &clone
}

func (h *consoleHandler) paint(b *strings.Builder, color, text string) {
	if h.color && color != "" {
		b.WriteString(color)
		b.WriteString(text)
		b.WriteString(ansiReset)
		return
	}
	b.WriteString(text)
}

func (h *consoleHandler) levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level <= slog.LevelDebug:
		return ansiDim
	default:
		return ansiCyan
	}
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return " WARN"
	case level <= slog.LevelDebug:
		return "DEBUG"
	default:
		return " INFO"
	}
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t") {
			return fmt.Sprintf("%q", s)
		}
		return s
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format("15:04:05")
	default:
		return v.String()
	}
}
