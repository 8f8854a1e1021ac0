package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	reset    = "\033[0m"
	red      = "\033[31m"
	green    = "\033[32m"
	yellow   = "\033[33m"
	magenta  = "\033[35m"
	cyan     = "\033[36m"
	white    = "\033[37m"
	boldBlue = "\033[1;34m"
	bold     = "\033[1;37m"
)

var levelColors = map[slog.Level]string{
	slog.LevelDebug: cyan,
	slog.LevelInfo:  green,
	slog.LevelWarn:  yellow,
	slog.LevelError: red,
}

type ctxKey string

const requestIDKey ctxKey = "requestID"

// ColoredHandler prints one human-readable line per record:
// time, level, [request id], message, key=value attributes.
type ColoredHandler struct {
	level slog.Leveler
	attrs []slog.Attr
	group string
	mu    *sync.Mutex
	out   io.Writer
}

func NewColoredHandler(w io.Writer, opts *slog.HandlerOptions) *ColoredHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	return &ColoredHandler{level: level, mu: &sync.Mutex{}, out: w}
}

func (h *ColoredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ColoredHandler) Handle(ctx context.Context, r slog.Record) error {
	color, ok := levelColors[r.Level]
	if !ok {
		color = white
	}

	var line strings.Builder
	fmt.Fprintf(&line, "%s%s%s ", magenta, r.Time.Format("15:04:05.000"), reset)
	fmt.Fprintf(&line, "%s%-6s%s ", color, strings.ToUpper(r.Level.String()), reset)
	if id := RequestID(ctx); id != "" {
		fmt.Fprintf(&line, "%s[%s]%s ", boldBlue, id, reset)
	}
	fmt.Fprintf(&line, "%s%s%s", bold, r.Message, reset)

	write := func(a slog.Attr) bool {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		val := a.Value.Resolve().String()
		if a.Value.Kind() == slog.KindString {
			val = fmt.Sprintf("%q", val)
		}
		fmt.Fprintf(&line, " %s%s%s=%s", yellow, key, reset, val)
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)
	line.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, line.String())
	return err
}

func (h *ColoredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *ColoredHandler) WithGroup(name string) slog.Handler {
	next := *h
	if next.group != "" {
		name = next.group + "." + name
	}
	next.group = name
	return &next
}

// ParseLevel maps debug/info/warn/error onto slog levels; unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Setup installs the process-wide logger. format "json" switches to
// machine-readable output; anything else prints colored lines.
func Setup(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = &contextHandler{Handler: slog.NewJSONHandler(os.Stdout, opts)}
	} else {
		handler = NewColoredHandler(os.Stdout, opts)
	}
	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// contextHandler adds request_id to JSON records.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RequestID(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
