package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// levelColor returns the color used to print a message level.
func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	case level >= slog.LevelDebug:
		return colorBlue
	default:
		return colorMagenta
	}
}

// levelName returns the printed name of a message level.
func levelName(level slog.Level) string {
	return strings.ToUpper(Level(level).String())
}

// prettyCommon holds the state shared by both pretty handlers.
type prettyCommon struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr // added by WithAttrs, keys already qualified
	groups     []string
}

func (h *prettyCommon) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

// qualify prefixes key with the open groups.
func (h *prettyCommon) qualify(key string) string {
	if len(h.groups) == 0 {
		return key
	}

	return strings.Join(h.groups, ".") + "." + key
}

// withAttrs returns a copy of h with attrs recorded under the open groups.
func (h *prettyCommon) withAttrs(attrs []slog.Attr) prettyCommon {
	c := *h
	c.attrs = slices.Clip(h.attrs)

	for _, a := range attrs {
		a.Key = h.qualify(a.Key)
		c.attrs = append(c.attrs, a)
	}

	return c
}

func (h *prettyCommon) withGroup(name string) prettyCommon {
	c := *h
	if name != "" {
		c.groups = append(slices.Clip(h.groups), name)
	}

	return c
}

// recordAttrs returns every attribute of r, including those added with
// WithAttrs, with LogValuer values resolved and keys qualified.
func (h *prettyCommon) recordAttrs(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		a.Key = h.qualify(a.Key)
		attrs = append(attrs, a)

		return true
	})

	for i := range attrs {
		attrs[i].Value = attrs[i].Value.Resolve()
	}

	return attrs
}

func (h *prettyCommon) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler implements a colorized key=value handler for log
// messages. Group values are flattened into dotted keys.
type prettyTextHandler struct {
	prettyCommon
}

func newPrettyTextHandler(
	w io.Writer,
	formatTime FormatTime,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{prettyCommon{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if ts := h.formatTime(r.Time); !r.Time.IsZero() && ts != "" {
		buf.WriteString(colorGray)
		buf.WriteString(ts)
		buf.WriteString(colorReset)
		buf.WriteByte(' ')
	}

	buf.WriteString(levelColor(r.Level))
	fmt.Fprintf(buf, "%-5s", levelName(r.Level))
	buf.WriteString(colorReset)
	buf.WriteByte(' ')

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			buf.WriteString(colorGray)
			fmt.Fprintf(buf, "%s:%d", src.File, src.Line)
			buf.WriteString(colorReset)
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(r.Message)

	for _, a := range h.recordAttrs(r) {
		h.writeAttr(buf, "", a)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

func (h *prettyTextHandler) writeAttr(
	buf *bytes.Buffer,
	prefix string,
	a slog.Attr,
) {
	if a.Equal(slog.Attr{}) {
		return
	}

	key := prefix + a.Key

	if a.Value.Kind() == slog.KindGroup {
		sub := key + "."
		if a.Key == "" {
			sub = prefix
		}

		for _, ga := range a.Value.Group() {
			ga.Value = ga.Value.Resolve()
			h.writeAttr(buf, sub, ga)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(colorGray)
	buf.WriteString(key)
	buf.WriteString(colorReset)
	buf.WriteByte('=')

	writeTextValue(buf, a.Value)
}

func writeTextValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		// Quote only where needed to keep the line parseable
		s := v.String()
		if s == "" || strings.ContainsAny(s, " =\"\t\n") {
			s = strconv.Quote(s)
		}

		buf.WriteString(colorCyan)
		buf.WriteString(s)
		buf.WriteString(colorReset)

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		buf.WriteString(colorYellow)
		buf.WriteString(v.String())
		buf.WriteString(colorReset)

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(colorGreen)
		} else {
			buf.WriteString(colorRed)
		}

		buf.WriteString(v.String())
		buf.WriteString(colorReset)

	case slog.KindDuration:
		buf.WriteString(colorMagenta)
		buf.WriteString(v.Duration().String())
		buf.WriteString(colorReset)

	case slog.KindTime:
		buf.WriteString(colorBlue)
		buf.WriteString(v.Time().String())
		buf.WriteString(colorReset)

	default:
		if err, ok := v.Any().(error); ok {
			buf.WriteString(colorRed)
			buf.WriteString(strconv.Quote(err.Error()))
			buf.WriteString(colorReset)

			return
		}

		buf.WriteString(colorCyan)
		buf.WriteString(v.String())
		buf.WriteString(colorReset)
	}
}

// prettyJSONHandler implements a multi-line, colorized JSON-like handler for
// log messages. Group values are written as nested objects.
type prettyJSONHandler struct {
	prettyCommon
}

func newPrettyJSONHandler(
	w io.Writer,
	formatTime FormatTime,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyCommon{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if ts := h.formatTime(r.Time); !r.Time.IsZero() && ts != "" {
		fields = append(fields, slog.String(slog.TimeKey, ts))
	}

	fields = append(fields, slog.String(slog.LevelKey, levelName(r.Level)))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields, slog.String(slog.SourceKey,
				fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.recordAttrs(r)...)

	writeJSONObject(buf, fields, 0)

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

func writeJSONObject(buf *bytes.Buffer, attrs []slog.Attr, depth int) {
	indent := strings.Repeat("  ", depth+1)

	buf.WriteString("{")

	first := true

	for _, a := range attrs {
		if a.Equal(slog.Attr{}) {
			continue
		}

		if !first {
			buf.WriteByte(',')
		}

		first = false

		buf.WriteByte('\n')
		buf.WriteString(indent)
		buf.WriteString(colorGray)
		buf.WriteString(strconv.Quote(a.Key))
		buf.WriteString(colorReset)
		buf.WriteString(": ")

		v := a.Value.Resolve()
		if v.Kind() == slog.KindGroup {
			writeJSONObject(buf, v.Group(), depth+1)

			continue
		}

		writeJSONValue(buf, v)
	}

	if !first {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat("  ", depth))
	}

	buf.WriteString("}")
}

func writeJSONValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(colorCyan)
		buf.WriteString(strconv.Quote(v.String()))
		buf.WriteString(colorReset)

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		buf.WriteString(colorYellow)
		buf.WriteString(v.String())
		buf.WriteString(colorReset)

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(colorGreen)
		} else {
			buf.WriteString(colorRed)
		}

		buf.WriteString(v.String())
		buf.WriteString(colorReset)

	case slog.KindAny:
		if v.Any() == nil {
			buf.WriteString(colorGray)
			buf.WriteString("null")
			buf.WriteString(colorReset)

			return
		}

		if err, ok := v.Any().(error); ok {
			buf.WriteString(colorRed)
			buf.WriteString(strconv.Quote(err.Error()))
			buf.WriteString(colorReset)

			return
		}

		fallthrough

	default:
		buf.WriteString(colorCyan)
		buf.WriteString(strconv.Quote(v.String()))
		buf.WriteString(colorReset)
	}
}
