package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

// ANSI palette indexes used by the pretty handler.
const (
	colorGray    = "8"
	colorRed     = "1"
	colorGreen   = "2"
	colorYellow  = "3"
	colorBlue    = "4"
	colorMagenta = "5"
	colorCyan    = "6"
)

// prettyHandler writes unquoted, colorized key=value lines.
// Colors are degraded to the profile supported by the output, so writing to
// a file or buffer produces plain text.
type prettyHandler struct {
	opts       slog.HandlerOptions
	mu         *sync.Mutex
	w          io.Writer
	formatTime FormatTime
	profile    termenv.Profile
	attrs      []byte // preformatted attributes added by WithAttrs
	group      string // dotted group prefix added by WithGroup
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		mu:         &sync.Mutex{},
		w:          w,
		formatTime: formatTime,
		profile:    termenv.NewOutput(w).ColorProfile(),
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(h.paint(ts, colorGray))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(h.level(r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			buf.WriteByte(' ')
			buf.WriteString(h.paint(fmt.Sprintf("%s:%d", src.File, src.Line), colorGray))
		}
	}

	buf.WriteByte(' ')
	buf.WriteString(h.profile.String(r.Message).Bold().String())
	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.group, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	buf := bytes.NewBuffer(bytes.Clone(h.attrs))
	for _, a := range attrs {
		h.writeAttr(buf, h.group, a)
	}

	c := *h
	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.group = h.group + name + "."

	return &c
}

// paint colors s unless the output profile lacks color.
func (h *prettyHandler) paint(s, color string) string {
	if h.profile == termenv.Ascii {
		return s
	}

	return h.profile.String(s).Foreground(h.profile.Color(color)).String()
}

func (h *prettyHandler) level(l slog.Level) string {
	name := strings.ToUpper(Level(l).String())

	switch {
	case l >= slog.LevelError:
		return h.paint(name, colorRed)
	case l >= slog.LevelWarn:
		return h.paint(name, colorYellow)
	case l >= slog.LevelInfo:
		return h.paint(name, colorGreen)
	default:
		return h.paint(name, colorBlue)
	}
}

// writeAttr writes " key=value", flattening groups into dotted keys.
func (h *prettyHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			h.writeAttr(buf, prefix, g)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.paint(prefix+a.Key, colorGray))
	buf.WriteByte('=')
	buf.WriteString(h.value(a.Value))
}

func (h *prettyHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return h.paint(v.String(), colorCyan)

	case slog.KindInt64:
		return h.paint(strconv.FormatInt(v.Int64(), 10), colorYellow)

	case slog.KindUint64:
		return h.paint(strconv.FormatUint(v.Uint64(), 10), colorYellow)

	case slog.KindFloat64:
		return h.paint(strconv.FormatFloat(v.Float64(), 'g', -1, 64), colorYellow)

	case slog.KindBool:
		if v.Bool() {
			return h.paint("true", colorGreen)
		}

		return h.paint("false", colorRed)

	case slog.KindDuration:
		return h.paint(v.Duration().String(), colorMagenta)

	case slog.KindTime:
		return h.paint(v.Time().Format(time.RFC3339), colorBlue)

	default:
		return h.paint(v.String(), colorCyan)
	}
}
