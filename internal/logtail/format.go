package logtail

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Attr is one key=value pair of a structured record.
type Attr struct {
	Key   string
	Value string
}

// Entry is one log line. Structured is false for lines that are not slog
// JSON; those keep only Raw.
type Entry struct {
	Raw        string
	Structured bool
	Time       time.Time
	Level      slog.Level
	Message    string
	Attrs      []Attr
}

var (
	timeColor      = color.New(color.FgHiBlack)
	componentColor = color.New(color.FgCyan)
	keyColor       = color.New(color.FgHiBlack)
	levelColors    = map[slog.Level]*color.Color{
		slog.LevelDebug: color.New(color.FgBlue),
		slog.LevelInfo:  color.New(color.FgGreen, color.Bold),
		slog.LevelWarn:  color.New(color.FgYellow, color.Bold),
		slog.LevelError: color.New(color.FgRed, color.Bold),
	}
)

// Parse decodes a slog JSON line. Anything else comes back unstructured.
func Parse(line string) Entry {
	entry := Entry{Raw: line}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return entry
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return entry
	}
	msg, ok := fields[slog.MessageKey].(string)
	if !ok {
		return entry
	}

	entry.Structured = true
	entry.Message = msg
	if raw, ok := fields[slog.TimeKey].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			entry.Time = ts
		}
	}
	if raw, ok := fields[slog.LevelKey].(string); ok {
		var level slog.Level
		if err := level.UnmarshalText([]byte(raw)); err == nil {
			entry.Level = level
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		switch k {
		case slog.MessageKey, slog.TimeKey, slog.LevelKey:
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		// component leads, the rest are alphabetical
		if (keys[i] == "component") != (keys[j] == "component") {
			return keys[i] == "component"
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		entry.Attrs = append(entry.Attrs, Attr{Key: k, Value: formatValue(fields[k])})
	}
	return entry
}

// String renders the entry as "15:04:05 LEVEL msg key=value ...".
func (e Entry) String() string {
	if !e.Structured {
		return e.Raw
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Format("15:04:05"))
		b.WriteByte(' ')
	}
	b.WriteString(e.Level.String())
	b.WriteByte(' ')
	b.WriteString(e.Message)
	for _, a := range e.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(a.Value)
	}
	return b.String()
}

// Colorize renders like String with terminal colors. Colors follow
// color.NoColor, so piped output stays plain.
func Colorize(e Entry) string {
	if !e.Structured {
		return e.Raw
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(timeColor.Sprint(e.Time.Format("15:04:05")))
		b.WriteByte(' ')
	}
	b.WriteString(levelColor(e.Level).Sprint(e.Level.String()))
	b.WriteByte(' ')
	b.WriteString(e.Message)
	for _, a := range e.Attrs {
		b.WriteByte(' ')
		if a.Key == "component" {
			b.WriteString(componentColor.Sprint("[" + a.Value + "]"))
			continue
		}
		b.WriteString(keyColor.Sprint(a.Key + "="))
		b.WriteString(a.Value)
	}
	return b.String()
}

// FilterLevel drops structured entries below minLevel. Unstructured lines are kept.
func FilterLevel(entries []Entry, minLevel slog.Level) []Entry {
	out := entries[:0:0]
	for _, e := range entries {
		if e.Structured && e.Level < minLevel {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ParseLines parses every line.
func ParseLines(lines []string) []Entry {
	out := make([]Entry, len(lines))
	for i, line := range lines {
		out[i] = Parse(line)
	}
	return out
}

func levelColor(level slog.Level) *color.Color {
	switch {
	case level >= slog.LevelError:
		return levelColors[slog.LevelError]
	case level >= slog.LevelWarn:
		return levelColors[slog.LevelWarn]
	case level >= slog.LevelInfo:
		return levelColors[slog.LevelInfo]
	default:
		return levelColors[slog.LevelDebug]
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		if val == "" || strings.ContainsAny(val, " \t\"=") {
			return strconv.Quote(val)
		}
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return "null"
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(val); err != nil {
			return ""
		}
		return strings.TrimSpace(buf.String())
	}
}
