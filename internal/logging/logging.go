// Package logging is the diagnostic logger for shell-ai.
//
// Everything goes to stderr so that stdout stays clean for commands and
// JSON output. The default level is warn; --debug or SHAI_DEBUG lowers it.
// At debug, each config lookup and each provider request is logged; at
// trace, request and response bodies are included (credentials redacted).
//
//	log := logging.DefaultLogger.With(logging.Fields{"provider": "groq"})
//	log.Debug("Resolved model", logging.Fields{"model": "openai/gpt-oss-120b"})
//	// [debug] Resolved model model=openai/gpt-oss-120b provider=groq
package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Level is a logging threshold
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	// LevelNone disables all logging
	LevelNone
)

var levelNames = map[Level]string{
	LevelTrace: "trace",
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelNone:  "none",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel maps a debug level name (any case) to a Level. Unknown names
// give LevelInfo.
func ParseLevel(s string) Level {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "warning":
		return LevelWarn
	case "off":
		return LevelNone
	}
	for l, name := range levelNames {
		if name == s {
			return l
		}
	}
	return LevelInfo
}

// Format selects how entries are rendered
type Format int

const (
	// FormatConsole writes "[level] message key=value"
	FormatConsole Format = iota
	// FormatText prefixes console lines with a timestamp
	FormatText
	// FormatJSON writes one object per line
	FormatJSON
)

// Fields are structured key/value pairs attached to an entry
type Fields map[string]interface{}

// Options configures New
type Options struct {
	Level  Level
	Format Format
	Output io.Writer
	// Color enables ANSI colors in console format
	Color bool
}

// sink is the state shared by a logger and every child made with With
type sink struct {
	mu     sync.Mutex
	level  Level
	format Format
	out    io.Writer
	colors map[Level]*color.Color
	now    func() time.Time
}

// Logger writes leveled entries. Children created by With share the
// parent's level and output.
type Logger struct {
	s      *sink
	fields Fields
}

// DefaultLogger backs the package-level functions
var DefaultLogger = New(Options{
	Level:  LevelWarn,
	Format: FormatConsole,
	Output: os.Stderr,
	Color:  IsTerminal(os.Stderr),
})

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// New creates a Logger
func New(opts Options) *Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	s := &sink{
		level:  opts.Level,
		format: opts.Format,
		out:    opts.Output,
		now:    time.Now,
		colors: map[Level]*color.Color{
			LevelTrace: color.New(color.FgMagenta),
			LevelDebug: color.New(color.FgCyan),
			LevelInfo:  color.New(color.FgGreen),
			LevelWarn:  color.New(color.FgYellow),
			LevelError: color.New(color.FgRed, color.Bold),
		},
	}
	s.setColor(opts.Color)
	return &Logger{s: s}
}

func (s *sink) setColor(enabled bool) {
	for _, c := range s.colors {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// With returns a child logger that adds fields to every entry
func (l *Logger) With(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	maps.Copy(merged, l.fields)
	maps.Copy(merged, fields)
	return &Logger{s: l.s, fields: merged}
}

// SetLevel changes the threshold for this logger and its children
func (l *Logger) SetLevel(level Level) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.level = level
}

// Level returns the current threshold
func (l *Logger) Level() Level {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.level
}

// Enabled reports whether entries at level are written
func (l *Logger) Enabled(level Level) bool {
	return level < LevelNone && level >= l.Level()
}

func (l *Logger) SetFormat(format Format) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.format = format
}

func (l *Logger) SetOutput(w io.Writer) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.out = w
}

func (l *Logger) SetColor(enabled bool) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.setColor(enabled)
}

func (l *Logger) Trace(msg string, fields ...Fields) { l.log(LevelTrace, msg, nil, fields) }
func (l *Logger) Debug(msg string, fields ...Fields) { l.log(LevelDebug, msg, nil, fields) }
func (l *Logger) Info(msg string, fields ...Fields)  { l.log(LevelInfo, msg, nil, fields) }
func (l *Logger) Warn(msg string, fields ...Fields)  { l.log(LevelWarn, msg, nil, fields) }

// Error logs msg with err attached
func (l *Logger) Error(msg string, err error, fields ...Fields) {
	l.log(LevelError, msg, err, fields)
}

func (l *Logger) log(level Level, msg string, err error, extra []Fields) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if level < l.s.level || l.s.level == LevelNone {
		return
	}

	fields := make(Fields, len(l.fields))
	maps.Copy(fields, l.fields)
	for _, f := range extra {
		maps.Copy(fields, f)
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	var buf bytes.Buffer
	switch l.s.format {
	case FormatJSON:
		l.s.appendJSON(&buf, level, msg, fields)
	case FormatText:
		buf.WriteString(l.s.now().Format("2006-01-02 15:04:05.000 "))
		l.s.appendConsole(&buf, level, msg, fields)
	default:
		l.s.appendConsole(&buf, level, msg, fields)
	}
	buf.WriteByte('\n')
	_, _ = l.s.out.Write(buf.Bytes())
}

func (s *sink) appendConsole(buf *bytes.Buffer, level Level, msg string, fields Fields) {
	prefix := "[" + level.String() + "]"
	if c, ok := s.colors[level]; ok {
		prefix = c.Sprint(prefix)
	}
	buf.WriteString(prefix)
	buf.WriteByte(' ')
	buf.WriteString(msg)
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(buf, " %s=%s", k, consoleValue(fields[k]))
	}
}

// consoleValue quotes strings containing spaces so entries stay on one
// greppable line
func consoleValue(v interface{}) string {
	switch v := v.(type) {
	case string:
		if v == "" || strings.ContainsAny(v, " \t\n\"=") {
			return fmt.Sprintf("%q", v)
		}
		return v
	case fmt.Stringer:
		return v.String()
	case map[string]string, map[string]interface{}, []interface{}:
		data, err := json.Marshal(v)
		if err == nil {
			return string(data)
		}
	}
	return fmt.Sprint(v)
}

func (s *sink) appendJSON(buf *bytes.Buffer, level Level, msg string, fields Fields) {
	obj := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		obj[k] = v
	}
	obj["time"] = s.now().UTC().Format(time.RFC3339Nano)
	obj["level"] = level.String()
	obj["msg"] = msg
	data, err := json.Marshal(obj)
	if err != nil {
		fmt.Fprintf(buf, `{"level":"error","msg":"unencodable log entry","error":%q}`, err.Error())
		return
	}
	buf.Write(data)
}

func Trace(msg string, fields ...Fields) { DefaultLogger.Trace(msg, fields...) }
func Debug(msg string, fields ...Fields) { DefaultLogger.Debug(msg, fields...) }
func Info(msg string, fields ...Fields)  { DefaultLogger.Info(msg, fields...) }
func Warn(msg string, fields ...Fields)  { DefaultLogger.Warn(msg, fields...) }

func Error(msg string, err error, fields ...Fields) {
	DefaultLogger.Error(msg, err, fields...)
}

// SetLevel sets the level of the default logger
func SetLevel(level Level) { DefaultLogger.SetLevel(level) }

// SetFormat sets the format of the default logger
func SetFormat(format Format) { DefaultLogger.SetFormat(format) }
