// Package logging writes logfmt lines. The terminal UI owns the screen, so it
// logs to a file; CLI commands log to stderr.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
	disabled
)

var levelNames = [...]string{Debug: "debug", Info: "info", Warn: "warn", Error: "error"}

func (l Level) String() string {
	if l < Debug || l > Error {
		return "info"
	}
	return levelNames[l]
}

// ParseLevel maps a config value to a level. Unknown values mean info.
func ParseLevel(raw string) Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return Debug
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	}
	return Info
}

type Field struct {
	Key   string
	Value any
}

func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Err is shorthand for F("error", err).
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// NewRequestID returns a fresh id used to correlate a request with its logs.
func NewRequestID() string {
	return uuid.NewString()
}

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Enabled(level Level) bool
}

// sink is shared by a logger and everything derived from it with With.
type sink struct {
	mu  sync.Mutex
	out io.Writer
}

func (s *sink) write(line []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.out.Write(line)
}

type logfmtLogger struct {
	sink   *sink
	level  Level
	prefix []byte
	now    func() time.Time
}

func New(out io.Writer, level Level) Logger {
	if out == nil {
		out = os.Stderr
	}
	return &logfmtLogger{sink: &sink{out: out}, level: level, now: time.Now}
}

func Nop() Logger {
	return &logfmtLogger{sink: &sink{out: io.Discard}, level: disabled, now: time.Now}
}

// OpenFile appends logs to path, creating its directory.
func OpenFile(path string, level Level) (Logger, io.Closer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil, errors.New("log path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return New(file, level), file, nil
}

func (l *logfmtLogger) Enabled(level Level) bool {
	return l != nil && level >= l.level
}

// With pre-encodes fields so they are not formatted again on every line.
func (l *logfmtLogger) With(fields ...Field) Logger {
	if l == nil {
		return Nop()
	}
	prefix := append([]byte(nil), l.prefix...)
	for _, field := range fields {
		prefix = appendField(prefix, field)
	}
	return &logfmtLogger{sink: l.sink, level: l.level, prefix: prefix, now: l.now}
}

func (l *logfmtLogger) Debug(msg string, fields ...Field) { l.log(Debug, msg, fields) }
func (l *logfmtLogger) Info(msg string, fields ...Field)  { l.log(Info, msg, fields) }
func (l *logfmtLogger) Warn(msg string, fields ...Field)  { l.log(Warn, msg, fields) }
func (l *logfmtLogger) Error(msg string, fields ...Field) { l.log(Error, msg, fields) }

func (l *logfmtLogger) log(level Level, msg string, fields []Field) {
	if !l.Enabled(level) {
		return
	}
	line := make([]byte, 0, 128+len(l.prefix))
	line = append(line, "ts="...)
	line = l.now().UTC().AppendFormat(line, time.RFC3339Nano)
	line = append(line, " level="...)
	line = append(line, level.String()...)
	line = append(line, " msg="...)
	line = appendValue(line, msg)
	line = append(line, l.prefix...)
	for _, field := range fields {
		line = appendField(line, field)
	}
	line = append(line, '\n')
	l.sink.write(line)
}

// sensitiveKeys are masked wherever they appear.
var sensitiveKeys = map[string]bool{
	"token":         true,
	"authorization": true,
	"password":      true,
}

func appendField(dst []byte, field Field) []byte {
	dst = append(dst, ' ')
	dst = append(dst, field.Key...)
	dst = append(dst, '=')
	if sensitiveKeys[strings.ToLower(field.Key)] && field.Value != nil {
		return append(dst, "***"...)
	}
	return appendValue(dst, formatValue(field.Value))
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case []byte:
		return string(v)
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

// appendValue writes value, quoting it when logfmt needs quotes.
func appendValue(dst []byte, value string) []byte {
	if value == "" {
		return append(dst, `""`...)
	}
	if strings.ContainsAny(value, " \t\n\r\"=") {
		return strconv.AppendQuote(dst, value)
	}
	return append(dst, value...)
}
