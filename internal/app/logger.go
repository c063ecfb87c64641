package app

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"
)

type Logger struct {
	out io.Writer
}

// Fields carries structured context for one log line.
type Fields map[string]interface{}

type LogEvent struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
}

func NewLogger(out io.Writer) *Logger {
	return &Logger{out: out}
}

func (l *Logger) Info(message string, fields Fields) {
	l.write("info", message, fields)
}

func (l *Logger) Error(message string, fields Fields) {
	l.write("error", message, fields)
}

// Err logs a failure with the error text stamped into the fields.
func (l *Logger) Err(message string, err error, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}
	fields["error"] = err.Error()
	l.write("error", message, fields)
}

func (l *Logger) write(level, message string, fields Fields) {
	evt := LogEvent{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Message:   message,
		Fields:    fields,
	}
	payload, _ := json.Marshal(evt)
	payload = append(payload, '\n')
	_, _ = l.out.Write(payload)
}

// DefaultLogWriter opens the log file under the user cache dir. The TUI owns
// stdout, so logs never go to the terminal.
func DefaultLogWriter() io.Writer {
	base, err := os.UserCacheDir()
	if err != nil {
		return io.Discard
	}
	dir := filepath.Join(base, "opsctl")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return io.Discard
	}
	f, err := os.OpenFile(filepath.Join(dir, "opsctl.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return io.Discard
	}
	return f
}
