package statechart

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Logger is the logging contract the model emits through. It is a subset
// of github.com/goliatone/go-logger's glog.Logger, so a glog instance can
// be injected directly via WithLogger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// FmtLogger is a plain-text fallback logger for hosts that do not bring
// their own logging stack.
type FmtLogger struct {
	out io.Writer
}

// NewFmtLogger constructs a fallback logger writing to out.
func NewFmtLogger(out io.Writer) *FmtLogger {
	return &FmtLogger{out: out}
}

func (l *FmtLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }
func (l *FmtLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args...) }
func (l *FmtLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args...) }
func (l *FmtLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }

func (l *FmtLogger) log(level, msg string, args ...any) {
	if l == nil || l.out == nil {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	fmt.Fprintf(l.out, "%s %-5s %s\n",
		time.Now().UTC().Format(time.RFC3339), level, strings.TrimSpace(msg))
}

func normalizeLogger(logger Logger) Logger {
	if logger == nil {
		return noopLogger{}
	}
	return logger
}
