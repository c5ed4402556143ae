// Package common provides logging utilities shared by the library and the cli
package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/lni/dragonboat/v4/logger"
)

// loggerNames lists the loggers created by this module
var loggerNames = []string{"rod", "lockmgr", "cli"}

// output is the writer all loggers created by CreateLogger write to
var output io.Writer = os.Stdout

// levelTag returns the tag printed in front of every line of the given level
func levelTag(level logger.LogLevel) string {
	switch level {
	case logger.DEBUG:
		return "DEBUG"
	case logger.INFO:
		return "INFO"
	case logger.WARNING:
		return "WARN"
	case logger.ERROR:
		return "ERROR"
	case logger.CRITICAL:
		return "CRIT"
	default:
		return "LOG"
	}
}

// --------------------------------------------------------------------------
// Leveled line writer (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// lineLogger writes one line per message in the form "LEVEL | name | message".
// The level can be changed while other goroutines log.
type lineLogger struct {
	name  string
	level atomic.Int64
	out   *log.Logger
}

func (l *lineLogger) SetLevel(level logger.LogLevel) {
	l.level.Store(int64(level))
}

func (l *lineLogger) Debugf(format string, args ...interface{}) {
	l.write(logger.DEBUG, format, args)
}

func (l *lineLogger) Infof(format string, args ...interface{}) {
	l.write(logger.INFO, format, args)
}

func (l *lineLogger) Warningf(format string, args ...interface{}) {
	l.write(logger.WARNING, format, args)
}

func (l *lineLogger) Errorf(format string, args ...interface{}) {
	l.write(logger.ERROR, format, args)
}

// Panicf logs the message and panics with it, regardless of the level
func (l *lineLogger) Panicf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.write(logger.CRITICAL, "%s", []interface{}{msg})
	panic(msg)
}

// write drops messages above the configured level
func (l *lineLogger) write(level logger.LogLevel, format string, args []interface{}) {
	if int64(level) > l.level.Load() {
		return
	}
	_ = l.out.Output(3, fmt.Sprintf("%-5s | %-10s | %s", levelTag(level), l.name, fmt.Sprintf(format, args...)))
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// NewLogger creates a logger named name that writes to w, starting at level INFO
func NewLogger(name string, w io.Writer) logger.ILogger {
	l := &lineLogger{
		name: name,
		out:  log.New(w, "", log.Ldate|log.Ltime),
	}
	l.SetLevel(logger.INFO)
	return l
}

// CreateLogger implements dragonboats logger.Factory, all loggers write to output
func CreateLogger(pkgName string) logger.ILogger {
	return NewLogger(pkgName, output)
}

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return logger.INFO, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// InitLoggers installs CreateLogger as factory and sets the level of all loggers of this module.
// It should be called once during startup, before the first log line is written.
func InitLoggers(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}

	logger.SetLoggerFactory(CreateLogger)

	for _, name := range loggerNames {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}
