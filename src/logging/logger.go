package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LogLevel orders message severities from Debug to Error.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var backendLevels = map[LogLevel]log.Level{
	LevelDebug: log.DebugLevel,
	LevelInfo:  log.InfoLevel,
	LevelWarn:  log.WarnLevel,
	LevelError: log.ErrorLevel,
}

var baseLogger = newLogger(os.Stderr)

func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006/01/02 15:04:05.000000",
		Level:           log.InfoLevel,
	})
	return l
}

// SetLogLevel switches the package logger to the named level (debug, info,
// warn or error). Unrecognised names leave the level as it was.
func SetLogLevel(s string) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return
	}
	baseLogger.SetLevel(backendLevels[l])
}

// SetOutput redirects log output, keeping the current level.
func SetOutput(w io.Writer) {
	lvl := baseLogger.GetLevel()
	baseLogger = newLogger(w)
	baseLogger.SetLevel(lvl)
}

// GetLogLevel maps the backend level back to a LogLevel, letting callers skip
// assembling debug-only detail.
func GetLogLevel() LogLevel {
	switch baseLogger.GetLevel() {
	case log.DebugLevel:
		return LevelDebug
	case log.WarnLevel:
		return LevelWarn
	case log.ErrorLevel, log.FatalLevel:
		return LevelError
	default:
		return LevelInfo
	}
}

func logf(l LogLevel, format string, args ...interface{}) {
	// No args: log the text as is, a preformatted message may contain '%'.
	if len(args) == 0 {
		baseLogger.Log(backendLevels[l], format)
		return
	}
	baseLogger.Logf(backendLevels[l], format, args...)
}

// Leveled printf-style entry points.
func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// TimeTrack logs at debug level how long label ran since start; use with defer.
func TimeTrack(start time.Time, label string) {
	dur := time.Since(start)
	Debugf("%s took %s", label, dur)
}
