package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "none"
	}
}

// ParseLevel converts a level name ("debug", "info", "warning", "error",
// "none") into a Level. Names are case-insensitive, "warn" is accepted
// as an alias for "warning".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "none", "off":
		return LevelNone, nil
	}
	return LevelNone, fmt.Errorf("unknown log level %q", s)
}

var (
	out     io.Writer = os.Stderr
	current           = LevelWarning
	loggers           = map[Level]*log.Logger{}
)

func init() {
	flags := log.Ldate | log.Ltime | log.LUTC
	loggers[LevelDebug] = log.New(io.Discard, "D ", flags)
	loggers[LevelInfo] = log.New(io.Discard, "I ", flags)
	loggers[LevelWarning] = log.New(io.Discard, "W ", flags)
	loggers[LevelError] = log.New(io.Discard, "E ", flags)

	SetLevel(LevelWarning)
}

// SetLevel enables all loggers at or above the given level.
func SetLevel(l Level) {
	current = l
	apply()
}

// SetOutput redirects enabled loggers to w.
func SetOutput(w io.Writer) {
	out = w
	apply()
}

// Enabled tells if messages at the given level are written.
func Enabled(l Level) bool {
	return l >= current && l != LevelNone
}

func apply() {
	for lvl, logger := range loggers {
		if Enabled(lvl) {
			logger.SetOutput(out)
		} else {
			logger.SetOutput(io.Discard)
		}
	}
}

func Debug(msg string, v ...interface{}) {
	loggers[LevelDebug].Printf(msg, v...)
}

func Info(msg string, v ...interface{}) {
	loggers[LevelInfo].Printf(msg, v...)
}

func Warning(msg string, v ...interface{}) {
	loggers[LevelWarning].Printf(msg, v...)
}

func Error(msg string, v ...interface{}) {
	loggers[LevelError].Printf(msg, v...)
}
