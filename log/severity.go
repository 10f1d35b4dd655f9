package log

import (
	"log/slog"
	"strings"
)

// Severity describes a log level.
type Severity uint32

// Log Levels.
const (
	TraceLevel Severity = iota + 1
	DebugLevel
	InfoLevel
	WarningLevel
	ErrorLevel
	CriticalLevel
)

// slog has no trace and critical levels. They are placed one step below
// debug and one step above error.
const (
	slogLevelTrace    = slog.LevelDebug - 4
	slogLevelCritical = slog.LevelError + 4
)

var severityNames = map[Severity]string{
	TraceLevel:    "trace",
	DebugLevel:    "debug",
	InfoLevel:     "info",
	WarningLevel:  "warning",
	ErrorLevel:    "error",
	CriticalLevel: "critical",
}

// Name returns the name of the log level.
func (s Severity) Name() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "none"
}

// ParseLevel returns the severity of a log level name, or 0 if the name is
// unknown.
func ParseLevel(name string) Severity {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range severityNames {
		if n == name {
			return s
		}
	}
	return 0
}

func (s Severity) slogLevel() slog.Level {
	switch s {
	case TraceLevel:
		return slogLevelTrace
	case DebugLevel:
		return slog.LevelDebug
	case InfoLevel:
		return slog.LevelInfo
	case WarningLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slogLevelCritical
	}
}

func severityOf(level slog.Level) Severity {
	switch {
	case level < slog.LevelDebug:
		return TraceLevel
	case level < slog.LevelInfo:
		return DebugLevel
	case level < slog.LevelWarn:
		return InfoLevel
	case level < slog.LevelError:
		return WarningLevel
	case level < slogLevelCritical:
		return ErrorLevel
	default:
		return CriticalLevel
	}
}
