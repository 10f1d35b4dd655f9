package log

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"
)

// emit writes a line at the given severity. It must be called directly by
// the exported log functions, as the caller is found by stack depth.
func emit(s Severity, msg string) {
	if stopped.IsSet() {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	if !enabledFor(s, pcs[0]) {
		return
	}

	r := slog.NewRecord(time.Now(), s.slogLevel(), msg, pcs[0])
	_ = getOutput().Handle(context.Background(), r)
}

// mightLog reports whether formatting a line of severity s is worth it.
func mightLog(s Severity) bool {
	return pkgLevelsActive.IsSet() || s >= GetLogLevel()
}

func enabledFor(s Severity, pc uintptr) bool {
	if pkgLevelsActive.IsSet() {
		if pkgSeverity, ok := pkgLevel(callerPackage(pc)); ok {
			return s >= pkgSeverity
		}
	}
	return s >= GetLogLevel()
}

// callerPackage returns the name of the package the pc is in,
// eg. "api" for "github.com/safing/osicons/api.(*Endpoint).ServeHTTP".
func callerPackage(pc uintptr) string {
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	name := frame.Function
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name
}

// Trace logs tiny steps.
func Trace(msg string) {
	if mightLog(TraceLevel) {
		emit(TraceLevel, msg)
	}
}

// Tracef logs tiny steps.
func Tracef(format string, things ...interface{}) {
	if mightLog(TraceLevel) {
		emit(TraceLevel, fmt.Sprintf(format, things...))
	}
}

// Debug logs details that help when hunting a bug.
func Debug(msg string) {
	if mightLog(DebugLevel) {
		emit(DebugLevel, msg)
	}
}

// Debugf logs details that help when hunting a bug.
func Debugf(format string, things ...interface{}) {
	if mightLog(DebugLevel) {
		emit(DebugLevel, fmt.Sprintf(format, things...))
	}
}

// Info logs notable events, eg. a module being started.
func Info(msg string) {
	if mightLog(InfoLevel) {
		emit(InfoLevel, msg)
	}
}

// Infof logs notable events, eg. a module being started.
func Infof(format string, things ...interface{}) {
	if mightLog(InfoLevel) {
		emit(InfoLevel, fmt.Sprintf(format, things...))
	}
}

// Warning logs events that are bad, but did not break anything.
func Warning(msg string) {
	emit(WarningLevel, msg)
}

// Warningf logs events that are bad, but did not break anything.
func Warningf(format string, things ...interface{}) {
	emit(WarningLevel, fmt.Sprintf(format, things...))
}

// Error logs failures that impair functionality.
func Error(msg string) {
	emit(ErrorLevel, msg)
}

// Errorf logs failures that impair functionality.
func Errorf(format string, things ...interface{}) {
	emit(ErrorLevel, fmt.Sprintf(format, things...))
}

// Critical logs failures the program cannot continue from.
func Critical(msg string) {
	emit(CriticalLevel, msg)
}

// Criticalf logs failures the program cannot continue from.
func Criticalf(format string, things ...interface{}) {
	emit(CriticalLevel, fmt.Sprintf(format, things...))
}
