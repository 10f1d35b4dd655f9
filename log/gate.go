package log

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

const unexpectedLogsSize = 10

var (
	warnLogLines atomic.Uint64
	errLogLines  atomic.Uint64
	critLogLines atomic.Uint64

	unexpectedLogs     []string
	unexpectedLogsLock sync.Mutex
)

// gate sits in front of the console handler. It filters records of
// libraries by the current log level and keeps statistics of all records
// that pass.
type gate struct {
	next slog.Handler
}

func (g *gate) Enabled(_ context.Context, lvl slog.Level) bool {
	return severityOf(lvl) >= GetLogLevel()
}

func (g *gate) Handle(ctx context.Context, r slog.Record) error {
	s := severityOf(r.Level)
	switch s {
	case WarningLevel:
		warnLogLines.Add(1)
	case ErrorLevel:
		errLogLines.Add(1)
	case CriticalLevel:
		critLogLines.Add(1)
	}
	if s >= WarningLevel {
		addUnexpectedLog(fmt.Sprintf("%s %s %s", r.Time.Format(timeFormat), s.Name(), r.Message))
	}

	return g.next.Handle(ctx, r)
}

func (g *gate) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &gate{next: g.next.WithAttrs(attrs)}
}

func (g *gate) WithGroup(name string) slog.Handler {
	return &gate{next: g.next.WithGroup(name)}
}

func addUnexpectedLog(line string) {
	unexpectedLogsLock.Lock()
	defer unexpectedLogsLock.Unlock()

	if len(unexpectedLogs) >= unexpectedLogsSize {
		unexpectedLogs = unexpectedLogs[1:]
	}
	unexpectedLogs = append(unexpectedLogs, line)
}

// GetLastUnexpectedLogs returns the last warning-or-worse lines, oldest
// first.
func GetLastUnexpectedLogs() []string {
	unexpectedLogsLock.Lock()
	defer unexpectedLogsLock.Unlock()

	return append([]string(nil), unexpectedLogs...)
}

// TotalWarningLogLines returns the total amount of warning log lines since
// start of the program.
func TotalWarningLogLines() uint64 {
	return warnLogLines.Load()
}

// TotalErrorLogLines returns the total amount of error log lines since start
// of the program.
func TotalErrorLogLines() uint64 {
	return errLogLines.Load()
}

// TotalCriticalLogLines returns the total amount of critical log lines since
// start of the program.
func TotalCriticalLogLines() uint64 {
	return critLogLines.Load()
}
