// Package log is the logging facade of osicons. Lines are written through
// log/slog to a colored console handler. Warnings and worse are counted and
// the latest of them are kept for debug reports.
package log

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/tevino/abool"
)

const timeFormat = "060102 15:04:05.000"

var (
	logLevelFlag     string
	pkgLogLevelsFlag string

	level atomic.Uint32

	pkgLevelsActive = abool.New()
	pkgLevels       map[string]Severity
	pkgLevelsLock   sync.RWMutex

	outputLock sync.RWMutex
	output     slog.Handler

	started = abool.New()
	stopped = abool.New()
)

func init() {
	flag.StringVar(&logLevelFlag, "log", "", "set log level to [trace|debug|info|warning|error|critical]")
	flag.StringVar(&pkgLogLevelsFlag, "plog", "", "set log level of packages: api=trace,osimage=debug")

	level.Store(uint32(InfoLevel))
	setOutput(newConsoleHandler(os.Stderr, !isatty.IsTerminal(os.Stderr.Fd())))
}

func newConsoleHandler(w io.Writer, noColor bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		AddSource:   true,
		Level:       slogLevelTrace,
		TimeFormat:  timeFormat,
		NoColor:     noColor,
		ReplaceAttr: renameLevels,
	})
}

// renameLevels gives the levels slog does not know a readable name.
func renameLevels(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}
	lvl, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	switch severityOf(lvl) {
	case TraceLevel:
		return slog.String(slog.LevelKey, "TRC")
	case CriticalLevel:
		return slog.String(slog.LevelKey, "CRT")
	default:
		return a
	}
}

// setOutput replaces the handler all lines are written to. The standard
// slog logger, as used by libraries, shares it.
func setOutput(h slog.Handler) {
	g := &gate{next: h}

	outputLock.Lock()
	output = g
	outputLock.Unlock()

	slog.SetDefault(slog.New(g))
}

func getOutput() slog.Handler {
	outputLock.RLock()
	defer outputLock.RUnlock()

	return output
}

// GetLogLevel returns the current log level.
func GetLogLevel() Severity {
	return Severity(level.Load())
}

// SetLogLevel sets a new log level.
func SetLogLevel(s Severity) {
	level.Store(uint32(s))
}

// SetPkgLevels sets individual log levels for packages. Packages are
// identified by their name, eg. "api".
func SetPkgLevels(levels map[string]Severity) {
	pkgLevelsLock.Lock()
	pkgLevels = levels
	pkgLevelsLock.Unlock()

	pkgLevelsActive.Set()
}

// UnSetPkgLevels removes all individual log levels for packages.
func UnSetPkgLevels() {
	pkgLevelsActive.UnSet()
}

func pkgLevel(pkg string) (s Severity, ok bool) {
	pkgLevelsLock.RLock()
	defer pkgLevelsLock.RUnlock()

	s, ok = pkgLevels[pkg]
	return s, ok
}

// Start applies the -log and -plog flags, which must be parsed before.
func Start() error {
	if !started.SetToIf(false, true) {
		return nil
	}

	if logLevelFlag != "" {
		s := ParseLevel(logLevelFlag)
		if s == 0 {
			return fmt.Errorf("log: invalid log level %q", logLevelFlag)
		}
		SetLogLevel(s)
	}

	if pkgLogLevelsFlag != "" {
		levels, err := parsePkgLevels(pkgLogLevelsFlag)
		if err != nil {
			return err
		}
		SetPkgLevels(levels)
	}

	return nil
}

func parsePkgLevels(definition string) (map[string]Severity, error) {
	levels := make(map[string]Severity)
	for _, pair := range strings.Split(definition, ",") {
		pkg, levelName, ok := strings.Cut(pair, "=")
		s := ParseLevel(levelName)
		if !ok || pkg == "" || s == 0 {
			return nil, fmt.Errorf("log: invalid package log level %q", pair)
		}
		levels[strings.TrimSpace(pkg)] = s
	}
	return levels, nil
}

// Shutdown stops logging. Lines logged afterwards are dropped.
func Shutdown() {
	stopped.Set()
}
