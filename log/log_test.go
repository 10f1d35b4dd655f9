package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	setOutput(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slogLevelTrace}))
	previousLevel := GetLogLevel()

	t.Cleanup(func() {
		setOutput(newConsoleHandler(&bytes.Buffer{}, true))
		SetLogLevel(previousLevel)
		UnSetPkgLevels()
	})
	return buf
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]Severity{
		"trace":     TraceLevel,
		"DEBUG":     DebugLevel,
		" info ":    InfoLevel,
		"warning":   WarningLevel,
		"error":     ErrorLevel,
		"critical":  CriticalLevel,
		"verbose":   0,
		"":          0,
		"warn":      0,
		"critical!": 0,
	} {
		assert.Equal(t, want, ParseLevel(name), name)
	}

	assert.Equal(t, "warning", WarningLevel.Name())
	assert.Equal(t, "none", Severity(0).Name())
}

func TestSeverityMapping(t *testing.T) {
	t.Parallel()

	for s := TraceLevel; s <= CriticalLevel; s++ {
		assert.Equal(t, s, severityOf(s.slogLevel()), s.Name())
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureOutput(t)
	SetLogLevel(InfoLevel)

	Debugf("hidden %d", 1)
	Infof("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden 1")
	assert.Contains(t, buf.String(), "shown 2")

	// Libraries using slog directly are filtered too.
	slog.Debug("library detail")
	slog.Info("library info")
	assert.NotContains(t, buf.String(), "library detail")
	assert.Contains(t, buf.String(), "library info")
}

func TestUnexpectedLogs(t *testing.T) {
	buf := captureOutput(t)
	SetLogLevel(InfoLevel)

	warnings := TotalWarningLogLines()
	errs := TotalErrorLogLines()
	crits := TotalCriticalLogLines()

	Warning("first warning")
	Errorf("error %s", "one")
	Critical("critical one")
	assert.Contains(t, buf.String(), "first warning")

	assert.Equal(t, warnings+1, TotalWarningLogLines())
	assert.Equal(t, errs+1, TotalErrorLogLines())
	assert.Equal(t, crits+1, TotalCriticalLogLines())

	lines := GetLastUnexpectedLogs()
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[len(lines)-1], "critical critical one")

	// Only the latest lines are kept.
	for i := 0; i < unexpectedLogsSize+5; i++ {
		Warningf("warning %d", i)
	}
	lines = GetLastUnexpectedLogs()
	assert.Len(t, lines, unexpectedLogsSize)
	assert.Contains(t, lines[len(lines)-1], "warning 14")
}

func TestPkgLevels(t *testing.T) {
	buf := captureOutput(t)
	SetLogLevel(WarningLevel)

	Trace("trace without package level")
	assert.NotContains(t, buf.String(), "trace without package level")

	SetPkgLevels(map[string]Severity{"log": TraceLevel})
	Trace("trace with package level")
	assert.Contains(t, buf.String(), "trace with package level")

	SetPkgLevels(map[string]Severity{"api": TraceLevel})
	Info("info of other package")
	assert.NotContains(t, buf.String(), "info of other package")
}

func TestParsePkgLevels(t *testing.T) {
	t.Parallel()

	levels, err := parsePkgLevels("api=trace,osimage=debug")
	require.NoError(t, err)
	assert.Equal(t, map[string]Severity{"api": TraceLevel, "osimage": DebugLevel}, levels)

	_, err = parsePkgLevels("api")
	assert.Error(t, err)
	_, err = parsePkgLevels("api=loud")
	assert.Error(t, err)
	_, err = parsePkgLevels("=info")
	assert.Error(t, err)
}
