package run

import (
	"bytes"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadSignals(t *testing.T) {
	t.Parallel()

	signals := make(chan os.Signal, 4)
	readSignals(strings.NewReader("SIGTERM\nSIGKILL\n sigusr1 \n\nSIGHUP\n"), signals)
	close(signals)

	var got []os.Signal
	for sig := range signals {
		got = append(got, sig)
	}
	assert.Equal(t, []os.Signal{syscall.SIGTERM, sigUSR1, syscall.SIGHUP}, got)
}

func TestWaitForSignal(t *testing.T) {
	t.Parallel()

	signals := make(chan os.Signal, 2)
	signals <- sigUSR1
	signals <- syscall.SIGTERM

	var stacks bytes.Buffer
	assert.True(t, waitForSignal(signals, make(chan struct{}), &stacks))
	assert.Contains(t, stacks.String(), "goroutine")

	shuttingDown := make(chan struct{})
	time.AfterFunc(10*time.Millisecond, func() { close(shuttingDown) })
	assert.False(t, waitForSignal(make(chan os.Signal), shuttingDown, &stacks))
}

func TestWriteStacks(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	writeStacks(&buf)
	assert.Contains(t, buf.String(), "=== goroutine ===")
	assert.Contains(t, buf.String(), "=== mutex ===")
}
