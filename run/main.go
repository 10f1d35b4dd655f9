// Package run drives the module lifecycle of a program: start everything,
// wait for a signal, shut down.
package run

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/safing/osicons/log"
	"github.com/safing/osicons/modules"
)

const (
	forceExitSignals = 3
	shutdownTimeout  = time.Minute
)

var (
	printStackOnExit bool
	inputSignals     bool

	signalNames = map[string]os.Signal{
		"SIGHUP":  syscall.SIGHUP,
		"SIGINT":  syscall.SIGINT,
		"SIGQUIT": syscall.SIGQUIT,
		"SIGTERM": syscall.SIGTERM,
		"SIGUSR1": sigUSR1,
	}
)

func init() {
	flag.BoolVar(&printStackOnExit, "print-stack-on-exit", false, "print all goroutine stacks when shutting down")
	flag.BoolVar(&inputSignals, "input-signals", false, "read signal names, eg. SIGTERM, from stdin")
}

// Run starts all modules, waits for a shutdown signal and stops them again.
// Call it as os.Exit(run.Run()).
func Run() int {
	if err := modules.Start(); err != nil {
		if errors.Is(err, modules.ErrCleanExit) {
			return 0
		}
		if printStackOnExit {
			writeStacks(os.Stderr)
		}
		_ = modules.Shutdown()
		return modules.GetExitStatusCode()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT, sigUSR1)
	defer signal.Stop(signals)
	if inputSignals {
		go readSignals(os.Stdin, signals)
	}

	if waitForSignal(signals, modules.ShuttingDown(), os.Stderr) {
		shutdown(signals)
	}
	return modules.GetExitStatusCode()
}

// waitForSignal blocks until a shutdown signal arrives, which returns true,
// or until shutdown was started elsewhere. SIGUSR1 only writes the stacks
// to w.
func waitForSignal(signals <-chan os.Signal, shuttingDown <-chan struct{}, w io.Writer) bool {
	for {
		select {
		case sig := <-signals:
			if sig == sigUSR1 {
				_ = pprof.Lookup("goroutine").WriteTo(w, 1)
				continue
			}
			log.Warningf("run: received %s, shutting down", sig)
			return true
		case <-shuttingDown:
			return false
		}
	}
}

func shutdown(signals <-chan os.Signal) {
	go func() {
		for left := forceExitSignals; left > 0; left-- {
			<-signals
			fmt.Fprintf(os.Stderr, "already shutting down, %d more signals to force exit\n", left-1)
		}
		fmt.Fprintln(os.Stderr, "forced exit")
		writeStacks(os.Stderr)
		os.Exit(1)
	}()
	time.AfterFunc(shutdownTimeout, func() {
		fmt.Fprintf(os.Stderr, "shutdown did not finish within %s\n", shutdownTimeout)
		writeStacks(os.Stderr)
		os.Exit(1)
	})

	if printStackOnExit {
		writeStacks(os.Stderr)
	}
	_ = modules.Shutdown()
}

func readSignals(r io.Reader, signals chan<- os.Signal) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if sig, ok := signalNames[name]; ok {
			signals <- sig
		}
	}
}

func writeStacks(w io.Writer) {
	for _, profile := range []string{"goroutine", "block", "mutex"} {
		fmt.Fprintf(w, "=== %s ===\n", profile)
		_ = pprof.Lookup(profile).WriteTo(w, 1)
	}
}
