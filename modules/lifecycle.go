package modules

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/tevino/abool"

	"github.com/safing/osicons/log"
)

const workerStopTimeout = 3 * time.Second

var (
	// HelpFlag makes Start print the flag usage and return ErrCleanExit.
	HelpFlag bool

	startedModules []*Module

	shutdownFlag   = abool.New()
	shutdownSignal = make(chan struct{})

	// ErrShutdownInProgress is returned by Shutdown if it was already called.
	ErrShutdownInProgress = errors.New("shutdown already initiated")
)

func init() {
	flag.BoolVar(&HelpFlag, "help", false, "print help")
}

// Start parses the flags, starts logging and then preps and starts all
// modules. On error, the caller is expected to call Shutdown.
func Start() error {
	if !flag.Parsed() {
		flag.Parse()
	}
	if HelpFlag {
		flag.Usage()
		return ErrCleanExit
	}

	if err := log.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: failed to start logging: %s\n", err)
		SetExitStatusCode(1)
		return err
	}

	modulesLock.Lock()
	order, err := startOrder()
	modulesLock.Unlock()
	if err != nil {
		log.Critical(err.Error())
		SetExitStatusCode(1)
		return err
	}

	for _, m := range order {
		if err := m.runCtrlFn("prep", m.prep); err != nil {
			if errors.Is(err, ErrCleanExit) {
				return err
			}
			log.Criticalf("modules: failed to prep %s: %s", m.Name, err)
			SetExitStatusCode(1)
			return fmt.Errorf("modules: failed to prep %s: %w", m.Name, err)
		}
		m.setStatus(statusPrepped)
	}

	for _, m := range order {
		if err := m.runCtrlFn("start", m.start); err != nil {
			log.Criticalf("modules: failed to start %s: %s", m.Name, err)
			SetExitStatusCode(1)
			return fmt.Errorf("modules: failed to start %s: %w", m.Name, err)
		}
		m.setStatus(statusOnline)
		startedModules = append(startedModules, m)
		log.Debugf("modules: started %s", m.Name)
	}

	log.Infof("modules: started %d modules", len(startedModules))
	return nil
}

// ShuttingDown returns a channel that is closed when shutdown starts.
func ShuttingDown() <-chan struct{} {
	return shutdownSignal
}

// IsShuttingDown returns whether the global shutdown is in progress.
func IsShuttingDown() bool {
	return shutdownFlag.IsSet()
}

// Shutdown stops all started modules in reverse start order.
func Shutdown() error {
	if !shutdownFlag.SetToIf(false, true) {
		return ErrShutdownInProgress
	}
	close(shutdownSignal)
	log.Warning("modules: shutting down...")

	var result *multierror.Error
	for i := len(startedModules) - 1; i >= 0; i-- {
		if err := startedModules[i].shutdown(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	err := result.ErrorOrNil()
	if err != nil {
		log.Errorf("modules: shutdown completed with errors: %s", err)
		SetExitStatusCode(1)
	} else {
		log.Info("modules: shutdown complete")
	}

	log.Shutdown()
	return err
}

func (m *Module) shutdown() error {
	m.setStatus(statusStopping)
	m.cancelCtx()

	workersDone := make(chan struct{})
	go func() {
		m.workers.Wait()
		close(workersDone)
	}()
	select {
	case <-workersDone:
	case <-time.After(workerStopTimeout):
		log.Warningf("modules: %s: workers did not stop within %s", m.Name, workerStopTimeout)
	}

	err := m.runCtrlFn("stop", m.stop)
	m.setStatus(statusOffline)
	if err != nil {
		return fmt.Errorf("%s: %w", m.Name, err)
	}
	return nil
}
