package modules

import (
	"context"
	"errors"
	"time"

	"github.com/safing/osicons/log"
)

const (
	// DefaultBackoffDuration is the base wait time before a failed service
	// worker is restarted.
	DefaultBackoffDuration = 2 * time.Second

	maxBackoffFactor = 10
)

// StartWorker runs fn in a new goroutine. Errors are logged.
func (m *Module) StartWorker(name string, fn func(context.Context) error) {
	if !m.addWorker() {
		return
	}

	go func() {
		defer m.workers.Done()

		err := m.runWorker(name, fn)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warningf("%s: worker %s failed: %s", m.Name, name, err)
		}
	}()
}

// StartServiceWorker runs fn in a new goroutine and restarts it whenever it
// fails. The wait before a restart grows with each consecutive failure.
// Pass 0 as backoff to use DefaultBackoffDuration.
// Returning nil or context.Canceled ends the service worker.
func (m *Module) StartServiceWorker(name string, backoff time.Duration, fn func(context.Context) error) {
	if !m.addWorker() {
		return
	}
	if backoff == 0 {
		backoff = DefaultBackoffDuration
	}

	go func() {
		defer m.workers.Done()

		failures := 0
		for {
			err := m.runWorker(name, fn)
			if err == nil || errors.Is(err, context.Canceled) {
				return
			}

			if failures < maxBackoffFactor {
				failures++
			}
			wait := time.Duration(failures) * backoff
			log.Errorf("%s: service worker %s failed (restarting in %s): %s", m.Name, name, wait, err)

			select {
			case <-m.Ctx.Done():
				return
			case <-time.After(wait):
			}
		}
	}()
}

func (m *Module) addWorker() bool {
	if m.IsStopping() {
		return false
	}
	m.workers.Add(1)
	return true
}

func (m *Module) runWorker(name string, fn func(context.Context) error) (err error) {
	defer func() {
		if panicVal := recover(); panicVal != nil {
			me := m.newPanicError(name, "worker", panicVal)
			me.Report()
			err = me
		}
	}()

	return fn(m.Ctx)
}

func (m *Module) runCtrlFn(name string, fn func() error) (err error) {
	defer func() {
		if panicVal := recover(); panicVal != nil {
			me := m.newPanicError(name, "module-control", panicVal)
			me.Report()
			err = me
		}
	}()

	return fn()
}
