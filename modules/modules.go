// Package modules manages the lifecycle of the parts of a program. Modules
// are prepped and started in dependency order and stopped in reverse.
package modules

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

type moduleStatus int32

const (
	statusRegistered moduleStatus = iota
	statusPrepped
	statusOnline
	statusStopping
	statusOffline
)

var (
	modulesLock sync.Mutex
	modules     = make(map[string]*Module)

	// ErrCleanExit is returned by Start when the program should exit without
	// an error before starting, eg. when the "-help" flag was given.
	ErrCleanExit = errors.New("clean exit requested")
)

// Module is a part of the program with its own lifecycle.
type Module struct {
	Name string

	// Ctx is canceled as soon as the module starts stopping.
	// Workers receive it.
	Ctx       context.Context
	cancelCtx context.CancelFunc

	prep  func() error
	start func() error
	stop  func() error

	depNames []string
	status   atomic.Int32
	workers  sync.WaitGroup
}

// Register registers a new module. All control functions are optional.
// stop is called after all workers of the module finished.
func Register(name string, prep, start, stop func() error, dependencies ...string) *Module {
	ctx, cancelCtx := context.WithCancel(context.Background())
	m := &Module{
		Name:      name,
		Ctx:       ctx,
		cancelCtx: cancelCtx,
		prep:      orNoop(prep),
		start:     orNoop(start),
		stop:      orNoop(stop),
		depNames:  dependencies,
	}

	modulesLock.Lock()
	defer modulesLock.Unlock()
	modules[name] = m

	return m
}

func orNoop(fn func() error) func() error {
	if fn == nil {
		return func() error { return nil }
	}
	return fn
}

func (m *Module) getStatus() moduleStatus {
	return moduleStatus(m.status.Load())
}

func (m *Module) setStatus(s moduleStatus) {
	m.status.Store(int32(s))
}

// Online returns whether the module is started and not yet stopping.
func (m *Module) Online() bool {
	return m.getStatus() == statusOnline
}

// IsStopping returns whether the module is stopping or stopped.
func (m *Module) IsStopping() bool {
	return m.getStatus() >= statusStopping
}
