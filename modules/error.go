package modules

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/safing/osicons/log"
)

var lastReportedError atomic.Pointer[ModuleError]

// ModuleError describes a panic in a module task.
type ModuleError struct {
	ModuleName string
	TaskName   string
	TaskType   string // "worker" or "module-control"

	PanicValue interface{}
	StackTrace string
}

func (m *Module) newPanicError(taskName, taskType string, panicValue interface{}) *ModuleError {
	return &ModuleError{
		ModuleName: m.Name,
		TaskName:   taskName,
		TaskType:   taskType,
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
	}
}

// Error returns the string representation of the error.
func (me *ModuleError) Error() string {
	return fmt.Sprintf("%s: %s %s panicked: %v", me.ModuleName, me.TaskType, me.TaskName, me.PanicValue)
}

// Report logs the error and remembers it as the last reported error.
func (me *ModuleError) Report() {
	lastReportedError.Store(me)
	log.Errorf("modules: %s\n%s", me.Error(), me.StackTrace)
}

// GetLastReportedError returns the last reported module error, or nil.
func GetLastReportedError() *ModuleError {
	return lastReportedError.Load()
}
