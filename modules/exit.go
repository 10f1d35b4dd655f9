package modules

import "sync/atomic"

var exitStatusCode atomic.Int32

// SetExitStatusCode sets the exit code the program should return.
func SetExitStatusCode(n int) {
	exitStatusCode.Store(int32(n))
}

// GetExitStatusCode returns the exit code the program should return.
func GetExitStatusCode() int {
	return int(exitStatusCode.Load())
}
