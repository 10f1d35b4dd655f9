package run

import (
	"syscall"
)

// Windows has no SIGUSR1.
var sigUSR1 = syscall.Signal(0xa)
