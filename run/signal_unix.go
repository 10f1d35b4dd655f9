//go:build !windows

package run

import (
	"golang.org/x/sys/unix"
)

var sigUSR1 = unix.SIGUSR1
