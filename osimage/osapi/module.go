// Package osapi exposes the OS icon lookup via the API.
package osapi

import (
	"github.com/safing/osicons/modules"
)

var module *modules.Module

func init() {
	module = modules.Register("osapi", prep, start, nil, "api", "metrics")
}

func prep() error {
	if err := registerConfig(); err != nil {
		return err
	}

	return registerEndpoints(module)
}

func start() error {
	return registerMetrics()
}
