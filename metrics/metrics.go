// Package metrics counts what the service does and exposes the numbers in
// the Prometheus text format. Metrics are grouped by the expertise level
// they are meant for; counters can be persisted across restarts.
package metrics

import (
	"errors"
	"fmt"

	"github.com/safing/osicons/log"
	"github.com/safing/osicons/modules"
)

var (
	module *modules.Module

	// ErrAlreadyRegistered is returned for duplicate metrics.
	ErrAlreadyRegistered = errors.New("metric already registered")
	// ErrAlreadyStarted is returned when global labels are changed after
	// the first metric was registered.
	ErrAlreadyStarted = errors.New("can only be changed before the first metric is registered")
	// ErrInvalidOptions is returned for unusable metric definitions.
	ErrInvalidOptions = errors.New("invalid options")
)

func init() {
	module = modules.Register("metrics", prep, start, stop, "api")
}

func prep() error {
	if err := registerConfig(); err != nil {
		return err
	}
	return registerAPI()
}

func start() error {
	if instance := instanceOption(); instance != "" {
		if err := AddGlobalLabel("instance", instance); err != nil {
			return err
		}
	}
	if stateFileFlag != "" {
		if err := EnableMetricPersistence(stateFileFlag); err != nil {
			return err
		}
	}

	openRegistry()
	if err := registerBuiltinMetrics(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	if pushURL := pushOption(); pushURL != "" {
		module.StartServiceWorker("metrics pusher", 0, pushMetrics(pushURL))
	}
	return nil
}

func stop() error {
	if err := saveState(); err != nil {
		log.Warningf("metrics: failed to save counters: %s", err)
	}
	return nil
}
