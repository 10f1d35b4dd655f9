package config

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/tevino/abool"

	"github.com/safing/osicons/log"
)

var (
	registryLock sync.RWMutex
	registry     = make(map[string]*Option)

	// validity is replaced whenever a value changes. Getters keep the flag
	// they read their value with.
	validity = abool.NewBool(true)
)

// Register adds a new option. Keys must be unique.
func Register(opt *Option) error {
	switch {
	case opt.Name == "":
		return fmt.Errorf("config: option %q has no name", opt.Key)
	case opt.Key == "" || strings.TrimSpace(opt.Key) != opt.Key:
		return fmt.Errorf("config: option %q has an invalid key", opt.Key)
	case opt.Description == "":
		return fmt.Errorf("config: option %s has no description", opt.Key)
	case opt.OptType.String() == "unknown":
		return fmt.Errorf("config: option %s has no valid type", opt.Key)
	}

	if opt.ValidationRegex != "" {
		re, err := regexp.Compile(opt.ValidationRegex)
		if err != nil {
			return fmt.Errorf("config: option %s has an invalid validation regex: %w", opt.Key, err)
		}
		opt.regex = re
	}
	if opt.DefaultValue != nil {
		v, err := normalize(opt, opt.DefaultValue)
		if err != nil {
			return fmt.Errorf("config: option %s has an invalid default: %w", opt.Key, err)
		}
		opt.defaultValue = v
	}

	registryLock.Lock()
	defer registryLock.Unlock()

	if _, ok := registry[opt.Key]; ok {
		return fmt.Errorf("config: option %s is already registered", opt.Key)
	}
	registry[opt.Key] = opt
	return nil
}

// ExportOptions returns all options sorted by key.
func ExportOptions() []*Option {
	registryLock.RLock()
	defer registryLock.RUnlock()

	opts := make([]*Option, 0, len(registry))
	for _, opt := range registry {
		opts = append(opts, opt)
	}
	sort.Slice(opts, func(i, j int) bool {
		return opts[i].Key < opts[j].Key
	})
	return opts
}

// SetConfigOption sets the value of an option. A nil value resets the option
// to its default. The config file is saved if one is in use.
func SetConfigOption(key string, value interface{}) error {
	registryLock.Lock()
	opt, ok := registry[key]
	if !ok {
		registryLock.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownOption, key)
	}

	var normalized interface{}
	if value != nil {
		var err error
		normalized, err = normalize(opt, value)
		if err != nil {
			registryLock.Unlock()
			return err
		}
	}
	opt.value = normalized
	invalidateGetters()
	registryLock.Unlock()

	log.Infof("config: set %s", key)
	return saveConfigFile()
}

// replaceValues replaces all set values with the given ones. Values for
// unknown options are dropped and invalid values are skipped. All problems
// are returned together.
func replaceValues(values map[string]interface{}) error {
	var errs *multierror.Error

	registryLock.Lock()
	for key := range values {
		if _, ok := registry[key]; !ok {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s", ErrUnknownOption, key))
		}
	}
	for key, opt := range registry {
		opt.value = nil
		v, ok := values[key]
		if !ok || v == nil {
			continue
		}
		normalized, err := normalize(opt, v)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		opt.value = normalized
	}
	invalidateGetters()
	registryLock.Unlock()

	return errs.ErrorOrNil()
}

// setValues returns all values that differ from the defaults.
func setValues() map[string]interface{} {
	registryLock.RLock()
	defer registryLock.RUnlock()

	values := make(map[string]interface{})
	for key, opt := range registry {
		if opt.value != nil {
			values[key] = opt.value
		}
	}
	return values
}

// invalidateGetters must be called with registryLock held.
func invalidateGetters() {
	validity.UnSet()
	validity = abool.NewBool(true)
}

func currentValidity() *abool.AtomicBool {
	registryLock.RLock()
	defer registryLock.RUnlock()

	return validity
}
