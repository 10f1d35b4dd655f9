package config

import "sync"

type (
	// StringOption returns the current value of a string option.
	StringOption func() string
	// StringArrayOption returns the current value of a []string option.
	StringArrayOption func() []string
	// IntOption returns the current value of an int option.
	IntOption func() int64
	// BoolOption returns the current value of a bool option.
	BoolOption func() bool
)

// GetAsString returns a getter for a string option. The getter caches the
// value until the config changes and must not be shared between goroutines.
// Use Concurrent for that.
func GetAsString(key, fallback string) StringOption {
	return cachedGetter(key, fallback, false)
}

// GetAsStringArray is like GetAsString for []string options.
func GetAsStringArray(key string, fallback []string) StringArrayOption {
	return cachedGetter(key, fallback, false)
}

// GetAsInt is like GetAsString for int options.
func GetAsInt(key string, fallback int64) IntOption {
	return cachedGetter(key, fallback, false)
}

// GetAsBool is like GetAsString for bool options.
func GetAsBool(key string, fallback bool) BoolOption {
	return cachedGetter(key, fallback, false)
}

type concurrentGetters struct{}

// Concurrent returns getters that may be used by many goroutines.
var Concurrent concurrentGetters

// GetAsString returns a getter for a string option.
func (concurrentGetters) GetAsString(key, fallback string) StringOption {
	return cachedGetter(key, fallback, true)
}

// GetAsStringArray returns a getter for a []string option.
func (concurrentGetters) GetAsStringArray(key string, fallback []string) StringArrayOption {
	return cachedGetter(key, fallback, true)
}

// GetAsInt returns a getter for an int option.
func (concurrentGetters) GetAsInt(key string, fallback int64) IntOption {
	return cachedGetter(key, fallback, true)
}

// GetAsBool returns a getter for a bool option.
func (concurrentGetters) GetAsBool(key string, fallback bool) BoolOption {
	return cachedGetter(key, fallback, true)
}

func cachedGetter[T any](key string, fallback T, locked bool) func() T {
	var (
		lock  sync.Mutex
		valid = currentValidity()
		value = lookup(key, fallback)
	)

	return func() T {
		if locked {
			lock.Lock()
			defer lock.Unlock()
		}

		if !valid.IsSet() {
			valid = currentValidity()
			value = lookup(key, fallback)
		}
		return value
	}
}

func lookup[T any](key string, fallback T) T {
	registryLock.RLock()
	defer registryLock.RUnlock()

	opt, ok := registry[key]
	if !ok {
		return fallback
	}
	v, ok := opt.activeValue().(T)
	if !ok {
		return fallback
	}
	return v
}
