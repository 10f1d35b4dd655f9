package metrics

import (
	"fmt"

	vm "github.com/VictoriaMetrics/metrics"
)

// Counter is a counter the service increments itself.
type Counter struct {
	*metric
	*vm.Counter
}

// NewCounter registers a new counter. Counters with Options.Persist resume
// from their saved value.
func NewCounter(id string, labels map[string]string, opts *Options) (*Counter, error) {
	c := &Counter{}
	m, err := register(id, labels, opts, func(set *vm.Set, name string) func() interface{} {
		c.Counter = set.NewCounter(name)
		return func() interface{} { return c.Get() }
	})
	if err != nil {
		return nil, err
	}
	c.metric = m

	if c.opts.Persist {
		trackPersisted(c)
	}
	return c, nil
}

// CurrentValue returns the current count.
func (c *Counter) CurrentValue() uint64 {
	return c.Get()
}

// FetchingCounter is a counter whose value is read from fn.
type FetchingCounter struct {
	*metric
	fn func() uint64
}

// NewFetchingCounter registers a counter that reads its value from fn.
func NewFetchingCounter(id string, labels map[string]string, fn func() uint64, opts *Options) (*FetchingCounter, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: %s has no fetch function", ErrInvalidOptions, id)
	}

	m, err := register(id, labels, opts, func(set *vm.Set, name string) func() interface{} {
		set.NewGauge(name, func() float64 { return float64(fn()) })
		return func() interface{} { return fn() }
	})
	if err != nil {
		return nil, err
	}
	return &FetchingCounter{metric: m, fn: fn}, nil
}

// CurrentValue returns the current count.
func (fc *FetchingCounter) CurrentValue() uint64 {
	return fc.fn()
}

// Gauge is a metric whose value is read from fn.
type Gauge struct {
	*metric
	fn func() float64
}

// NewGauge registers a gauge that reads its value from fn.
func NewGauge(id string, labels map[string]string, fn func() float64, opts *Options) (*Gauge, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: %s has no fetch function", ErrInvalidOptions, id)
	}

	m, err := register(id, labels, opts, func(set *vm.Set, name string) func() interface{} {
		set.NewGauge(name, fn)
		return func() interface{} { return fn() }
	})
	if err != nil {
		return nil, err
	}
	return &Gauge{metric: m, fn: fn}, nil
}

// CurrentValue returns the current value.
func (g *Gauge) CurrentValue() float64 {
	return g.fn()
}
