package metrics

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"sync"

	vm "github.com/VictoriaMetrics/metrics"

	"github.com/safing/osicons/config"
)

const prometheusName = "[a-zA-Z_][a-zA-Z0-9_]*"

var prometheusNameFormat = regexp.MustCompile("^" + prometheusName + "$")

var (
	registryLock sync.RWMutex
	registry     = make(map[string]*metric)
	open         bool
	globalLabels = make(map[string]string)
	labelsFrozen bool

	// sets holds one set per expertise level.
	sets = newSets()
)

func newSets() []*vm.Set {
	return []*vm.Set{vm.NewSet(), vm.NewSet(), vm.NewSet()}
}

// Options are the optional settings of a metric.
type Options struct {
	// Name is a human readable name.
	Name string
	// InternalID is an alternative ID for ExportValues.
	InternalID string
	// ExpertiseLevel is the lowest level that sees the metric.
	ExpertiseLevel config.ExpertiseLevel
	// Persist keeps the value of counters across restarts.
	Persist bool
}

type metric struct {
	id        string
	labeledID string
	opts      Options
	value     func() interface{}
}

// ID returns the ID the metric was registered with, eg. "osimage/lookups/total".
func (m *metric) ID() string { return m.id }

// LabeledID returns the Prometheus name with all labels.
func (m *metric) LabeledID() string { return m.labeledID }

// Opts returns the options of the metric.
func (m *metric) Opts() Options { return m.opts }

// openRegistry allows registering metrics.
func openRegistry() {
	registryLock.Lock()
	defer registryLock.Unlock()

	open = true
}

// AddGlobalLabel adds a label to all metrics registered afterwards. Labels of
// the metric itself take precedence.
func AddGlobalLabel(name, value string) error {
	if !prometheusNameFormat.MatchString(name) {
		return fmt.Errorf("%w: label name %q", ErrInvalidOptions, name)
	}

	registryLock.Lock()
	defer registryLock.Unlock()

	if labelsFrozen {
		return ErrAlreadyStarted
	}
	globalLabels[name] = value
	return nil
}

// register validates and adds a metric. create makes the metric in the
// VictoriaMetrics set and returns its value getter.
func register(id string, labels map[string]string, opts *Options, create func(set *vm.Set, name string) func() interface{}) (*metric, error) {
	if opts == nil {
		opts = &Options{}
	}
	name := strings.ReplaceAll(id, "/", "_")
	if !prometheusNameFormat.MatchString(name) {
		return nil, fmt.Errorf("%w: metric ID %q", ErrInvalidOptions, id)
	}
	for label := range labels {
		if !prometheusNameFormat.MatchString(label) {
			return nil, fmt.Errorf("%w: label name %q of %s", ErrInvalidOptions, label, id)
		}
	}

	registryLock.Lock()
	defer registryLock.Unlock()

	if !open {
		return nil, fmt.Errorf("metrics: cannot register %s before the module started", id)
	}
	labelsFrozen = true

	m := &metric{
		id:        id,
		labeledID: labeledName(name, labels),
		opts:      *opts,
	}
	if _, ok := registry[m.labeledID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRegistered, m.labeledID)
	}
	if m.opts.InternalID != "" {
		for _, other := range registry {
			if other.opts.InternalID == m.opts.InternalID {
				return nil, fmt.Errorf("%w: internal ID %s", ErrAlreadyRegistered, m.opts.InternalID)
			}
		}
	}

	m.value = create(setFor(m.opts.ExpertiseLevel), m.labeledID)
	registry[m.labeledID] = m
	return m, nil
}

// labeledName must be called with registryLock held.
func labeledName(name string, labels map[string]string) string {
	merged := make(map[string]string, len(labels)+len(globalLabels))
	for k, v := range globalLabels {
		merged[k] = v
	}
	for k, v := range labels {
		merged[k] = v
	}
	if len(merged) == 0 {
		return name
	}

	pairs := make([]string, 0, len(merged))
	for k, v := range merged {
		pairs = append(pairs, fmt.Sprintf("%s=%q", k, v))
	}
	sort.Strings(pairs)
	return name + "{" + strings.Join(pairs, ",") + "}"
}

func setFor(lvl config.ExpertiseLevel) *vm.Set {
	if int(lvl) >= len(sets) {
		return sets[len(sets)-1]
	}
	return sets[lvl]
}

// WriteMetrics writes all metrics up to the expertise level in the
// Prometheus text format.
func WriteMetrics(w io.Writer, lvl config.ExpertiseLevel) {
	registryLock.RLock()
	defer registryLock.RUnlock()

	for i, set := range sets {
		if config.ExpertiseLevel(i) <= lvl {
			set.WritePrometheus(w)
		}
	}
}

// MetricExport describes a metric and its current value.
type MetricExport struct {
	ID             string
	LabeledID      string
	Name           string
	InternalID     string `json:",omitempty"`
	ExpertiseLevel config.ExpertiseLevel
	Persist        bool
	CurrentValue   interface{}
}

// ExportMetrics returns all metrics up to the expertise level, sorted by
// their labeled ID.
func ExportMetrics(lvl config.ExpertiseLevel) []*MetricExport {
	registryLock.RLock()
	defer registryLock.RUnlock()

	exports := make([]*MetricExport, 0, len(registry))
	for _, m := range registry {
		if m.opts.ExpertiseLevel > lvl {
			continue
		}
		exports = append(exports, &MetricExport{
			ID:             m.id,
			LabeledID:      m.labeledID,
			Name:           m.opts.Name,
			InternalID:     m.opts.InternalID,
			ExpertiseLevel: m.opts.ExpertiseLevel,
			Persist:        m.opts.Persist,
			CurrentValue:   m.value(),
		})
	}
	sort.Slice(exports, func(i, j int) bool {
		return exports[i].LabeledID < exports[j].LabeledID
	})
	return exports
}

// ExportValues returns the current values by labeled ID, or by internal ID
// where one is set. With internalOnly, metrics without an internal ID are
// left out.
func ExportValues(internalOnly bool) map[string]interface{} {
	registryLock.RLock()
	defer registryLock.RUnlock()

	values := make(map[string]interface{}, len(registry))
	for _, m := range registry {
		switch {
		case m.opts.InternalID != "":
			values[m.opts.InternalID] = m.value()
		case !internalOnly:
			values[m.labeledID] = m.value()
		}
	}
	return values
}
