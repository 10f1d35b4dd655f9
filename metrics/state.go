package metrics

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/safing/osicons/formats/dsd"
)

// ErrAlreadyInitialized is returned if persistence is enabled twice.
var ErrAlreadyInitialized = errors.New("already initialized")

// counterState is the content of the state file.
type counterState struct {
	Since    time.Time         `msgpack:"since"`
	Counters map[string]uint64 `msgpack:"counters"`
}

var (
	stateLock sync.Mutex
	statePath string
	state     *counterState
	persisted []*Counter
)

// EnableMetricPersistence makes persisted counters resume from the state in
// path and save to it on shutdown. A missing file is not an error.
func EnableMetricPersistence(path string) error {
	stateLock.Lock()
	defer stateLock.Unlock()

	if statePath != "" {
		return ErrAlreadyInitialized
	}
	statePath = path

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("metrics: failed to read state: %w", err)
	}

	loaded := &counterState{}
	if _, err := dsd.Load(data, loaded); err != nil {
		return fmt.Errorf("metrics: failed to parse state %s: %w", path, err)
	}
	state = loaded

	for _, c := range persisted {
		c.Set(state.Counters[c.LabeledID()])
	}
	return nil
}

func trackPersisted(c *Counter) {
	stateLock.Lock()
	defer stateLock.Unlock()

	persisted = append(persisted, c)
	if state != nil {
		c.Set(state.Counters[c.LabeledID()])
	}
}

// saveState writes all persisted counters to the state file, if one is set.
func saveState() error {
	stateLock.Lock()
	defer stateLock.Unlock()

	if statePath == "" {
		return nil
	}

	save := &counterState{
		Since:    time.Now(),
		Counters: make(map[string]uint64, len(persisted)),
	}
	if state != nil {
		save.Since = state.Since
	}
	for _, c := range persisted {
		save.Counters[c.LabeledID()] = c.Get()
	}

	data, err := dsd.Dump(save, dsd.MsgPack)
	if err != nil {
		return err
	}
	return os.WriteFile(statePath, data, 0o600)
}
