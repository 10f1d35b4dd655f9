package modules

import (
	"fmt"
	"sort"
	"strings"
)

// startOrder returns all registered modules so that every module comes
// after its dependencies. Independent modules are ordered by name.
// The caller must hold modulesLock.
func startOrder() ([]*Module, error) {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		order    = make([]*Module, 0, len(modules))
		done     = make(map[string]bool, len(modules))
		visiting = make(map[string]bool)
		path     []string
	)

	var visit func(name string) error
	visit = func(name string) error {
		if done[name] {
			return nil
		}
		if visiting[name] {
			return fmt.Errorf("modules: dependency loop detected: %s -> %s", strings.Join(path, " -> "), name)
		}

		m, ok := modules[name]
		if !ok {
			return fmt.Errorf("modules: %s depends on %q, which is not registered", path[len(path)-1], name)
		}

		visiting[name] = true
		path = append(path, name)
		for _, dep := range m.depNames {
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		visiting[name] = false

		done[name] = true
		order = append(order, m)
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}
