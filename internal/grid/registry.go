package grid

import (
	"fmt"
	"sort"
	"strconv"
)

// Factory constructs an Evaluator using an optional option map.
type Factory func(opts map[string]string) Evaluator

var evaluators = map[string]Factory{}

// Register adds an evaluator factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	evaluators[name] = f
}

// Evaluators exposes the registry of available evaluation strategies.
func Evaluators() map[string]Factory {
	return evaluators
}

// Strategies lists the registered strategy names in sorted order.
func Strategies() []string {
	names := make([]string, 0, len(evaluators))
	for name := range evaluators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the evaluator registered under name.
func New(name string, opts map[string]string) (Evaluator, error) {
	f, ok := evaluators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return f(opts), nil
}

func init() {
	Register("sequential", func(map[string]string) Evaluator { return Sequential{} })
	Register("tiled", func(opts map[string]string) Evaluator {
		workers := 0
		if v, ok := opts["workers"]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				workers = parsed
			}
		}
		return NewTiled(workers)
	})
}
