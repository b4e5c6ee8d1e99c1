package gpu

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"morphgrid/internal/core"
)

// Library compiles kernels on first use and caches them by key.
// Library is safe for concurrent use.
type Library struct {
	mu      sync.Mutex
	kernels map[KernelKey]*Kernel
}

// NewLibrary returns an empty kernel cache.
func NewLibrary() *Library {
	return &Library{kernels: make(map[KernelKey]*Kernel)}
}

// Kernel returns the compiled kernel for key, compiling it if needed.
func (l *Library) Kernel(key KernelKey) (*Kernel, error) {
	l.mu.Lock()
	k, ok := l.kernels[key]
	l.mu.Unlock()
	if ok {
		return k, nil
	}

	start := time.Now()
	k, err := Compile(key)
	if err != nil {
		return nil, err
	}
	core.Logger().Info("compiled kernel", "kernel", key.String(),
		"words", len(k.SPIRV), "took", time.Since(start))

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.kernels[key]; ok {
		return existing, nil
	}
	l.kernels[key] = k
	return k, nil
}

// Len returns the number of cached kernels.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.kernels)
}

// Precompile compiles every key in Keys using up to workers goroutines and
// returns the first error.
func (l *Library) Precompile(workers int) error {
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, key := range Keys() {
		g.Go(func() error {
			_, err := l.Kernel(key)
			return err
		})
	}
	return g.Wait()
}
