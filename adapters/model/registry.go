package model

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"gosleuth/internal/config"
	"gosleuth/ports"
)

// Registry owns the process-wide model handles. Each weight file is loaded
// exactly once at first use and shared read-only across concurrent requests;
// there is no per-request reload or reconfiguration.
type Registry struct {
	cfg config.ModelConfig

	mu      sync.Mutex
	handles map[string]*LinearClassifier
	errs    map[string]error
}

// NewRegistry creates an empty registry over a model directory.
func NewRegistry(cfg config.ModelConfig) *Registry {
	return &Registry{
		cfg:     cfg,
		handles: make(map[string]*LinearClassifier),
		errs:    make(map[string]error),
	}
}

// Classifier returns the shared handle for a named weight file, loading it on
// first call. A load failure is sticky: agents degrade to FAILED rather than
// retrying the filesystem on every request.
func (r *Registry) Classifier(name string) (ports.Classifier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handles[name]; ok {
		return h, nil
	}
	if err, ok := r.errs[name]; ok {
		return nil, err
	}

	path := filepath.Join(r.cfg.Dir, name+".json")
	h, err := LoadLinearClassifier(path, r.cfg.InputSize)
	if err != nil {
		r.errs[name] = err
		log.Printf("[ModelRegistry] failed to load %s: %v", name, err)
		return nil, err
	}

	log.Printf("[ModelRegistry] loaded classifier %s from %s", h.ID(), path)
	r.handles[name] = h
	return h, nil
}

// Warm eagerly loads the named handles at startup so the first request does
// not pay load latency. Returns the first error but attempts every name.
func (r *Registry) Warm(names ...string) error {
	var firstErr error
	for _, name := range names {
		if _, err := r.Classifier(name); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("warm %s: %w", name, err)
		}
	}
	return firstErr
}
