package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/MikeSquared-Agency/Pledge/internal/allocation"
)

// Registry holds the catalog currently in effect and swaps it on reload.
// Readers always get a full snapshot, never a half-updated list.
type Registry struct {
	source Source
	logger *slog.Logger

	// reloadMu serialises Reload so a slow fetch cannot overwrite a newer one.
	reloadMu sync.Mutex

	mu         sync.RWMutex
	categories []allocation.Category
	listeners  []func([]allocation.Category)
}

func NewRegistry(source Source, logger *slog.Logger) *Registry {
	return &Registry{source: source, logger: logger}
}

// Reload fetches the catalog from the source. On failure the previous
// catalog stays in effect. Concurrent reloads run one after another;
// listeners must not call Reload.
func (r *Registry) Reload(ctx context.Context) ([]allocation.Category, error) {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	cats, err := r.source.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if err := allocation.ValidateCatalog(cats); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	r.mu.Lock()
	r.categories = slices.Clone(cats)
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	r.logger.Info("catalog loaded", "categories", len(cats))
	for _, fn := range listeners {
		fn(slices.Clone(cats))
	}
	return slices.Clone(cats), nil
}

// OnReload registers fn to run after every successful reload.
func (r *Registry) OnReload(fn func([]allocation.Category)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// Categories returns a copy of the current catalog, or ErrInvalidCatalog
// if none has been loaded yet.
func (r *Registry) Categories() ([]allocation.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.categories) == 0 {
		return nil, fmt.Errorf("catalog not loaded: %w", allocation.ErrInvalidCatalog)
	}
	return slices.Clone(r.categories), nil
}
