package resource

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Lister interface {
	ListResources(ctx context.Context) ([]Resource, error)
}

// Registry caches the resource list and owns each resource's color.
type Registry struct {
	log    *zap.Logger
	lister Lister

	mu        sync.RWMutex
	list      []Resource
	colorizer *Colorizer
}

func NewRegistry(log *zap.Logger, lister Lister) *Registry {
	return &Registry{
		log:       log,
		lister:    lister,
		colorizer: NewColorizer(),
	}
}

// Load replaces the cache with a fresh fetch and recolors every entry in order.
func (r *Registry) Load(ctx context.Context) error {
	fetched, err := r.lister.ListResources(ctx)
	if err != nil {
		return errors.Wrap(err, "fetching resources")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.colorizer.Reset()
	for idx := range fetched {
		fetched[idx].Color = r.colorizer.Next()
	}

	r.list = append(r.list[:0], fetched...)

	r.log.Debug("resources loaded", zap.Int("count", len(r.list)))
	return nil
}

// Update merges a fresh fetch into known entries only. Colors are kept,
// unknown resources are ignored and missing ones stay cached.
func (r *Registry) Update(ctx context.Context) error {
	fetched, err := r.lister.ListResources(ctx)
	if err != nil {
		return errors.Wrap(err, "fetching resources")
	}

	byID := make(map[string]Resource, len(fetched))
	for _, res := range fetched {
		if _, dup := byID[res.ID]; !dup {
			byID[res.ID] = res
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.list {
		res, ok := byID[r.list[idx].ID]
		if !ok {
			continue
		}
		res.Color = r.list[idx].Color
		r.list[idx] = res
	}

	return nil
}

// Get returns the first cached resource with the given id.
func (r *Registry) Get(id string) (Resource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, res := range r.list {
		if res.ID == id {
			return res, true
		}
	}
	return Resource{}, false
}

func (r *Registry) ColorStyle(id string) (string, bool) {
	res, ok := r.Get(id)
	if !ok {
		return "", false
	}
	return res.Color.Style(), true
}

func (r *Registry) List() []Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Resource(nil), r.list...)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.list)
}
