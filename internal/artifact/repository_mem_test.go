package artifact

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memoryRepo is an in-memory Repository for tests.
type memoryRepo struct {
	mu    sync.Mutex
	items map[string]Artifact
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[string]Artifact)}
}

func (r *memoryRepo) Create(_ context.Context, a *Artifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; ok {
		return ErrAlreadyExists
	}
	a.CreatedAt = time.Now()
	r.items[a.ID] = *a
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memoryRepo) Recent(_ context.Context, limit int) ([]Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]Artifact, 0, len(r.items))
	for _, a := range r.items {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
