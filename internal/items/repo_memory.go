package items

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repository for tests and local runs without Postgres.
type MemoryRepo struct {
	mu     sync.Mutex
	items  map[int64]Item
	nextID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: map[int64]Item{}}
}

func (r *MemoryRepo) Create(_ context.Context, it Item) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	it.ID = r.nextID
	r.items[it.ID] = it.clone()
	return it.clone(), nil
}

func (r *MemoryRepo) Get(_ context.Context, id int64) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return it.clone(), nil
}

func (r *MemoryRepo) List(_ context.Context, state State) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Item{}
	for _, it := range r.items {
		if state == "" || it.State == state {
			out = append(out, it.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, it Item) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[it.ID]; !ok {
		return Item{}, ErrNotFound
	}
	r.items[it.ID] = it.clone()
	return it.clone(), nil
}
