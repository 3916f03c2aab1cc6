package users

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repository for tests and local runs without Postgres.
type MemoryRepo struct {
	mu    sync.Mutex
	users map[string]User

	// StatusErr, when set, is returned by SetStatus.
	StatusErr error
}

func NewMemoryRepo(seed ...User) *MemoryRepo {
	r := &MemoryRepo{users: make(map[string]User, len(seed))}
	for _, u := range seed {
		r.users[u.EmployeeID] = u
	}
	return r
}

func (r *MemoryRepo) Put(u User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.EmployeeID] = u
}

func (r *MemoryRepo) FindByEmployeeID(_ context.Context, employeeID string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[employeeID]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepo) List(_ context.Context) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, c Changes) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[c.EmployeeID]
	if !ok {
		return User{}, ErrNotFound
	}
	u = c.apply(u)
	r.users[u.EmployeeID] = u
	return u, nil
}

func (r *MemoryRepo) SetStatus(_ context.Context, employeeID string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.StatusErr != nil {
		return r.StatusErr
	}
	u, ok := r.users[employeeID]
	if !ok {
		return ErrNotFound
	}
	u.Status = status
	r.users[employeeID] = u
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[employeeID]; !ok {
		return ErrNotFound
	}
	delete(r.users, employeeID)
	return nil
}
