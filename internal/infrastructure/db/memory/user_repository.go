// Package memory holds the in-process store. Each table has its own
// RWMutex; callers always receive copies.
package memory

import (
	"context"
	"sync"

	"github.com/flujo/pos-system/internal/core/domain"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
	order []string
}

func NewUserRepository(seed []domain.User) *UserRepository {
	r := &UserRepository{users: make(map[string]domain.User, len(seed))}
	for _, u := range seed {
		r.users[u.ID] = u
		r.order = append(r.order, u.ID)
	}
	return r
}

// List returns users in insertion order.
func (r *UserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.users[id])
	}
	return out, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u, ok := r.byEmailLocked(email); ok {
		return &u, nil
	}
	return nil, domain.ErrUserNotFound
}

// Create checks uniqueness and inserts under one write lock, so two
// concurrent creates with the same email cannot both succeed.
func (r *UserRepository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmailLocked(user.Email); ok {
		return domain.ErrDuplicateEmail
	}
	r.users[user.ID] = user
	r.order = append(r.order, user.ID)
	return nil
}

func (r *UserRepository) Update(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	if other, ok := r.byEmailLocked(user.Email); ok && other.ID != user.ID {
		return domain.ErrDuplicateEmail
	}
	r.users[user.ID] = user
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *UserRepository) byEmailLocked(email string) (domain.User, bool) {
	want := domain.NormalizeEmail(email)
	for _, u := range r.users {
		if domain.NormalizeEmail(u.Email) == want {
			return u, true
		}
	}
	return domain.User{}, false
}
