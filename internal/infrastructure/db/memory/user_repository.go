// Package memory provides a process-local UserRepository for development
// and tests. It enforces the same uniqueness constraints as the real stores.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/portal/user-accounts/internal/core/domain"
)

type UserRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.User
	names map[string]string // username -> id
	mails map[string]string // email -> id
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:  make(map[string]*domain.User),
		names: make(map[string]string),
		mails: make(map[string]string),
	}
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.names[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *UserRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.names[username]
	return ok, nil
}

func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.mails[email]
	return ok, nil
}

func (r *UserRepository) Save(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		if _, ok := r.names[user.Username]; ok {
			return fmt.Errorf("save user: %w: %w", domain.ErrConflict, domain.ErrUsernameTaken)
		}
		if _, ok := r.mails[user.Email]; ok {
			return fmt.Errorf("save user: %w: %w", domain.ErrConflict, domain.ErrEmailRegistered)
		}
		user.ID = uuid.NewString()
		clone := *user
		r.byID[user.ID] = &clone
		r.names[user.Username] = user.ID
		r.mails[user.Email] = user.ID
		return nil
	}

	existing, ok := r.byID[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if id, ok := r.names[user.Username]; ok && id != user.ID {
		return fmt.Errorf("save user: %w: %w", domain.ErrConflict, domain.ErrUsernameTaken)
	}
	if id, ok := r.mails[user.Email]; ok && id != user.ID {
		return fmt.Errorf("save user: %w: %w", domain.ErrConflict, domain.ErrEmailRegistered)
	}

	delete(r.names, existing.Username)
	delete(r.mails, existing.Email)
	clone := *user
	r.byID[user.ID] = &clone
	r.names[user.Username] = user.ID
	r.mails[user.Email] = user.ID
	return nil
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		clone := *u
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// Ping always succeeds; it lets the memory store take part in readiness checks.
func (r *UserRepository) Ping(context.Context) error {
	return nil
}
