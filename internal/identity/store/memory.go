package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"aoiconsole/internal/identity/models"
	"aoiconsole/pkg/platform/sentinel"
)

// Memory is an in-memory Store for tests and local runs.
type Memory struct {
	mu    sync.RWMutex
	users map[int64]models.User
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{users: make(map[int64]models.User)}
}

func (m *Memory) List(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *Memory) FindByID(_ context.Context, id int64) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return models.User{}, sentinel.ErrNotFound
	}
	return u, nil
}

func (m *Memory) FindByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, sentinel.ErrNotFound
}

func (m *Memory) Insert(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return sentinel.ErrAlreadyUsed
		}
	}
	if _, ok := m.users[u.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	m.users[u.ID] = u
	return nil
}

func (m *Memory) Update(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.ID]; !ok {
		return sentinel.ErrNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *Memory) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(m.users, id)
	return nil
}
