package store

import (
	"context"
	"sort"
	"sync"

	"aoiconsole/internal/document/models"
	"aoiconsole/pkg/platform/sentinel"
)

// Memory is an in-memory Store for tests and local runs.
type Memory struct {
	mu        sync.RWMutex
	documents map[string]models.Document
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{documents: make(map[string]models.Document)}
}

func (m *Memory) List(_ context.Context, q Query) ([]models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Document, 0)
	for _, d := range m.documents {
		if q.RecommendationID != 0 && d.RecommendationID != q.RecommendationID {
			continue
		}
		if q.Year != 0 && d.Year != q.Year {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.Before(out[j].UploadedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) Find(_ context.Context, id string) (models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.documents[id]
	if !ok {
		return models.Document{}, sentinel.ErrNotFound
	}
	return d, nil
}

func (m *Memory) Insert(_ context.Context, d models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.documents[d.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	m.documents[d.ID] = d
	return nil
}

func (m *Memory) Update(_ context.Context, d models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.documents[d.ID]; !ok {
		return sentinel.ErrNotFound
	}
	m.documents[d.ID] = d
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.documents[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(m.documents, id)
	return nil
}

func (m *Memory) DeleteByRecommendation(_ context.Context, recommendationID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, d := range m.documents {
		if d.RecommendationID == recommendationID {
			delete(m.documents, id)
		}
	}
	return nil
}
