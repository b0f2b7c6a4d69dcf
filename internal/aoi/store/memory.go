package store

import (
	"context"
	"sort"
	"sync"

	"aoiconsole/internal/aoi/models"
	"aoiconsole/pkg/platform/sentinel"
)

// Memory is an in-memory Store for tests and redis-less local runs.
// tableOrder keeps creation order, which is the order clients see.
type Memory struct {
	mu              sync.RWMutex
	tables          map[int64]models.RecordTable
	tableOrder      []int64
	recommendations map[int64]models.Recommendation
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		tables:          make(map[int64]models.RecordTable),
		recommendations: make(map[int64]models.Recommendation),
	}
}

func (m *Memory) ListTables(_ context.Context, year int) ([]models.RecordTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.RecordTable, 0)
	for _, id := range m.tableOrder {
		t, ok := m.tables[id]
		if ok && t.Year == year {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *Memory) FindTable(_ context.Context, id int64) (models.RecordTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[id]
	if !ok {
		return models.RecordTable{}, sentinel.ErrNotFound
	}
	return t, nil
}

func (m *Memory) InsertTable(_ context.Context, t models.RecordTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[t.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	m.tables[t.ID] = t
	m.tableOrder = append(m.tableOrder, t.ID)
	return nil
}

func (m *Memory) UpdateTable(_ context.Context, t models.RecordTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[t.ID]; !ok {
		return sentinel.ErrNotFound
	}
	m.tables[t.ID] = t
	return nil
}

func (m *Memory) DeleteTable(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(m.tables, id)
	for i, oid := range m.tableOrder {
		if oid == id {
			m.tableOrder = append(m.tableOrder[:i], m.tableOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) ListByTable(_ context.Context, tableID int64) ([]models.Recommendation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Recommendation, 0)
	for _, rec := range m.recommendations {
		if rec.TableID == tableID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out, nil
}

func (m *Memory) CountByKind(_ context.Context, tableID int64, kind models.Kind) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, rec := range m.recommendations {
		if rec.TableID == tableID && rec.Kind == kind {
			n++
		}
	}
	return n, nil
}

func (m *Memory) FindRecommendation(_ context.Context, id int64) (models.Recommendation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.recommendations[id]
	if !ok {
		return models.Recommendation{}, sentinel.ErrNotFound
	}
	return rec, nil
}

func (m *Memory) InsertRecommendation(_ context.Context, rec models.Recommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recommendations[rec.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	m.recommendations[rec.ID] = rec
	return nil
}

func (m *Memory) UpdateRecommendation(_ context.Context, rec models.Recommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recommendations[rec.ID]; !ok {
		return sentinel.ErrNotFound
	}
	m.recommendations[rec.ID] = rec
	return nil
}

func (m *Memory) DeleteRecommendation(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recommendations[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(m.recommendations, id)
	return nil
}

func (m *Memory) DeleteByTable(_ context.Context, tableID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, rec := range m.recommendations {
		if rec.TableID == tableID {
			delete(m.recommendations, id)
		}
	}
	return nil
}
