package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"aoiconsole/internal/org/models"
	"aoiconsole/pkg/platform/sentinel"
)

// Memory keeps the hierarchy in maps guarded by a RWMutex. It favors clarity
// over performance; the dataset is small (tens of nodes per year).
type Memory struct {
	mu              sync.RWMutex
	directorates    map[int64]models.Directorate
	subdirectorates map[int64]models.Subdirectorate
	divisions       map[int64]models.Division
}

// NewMemory creates an empty in-memory hierarchy store.
func NewMemory() *Memory {
	return &Memory{
		directorates:    make(map[int64]models.Directorate),
		subdirectorates: make(map[int64]models.Subdirectorate),
		divisions:       make(map[int64]models.Division),
	}
}

func (s *Memory) ListDirectorates(_ context.Context, year int) ([]models.Directorate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Directorate, 0)
	for _, d := range s.directorates {
		if d.Year == year && d.Active {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Memory) ListSubdirectorates(_ context.Context, year int) ([]models.Subdirectorate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Subdirectorate, 0)
	for _, sd := range s.subdirectorates {
		if sd.Year == year && sd.Active {
			out = append(out, sd)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Memory) ListDivisions(_ context.Context, year int) ([]models.Division, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Division, 0)
	for _, dv := range s.divisions {
		if dv.Year == year && dv.Active {
			out = append(out, dv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Memory) SubdirectoratesOf(_ context.Context, directorateID int64, year int) ([]models.Subdirectorate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Subdirectorate, 0)
	for _, sd := range s.subdirectorates {
		if sd.DirectorateID == directorateID && sd.Year == year && sd.Active {
			out = append(out, sd)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Memory) DivisionsOf(_ context.Context, subdirectorateID int64, year int) ([]models.Division, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Division, 0)
	for _, dv := range s.divisions {
		if dv.SubdirectorateID == subdirectorateID && dv.Year == year && dv.Active {
			out = append(out, dv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Memory) FindDirectorateByID(_ context.Context, id int64, year int) (models.Directorate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.directorates[id]; ok && d.Year == year && d.Active {
		return d, nil
	}
	return models.Directorate{}, sentinel.ErrNotFound
}

func (s *Memory) FindSubdirectorateByID(_ context.Context, id int64, year int) (models.Subdirectorate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sd, ok := s.subdirectorates[id]; ok && sd.Year == year && sd.Active {
		return sd, nil
	}
	return models.Subdirectorate{}, sentinel.ErrNotFound
}

func (s *Memory) FindSubdirectorateByName(_ context.Context, name string, year int) (models.Subdirectorate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sd := range s.subdirectorates {
		if sd.Name == name && sd.Year == year && sd.Active {
			return sd, nil
		}
	}
	return models.Subdirectorate{}, sentinel.ErrNotFound
}

func (s *Memory) InsertDirectorate(_ context.Context, d models.Directorate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.directorates {
		if existing.Year == d.Year && strings.EqualFold(existing.Name, d.Name) {
			return sentinel.ErrAlreadyUsed
		}
	}
	s.directorates[d.ID] = d
	return nil
}

func (s *Memory) InsertSubdirectorate(_ context.Context, sd models.Subdirectorate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.subdirectorates {
		if existing.Year == sd.Year && strings.EqualFold(existing.Name, sd.Name) {
			return sentinel.ErrAlreadyUsed
		}
	}
	s.subdirectorates[sd.ID] = sd
	return nil
}

func (s *Memory) InsertDivision(_ context.Context, dv models.Division) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.divisions {
		if existing.Year == dv.Year && strings.EqualFold(existing.Name, dv.Name) {
			return sentinel.ErrAlreadyUsed
		}
	}
	s.divisions[dv.ID] = dv
	return nil
}
