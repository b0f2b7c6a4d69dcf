package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"aoiconsole/internal/org/models"
	"aoiconsole/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *Memory
	ctx   context.Context
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) seedTree(year int) (models.Directorate, models.Subdirectorate, models.Division) {
	d := models.Directorate{ID: 1, Name: "Operations", Year: year, Active: true, CreatedAt: time.Now()}
	sd := models.Subdirectorate{ID: 2, Name: "Ops-Planning", Year: year, DirectorateID: d.ID, Active: true, CreatedAt: time.Now()}
	dv := models.Division{ID: 3, Name: "Finance-Ops", Year: year, SubdirectorateID: sd.ID, Active: true, CreatedAt: time.Now()}
	s.Require().NoError(s.store.InsertDirectorate(s.ctx, d))
	s.Require().NoError(s.store.InsertSubdirectorate(s.ctx, sd))
	s.Require().NoError(s.store.InsertDivision(s.ctx, dv))
	return d, sd, dv
}

func (s *MemoryStoreSuite) TestChildLookups() {
	d, sd, dv := s.seedTree(2024)

	s.Run("subdirectorates of a directorate", func() {
		subs, err := s.store.SubdirectoratesOf(s.ctx, d.ID, 2024)
		s.Require().NoError(err)
		s.Require().Len(subs, 1)
		s.Equal(sd.Name, subs[0].Name)
	})

	s.Run("divisions of a subdirectorate", func() {
		divs, err := s.store.DivisionsOf(s.ctx, sd.ID, 2024)
		s.Require().NoError(err)
		s.Require().Len(divs, 1)
		s.Equal(dv.Name, divs[0].Name)
	})

	s.Run("wrong year yields empty, not error", func() {
		subs, err := s.store.SubdirectoratesOf(s.ctx, d.ID, 2023)
		s.Require().NoError(err)
		s.Empty(subs)
	})
}

func (s *MemoryStoreSuite) TestNameOrdering() {
	year := 2024
	s.Require().NoError(s.store.InsertDirectorate(s.ctx, models.Directorate{ID: 10, Name: "Zeta", Year: year, Active: true}))
	s.Require().NoError(s.store.InsertDirectorate(s.ctx, models.Directorate{ID: 11, Name: "Alpha", Year: year, Active: true}))

	ds, err := s.store.ListDirectorates(s.ctx, year)
	s.Require().NoError(err)
	s.Require().Len(ds, 2)
	s.Equal("Alpha", ds[0].Name)
	s.Equal("Zeta", ds[1].Name)
}

func (s *MemoryStoreSuite) TestFindByName() {
	_, sd, _ := s.seedTree(2024)

	s.Run("hit on exact name and year", func() {
		found, err := s.store.FindSubdirectorateByName(s.ctx, sd.Name, 2024)
		s.Require().NoError(err)
		s.Equal(sd.ID, found.ID)
	})

	s.Run("miss on wrong year", func() {
		_, err := s.store.FindSubdirectorateByName(s.ctx, sd.Name, 2020)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("miss on unknown name", func() {
		_, err := s.store.FindSubdirectorateByName(s.ctx, "Nonexistent", 2024)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestUniqueNamePerYear() {
	s.seedTree(2024)

	err := s.store.InsertDirectorate(s.ctx, models.Directorate{ID: 99, Name: "operations", Year: 2024, Active: true})
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

	// Same name in a different year is a different entity.
	s.Require().NoError(s.store.InsertDirectorate(s.ctx, models.Directorate{ID: 100, Name: "Operations", Year: 2025, Active: true}))
}

func (s *MemoryStoreSuite) TestInactiveRowsHidden() {
	s.Require().NoError(s.store.InsertDirectorate(s.ctx, models.Directorate{ID: 50, Name: "Retired", Year: 2024, Active: false}))

	ds, err := s.store.ListDirectorates(s.ctx, 2024)
	s.Require().NoError(err)
	s.Empty(ds)

	_, err = s.store.FindDirectorateByID(s.ctx, 50, 2024)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
