package visibility

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aoiconsole/internal/aoi/models"
	orgmodels "aoiconsole/internal/org/models"
	orgservice "aoiconsole/internal/org/service"
	orgstore "aoiconsole/internal/org/store"
	"aoiconsole/pkg/requestcontext"
)

func newTestFilter(t *testing.T) (*Filter, *orgstore.Memory) {
	t.Helper()
	mem := orgstore.NewMemory()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewFilter(orgservice.NewIndex(mem, nil, logger), logger, nil), mem
}

func seedHierarchy(t *testing.T, mem *orgstore.Memory, year int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, mem.InsertDirectorate(ctx, orgmodels.Directorate{ID: 1, Name: "Operations", Year: year, Active: true}))
	require.NoError(t, mem.InsertSubdirectorate(ctx, orgmodels.Subdirectorate{ID: 2, Name: "Ops-Planning", Year: year, DirectorateID: 1, Active: true}))
	require.NoError(t, mem.InsertDivision(ctx, orgmodels.Division{ID: 3, Name: "Finance-Ops", Year: year, SubdirectorateID: 2, Active: true}))
}

func plannerUser() requestcontext.SessionUser {
	return requestcontext.SessionUser{Role: "user", Subdirectorate: "Ops-Planning", Division: "Finance-Ops"}
}

func TestYearMismatchHides(t *testing.T) {
	f, _ := newTestFilter(t)
	table := models.RecordTable{ID: 1, Year: 2023}

	assert.False(t, f.Visible(context.Background(), table, 2024, requestcontext.SessionUser{Role: "superadmin"}))
}

func TestElevatedRoleSeesEverything(t *testing.T) {
	f, _ := newTestFilter(t)
	ctx := context.Background()
	tables := []models.RecordTable{
		{ID: 1, Year: 2024, TargetDivision: "Somewhere-Else"},
		{ID: 2, Year: 2024, TargetSubdirectorate: "Another-Unit"},
		{ID: 3, Year: 2024},
	}

	for _, role := range []string{"superadmin", "super-admin"} {
		got := f.Apply(ctx, tables, 2024, requestcontext.SessionUser{Role: role})
		assert.Len(t, got, 3, "role %q", role)
	}

	t.Run("case-sensitive role match", func(t *testing.T) {
		got := f.Apply(ctx, tables, 2024, requestcontext.SessionUser{Role: "Superadmin"})
		assert.Empty(t, got)
	})
}

func TestNoSubdirectorateHidesAll(t *testing.T) {
	f, _ := newTestFilter(t)
	tables := []models.RecordTable{
		{ID: 1, Year: 2024},
		{ID: 2, Year: 2024, TargetDivision: "Finance-Ops"},
	}

	got := f.Apply(context.Background(), tables, 2024, requestcontext.SessionUser{Role: "user"})
	assert.Empty(t, got)
}

func TestDivisionTarget(t *testing.T) {
	f, _ := newTestFilter(t)
	ctx := context.Background()
	table := models.RecordTable{ID: 1, Year: 2024, TargetDivision: "Finance-Ops"}

	t.Run("exact match is visible", func(t *testing.T) {
		assert.True(t, f.Visible(ctx, table, 2024, plannerUser()))
	})

	t.Run("different division is hidden", func(t *testing.T) {
		u := plannerUser()
		u.Division = "Elsewhere"
		assert.False(t, f.Visible(ctx, table, 2024, u))
	})

	t.Run("blank division is hidden even with matching subdirectorate", func(t *testing.T) {
		u := plannerUser()
		u.Division = ""
		// A division target decides; the subdirectorate rule never runs.
		withSub := table
		withSub.TargetSubdirectorate = "Ops-Planning"
		assert.False(t, f.Visible(ctx, withSub, 2024, u))
	})
}

func TestSubdirectorateTarget(t *testing.T) {
	f, _ := newTestFilter(t)
	ctx := context.Background()
	table := models.RecordTable{ID: 1, Year: 2024, TargetSubdirectorate: "Ops-Planning"}

	assert.True(t, f.Visible(ctx, table, 2024, plannerUser()))

	u := plannerUser()
	u.Subdirectorate = "Other-Unit"
	assert.False(t, f.Visible(ctx, table, 2024, u))
}

func TestDirectorateTarget(t *testing.T) {
	ctx := context.Background()
	table := models.RecordTable{ID: 1, Year: 2024, TargetDirectorate: "Operations"}

	t.Run("resolves through the hierarchy", func(t *testing.T) {
		f, mem := newTestFilter(t)
		seedHierarchy(t, mem, 2024)
		assert.True(t, f.Visible(ctx, table, 2024, plannerUser()))
	})

	t.Run("missing hierarchy link fails closed", func(t *testing.T) {
		f, _ := newTestFilter(t)
		// Hierarchy unseeded: the name would match, the resolution does not.
		assert.False(t, f.Visible(ctx, table, 2024, plannerUser()))
	})

	t.Run("resolved directorate with a different name is hidden", func(t *testing.T) {
		f, mem := newTestFilter(t)
		seedHierarchy(t, mem, 2024)
		other := models.RecordTable{ID: 2, Year: 2024, TargetDirectorate: "Compliance"}
		assert.False(t, f.Visible(ctx, other, 2024, plannerUser()))
	})
}

func TestUnscopedIsPublic(t *testing.T) {
	f, _ := newTestFilter(t)
	ctx := context.Background()

	t.Run("no target at all", func(t *testing.T) {
		table := models.RecordTable{ID: 1, Year: 2024}
		assert.True(t, f.Visible(ctx, table, 2024, plannerUser()))
	})

	t.Run("legacy none sentinel counts as blank", func(t *testing.T) {
		table := models.RecordTable{
			ID: 2, Year: 2024,
			TargetDivision:       "Tidak ada",
			TargetSubdirectorate: "Tidak ada",
			TargetDirectorate:    "Tidak ada",
		}
		assert.True(t, f.Visible(ctx, table, 2024, plannerUser()))
	})

	t.Run("whitespace-only target counts as blank", func(t *testing.T) {
		table := models.RecordTable{ID: 3, Year: 2024, TargetDivision: "   "}
		assert.True(t, f.Visible(ctx, table, 2024, plannerUser()))
	})
}

func TestApplyPreservesOrder(t *testing.T) {
	f, mem := newTestFilter(t)
	seedHierarchy(t, mem, 2024)
	tables := []models.RecordTable{
		{ID: 10, Year: 2024},
		{ID: 11, Year: 2024, TargetDivision: "Elsewhere"},
		{ID: 12, Year: 2024, TargetSubdirectorate: "Ops-Planning"},
		{ID: 13, Year: 2023},
		{ID: 14, Year: 2024, TargetDirectorate: "Operations"},
	}

	got := f.Apply(context.Background(), tables, 2024, plannerUser())
	require.Len(t, got, 3)
	assert.Equal(t, int64(10), got[0].ID)
	assert.Equal(t, int64(12), got[1].ID)
	assert.Equal(t, int64(14), got[2].ID)
}

func TestApplyNeverNil(t *testing.T) {
	f, _ := newTestFilter(t)
	got := f.Apply(context.Background(), nil, 2024, plannerUser())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
