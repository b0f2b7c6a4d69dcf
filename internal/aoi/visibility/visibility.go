// Package visibility decides which AOI tables a user may see.
//
// The decision is a pure function of (table, year, user) plus a directorate
// resolver for the one rule that needs the hierarchy. Precedence is most
// specific scope first: division, then subdirectorate, then directorate,
// then unscoped. The rules live in an explicit ordered list so the
// precedence contract stays visible and testable on its own.
package visibility

import (
	"context"
	"log/slog"

	"aoiconsole/internal/aoi/models"
	orgmodels "aoiconsole/internal/org/models"
	"aoiconsole/internal/platform/metrics"
	"aoiconsole/internal/platform/middleware"
	"aoiconsole/pkg/requestcontext"
)

// DirectorateResolver maps a user's subdirectorate name to its owning
// directorate for a year. A miss must be an error, not a panic.
type DirectorateResolver interface {
	ResolveDirectorateForUser(ctx context.Context, subdirectorateName string, year int) (orgmodels.Directorate, error)
}

// Rule outcome names, used as the metrics label.
const (
	RuleYearMismatch      = "year_mismatch"
	RuleElevatedRole      = "elevated_role"
	RuleNoSubdirectorate  = "no_subdirectorate"
	RuleDivisionTarget    = "division_target"
	RuleSubdirectorateTgt = "subdirectorate_target"
	RuleDirectorateTarget = "directorate_target"
	RuleUnscoped          = "unscoped"
)

// Filter evaluates the ordered rule list per table.
type Filter struct {
	resolver DirectorateResolver
	logger   *slog.Logger
	metrics  *metrics.Metrics
	rules    []rule
}

type rule struct {
	name string
	// eval returns decided=false to pass the table to the next rule.
	eval func(ctx context.Context, t models.RecordTable, year int, user requestcontext.SessionUser) (decided, visible bool)
}

// NewFilter builds a Filter. metrics may be nil.
func NewFilter(resolver DirectorateResolver, logger *slog.Logger, m *metrics.Metrics) *Filter {
	f := &Filter{resolver: resolver, logger: logger, metrics: m}
	f.rules = []rule{
		{RuleYearMismatch, func(_ context.Context, t models.RecordTable, year int, _ requestcontext.SessionUser) (bool, bool) {
			return t.Year != year, false
		}},
		{RuleElevatedRole, func(_ context.Context, _ models.RecordTable, _ int, u requestcontext.SessionUser) (bool, bool) {
			return middleware.IsElevated(u.Role), true
		}},
		{RuleNoSubdirectorate, func(_ context.Context, _ models.RecordTable, _ int, u requestcontext.SessionUser) (bool, bool) {
			return models.BlankName(u.Subdirectorate), false
		}},
		{RuleDivisionTarget, func(_ context.Context, t models.RecordTable, _ int, u requestcontext.SessionUser) (bool, bool) {
			if models.BlankName(t.TargetDivision) {
				return false, false
			}
			return true, t.TargetDivision == u.Division
		}},
		{RuleSubdirectorateTgt, func(_ context.Context, t models.RecordTable, _ int, u requestcontext.SessionUser) (bool, bool) {
			if models.BlankName(t.TargetSubdirectorate) {
				return false, false
			}
			return true, t.TargetSubdirectorate == u.Subdirectorate
		}},
		{RuleDirectorateTarget, f.evalDirectorateTarget},
		{RuleUnscoped, func(context.Context, models.RecordTable, int, requestcontext.SessionUser) (bool, bool) {
			return true, true
		}},
	}
	return f
}

// Visible runs the rule list for a single table, short-circuiting on the
// first rule that decides.
func (f *Filter) Visible(ctx context.Context, t models.RecordTable, year int, user requestcontext.SessionUser) bool {
	for _, r := range f.rules {
		decided, visible := r.eval(ctx, t, year, user)
		if decided {
			f.metrics.ObserveVisibilityRule(r.name)
			return visible
		}
	}
	// The unscoped rule always decides; unreachable.
	return false
}

// Apply filters tables for the user, preserving input order. Never nil.
func (f *Filter) Apply(ctx context.Context, tables []models.RecordTable, year int, user requestcontext.SessionUser) []models.RecordTable {
	out := make([]models.RecordTable, 0, len(tables))
	for _, t := range tables {
		if f.Visible(ctx, t, year, user) {
			out = append(out, t)
		}
	}
	return out
}

// evalDirectorateTarget is the only rule that consults the hierarchy. A
// resolution miss hides the table rather than erroring: misconfigured
// reference data fails closed.
func (f *Filter) evalDirectorateTarget(ctx context.Context, t models.RecordTable, year int, user requestcontext.SessionUser) (bool, bool) {
	if models.BlankName(t.TargetDirectorate) {
		return false, false
	}
	d, err := f.resolver.ResolveDirectorateForUser(ctx, user.Subdirectorate, year)
	if err != nil {
		f.logger.WarnContext(ctx, "hiding directorate-scoped table after resolution miss",
			"table_id", t.ID,
			"subdirectorate", user.Subdirectorate,
			"year", year,
			"error", err,
		)
		return true, false
	}
	return true, d.Name == t.TargetDirectorate
}
