// Package models defines the AOI (Area of Improvement) entities: the
// record tables operators create per year and the recommendation rows
// tracked inside them.
package models

import (
	"strings"
	"time"

	dErrors "aoiconsole/pkg/domain-errors"
)

// Kind distinguishes the two row flavors a table tracks. Sequence numbers
// are assigned per kind.
type Kind string

const (
	KindRecommendation Kind = "RECOMMENDATION"
	KindSuggestion     Kind = "SUGGESTION"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindRecommendation || k == KindSuggestion
}

// Urgency grades a recommendation.
type Urgency string

const (
	UrgencyNone     Urgency = "NONE"
	UrgencyLow      Urgency = "LOW"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyVeryHigh Urgency = "VERY_HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

// Valid reports whether u is a known urgency grade.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyNone, UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyVeryHigh, UrgencyCritical:
		return true
	}
	return false
}

// TargetLevel names the organizational level a table is restricted to.
type TargetLevel string

const (
	TargetNone           TargetLevel = "none"
	TargetDirectorate    TargetLevel = "directorate"
	TargetSubdirectorate TargetLevel = "subdirectorate"
	TargetDivision       TargetLevel = "division"
)

// Valid reports whether l is a known target level.
func (l TargetLevel) Valid() bool {
	switch l {
	case TargetNone, TargetDirectorate, TargetSubdirectorate, TargetDivision:
		return true
	}
	return false
}

// legacyNoneSentinel is what old records store where the UI offered "none".
const legacyNoneSentinel = "Tidak ada"

// BlankName reports whether a target name means "unset". Covers empty,
// whitespace-only, and the legacy sentinel still present in migrated rows.
func BlankName(s string) bool {
	trimmed := strings.TrimSpace(s)
	return trimmed == "" || trimmed == legacyNoneSentinel
}

// RecordTable is an AOI table: a named per-year container of recommendation
// rows, optionally restricted to one organizational scope. Only the target
// field matching TargetLevel is meaningful; stale values may linger in the
// others.
type RecordTable struct {
	ID                   int64       `json:"id"`
	Name                 string      `json:"name"`
	Description          string      `json:"description"`
	Year                 int         `json:"year"`
	Status               string      `json:"status"`
	TargetLevel          TargetLevel `json:"targetLevel"`
	TargetDirectorate    string      `json:"targetDirectorate"`
	TargetSubdirectorate string      `json:"targetSubdirectorate"`
	TargetDivision       string      `json:"targetDivision"`
	CreatedAt            time.Time   `json:"createdAt"`
}

// Recommendation is one tracked row inside a RecordTable.
type Recommendation struct {
	ID               int64     `json:"id"`
	TableID          int64     `json:"tableId"`
	Kind             Kind      `json:"kind"`
	Sequence         int       `json:"sequence"`
	Content          string    `json:"content"`
	Aspect           string    `json:"aspect"`
	Urgency          Urgency   `json:"urgency"`
	RelatedParty     string    `json:"relatedParty"`
	ResponsibleOrgan string    `json:"responsibleOrgan"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// NewTable is the creation request for a RecordTable.
type NewTable struct {
	Name                 string      `json:"name"`
	Description          string      `json:"description"`
	Year                 int         `json:"year"`
	TargetLevel          TargetLevel `json:"targetLevel"`
	TargetDirectorate    string      `json:"targetDirectorate"`
	TargetSubdirectorate string      `json:"targetSubdirectorate"`
	TargetDivision       string      `json:"targetDivision"`
}

// Validate checks the request shape before any store access.
func (n NewTable) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if n.Year <= 0 {
		return dErrors.New(dErrors.CodeBadRequest, "year is required")
	}
	if n.TargetLevel != "" && !n.TargetLevel.Valid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown target level")
	}
	return nil
}

// TableUpdate replaces all editable fields of a RecordTable.
type TableUpdate struct {
	Name                 string      `json:"name"`
	Description          string      `json:"description"`
	Status               string      `json:"status"`
	TargetLevel          TargetLevel `json:"targetLevel"`
	TargetDirectorate    string      `json:"targetDirectorate"`
	TargetSubdirectorate string      `json:"targetSubdirectorate"`
	TargetDivision       string      `json:"targetDivision"`
}

// Validate checks the update shape.
func (u TableUpdate) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if u.TargetLevel != "" && !u.TargetLevel.Valid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown target level")
	}
	return nil
}

// NewRecommendation is the creation request for a Recommendation. Sequence
// is assigned by the service, never by the caller.
type NewRecommendation struct {
	TableID          int64   `json:"tableId"`
	Kind             Kind    `json:"kind"`
	Content          string  `json:"content"`
	Aspect           string  `json:"aspect"`
	Urgency          Urgency `json:"urgency"`
	RelatedParty     string  `json:"relatedParty"`
	ResponsibleOrgan string  `json:"responsibleOrgan"`
}

// Validate rejects blank content before any store access.
func (n NewRecommendation) Validate() error {
	if strings.TrimSpace(n.Content) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "content is required")
	}
	if n.TableID == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "table is required")
	}
	if !n.Kind.Valid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown kind")
	}
	if n.Urgency != "" && !n.Urgency.Valid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown urgency")
	}
	return nil
}

// RecommendationUpdate replaces all editable fields of a Recommendation.
// Kind and Sequence are fixed at creation; changing the kind would break
// the per-kind numbering.
type RecommendationUpdate struct {
	Content          string  `json:"content"`
	Aspect           string  `json:"aspect"`
	Urgency          Urgency `json:"urgency"`
	RelatedParty     string  `json:"relatedParty"`
	ResponsibleOrgan string  `json:"responsibleOrgan"`
	Status           string  `json:"status"`
}

// Validate rejects blank content before any store access.
func (u RecommendationUpdate) Validate() error {
	if strings.TrimSpace(u.Content) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "content is required")
	}
	if u.Urgency != "" && !u.Urgency.Valid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown urgency")
	}
	return nil
}
