package service

import (
	"context"

	"aoiconsole/internal/org/models"
)

// TargetSelection is the form state for assigning an organizational target:
// at most one chosen node per level. The zero value means nothing chosen.
//
// Invariants:
//   - SubdirectorateID is meaningful only when DirectorateID is set
//   - DivisionID is meaningful only when SubdirectorateID is set
//
// The Choose methods keep those invariants by clearing descendants whenever
// an ancestor changes, which is exactly what the dependent dropdowns do.
type TargetSelection struct {
	DirectorateID    int64 `json:"directorateId"`
	SubdirectorateID int64 `json:"subdirectorateId"`
	DivisionID       int64 `json:"divisionId"`
}

// ChooseDirectorate sets the directorate and clears both descendants.
func (t TargetSelection) ChooseDirectorate(id int64) TargetSelection {
	return TargetSelection{DirectorateID: id}
}

// ChooseSubdirectorate sets the subdirectorate and clears the division.
func (t TargetSelection) ChooseSubdirectorate(id int64) TargetSelection {
	return TargetSelection{DirectorateID: t.DirectorateID, SubdirectorateID: id}
}

// ChooseDivision sets the division, keeping the ancestors.
func (t TargetSelection) ChooseDivision(id int64) TargetSelection {
	t.DivisionID = id
	return t
}

// SelectionOptions holds the choices offered at each dependent level. A nil
// slice means the selector is disabled because its ancestor is not chosen
// yet; an empty non-nil slice means enabled but nothing to offer.
type SelectionOptions struct {
	Subdirectorates []models.Subdirectorate `json:"subdirectorates"`
	Divisions       []models.Division       `json:"divisions"`
}

// SelectionOptions derives the dropdown contents for the current selection.
func (s *Index) SelectionOptions(ctx context.Context, sel TargetSelection, year int) (SelectionOptions, error) {
	var opts SelectionOptions
	if sel.DirectorateID == 0 {
		return opts, nil
	}
	subs, err := s.SubdirectoratesOf(ctx, sel.DirectorateID, year)
	if err != nil {
		return SelectionOptions{}, err
	}
	opts.Subdirectorates = subs

	if sel.SubdirectorateID == 0 {
		return opts, nil
	}
	divs, err := s.DivisionsOf(ctx, sel.SubdirectorateID, year)
	if err != nil {
		return SelectionOptions{}, err
	}
	opts.Divisions = divs
	return opts, nil
}
