// Package models defines the organizational hierarchy entities.
//
// The hierarchy is a three-level tree scoped per fiscal year: Directorate →
// Subdirectorate → Division. Year is part of every entity's identity; a
// parent reference pointing at a different year is treated as dangling.
package models

import (
	"strings"
	"time"

	dErrors "aoiconsole/pkg/domain-errors"
)

// NodeType discriminates hierarchy levels in the admin API.
type NodeType string

const (
	NodeDirectorate    NodeType = "directorate"
	NodeSubdirectorate NodeType = "subdirectorate"
	NodeDivision       NodeType = "division"
)

// Directorate is the root of the hierarchy for a year.
type Directorate struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Year        int       `json:"year"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Subdirectorate has exactly one parent directorate per year.
type Subdirectorate struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Year          int       `json:"year"`
	DirectorateID int64     `json:"directorateId"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Division has exactly one parent subdirectorate per year.
type Division struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Year             int       `json:"year"`
	SubdirectorateID int64     `json:"subdirectorateId"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Structure is the full per-year snapshot served to clients and cached.
type Structure struct {
	Directorates    []Directorate    `json:"directorates"`
	Subdirectorates []Subdirectorate `json:"subdirectorates"`
	Divisions       []Division       `json:"divisions"`
}

// NewNode is the admin-side creation request for any hierarchy level.
// ParentID is ignored for directorates and required below them.
type NewNode struct {
	Type        NodeType `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Year        int      `json:"year"`
	ParentID    int64    `json:"parentId"`
}

// Validate checks the request shape before any store access.
func (n NewNode) Validate() error {
	switch n.Type {
	case NodeDirectorate, NodeSubdirectorate, NodeDivision:
	default:
		return dErrors.New(dErrors.CodeBadRequest, "unknown node type")
	}
	if strings.TrimSpace(n.Name) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if n.Year <= 0 {
		return dErrors.New(dErrors.CodeBadRequest, "year is required")
	}
	if n.Type != NodeDirectorate && n.ParentID == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "parent is required")
	}
	return nil
}
