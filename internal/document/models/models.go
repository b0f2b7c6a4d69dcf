// Package models defines the document metadata attached to recommendations.
// Binary payloads live with an external storage service; this side only
// tracks the descriptive record.
package models

import (
	"strings"
	"time"

	dErrors "aoiconsole/pkg/domain-errors"
)

// Document is the metadata of one uploaded file. IDs are strings of the
// form "aoi_<n>", assigned by the service.
type Document struct {
	ID                     string    `json:"id"`
	FileName               string    `json:"fileName"`
	FileSize               int64     `json:"fileSize"`
	UploadedAt             time.Time `json:"uploadedAt"`
	RecommendationID       int64     `json:"recommendationId"`
	Kind                   string    `json:"kind"`
	Sequence               int       `json:"sequence"`
	UploaderID             string    `json:"uploaderId"`
	UploaderSubdirectorate string    `json:"uploaderSubdirectorate"`
	UploaderDivision       string    `json:"uploaderDivision"`
	FileType               string    `json:"fileType"`
	Status                 string    `json:"status"`
	Year                   int       `json:"year"`
}

// NewDocument is the creation request.
type NewDocument struct {
	FileName         string `json:"fileName"`
	FileSize         int64  `json:"fileSize"`
	RecommendationID int64  `json:"recommendationId"`
	Kind             string `json:"kind"`
	Sequence         int    `json:"sequence"`
	FileType         string `json:"fileType"`
	Year             int    `json:"year"`
}

// Validate checks the request shape before any store access.
func (n NewDocument) Validate() error {
	if strings.TrimSpace(n.FileName) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "fileName is required")
	}
	if n.RecommendationID == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "recommendation is required")
	}
	if n.Year <= 0 {
		return dErrors.New(dErrors.CodeBadRequest, "year is required")
	}
	return nil
}

// DocumentUpdate replaces the editable metadata fields.
type DocumentUpdate struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	Status   string `json:"status"`
}

// Validate checks the update shape.
func (u DocumentUpdate) Validate() error {
	if strings.TrimSpace(u.FileName) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "fileName is required")
	}
	return nil
}
