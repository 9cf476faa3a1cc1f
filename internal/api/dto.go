package api

import (
	"github.com/fernwood/gedbase/internal/models"
	"github.com/fernwood/gedbase/internal/recordservice"
)

// ImportRecordRequest is the request body for importing a single record.
type ImportRecordRequest struct {
	Gedcom string `json:"gedcom" example:"0 @I1@ INDI\n1 NAME John /Smith/" validate:"required"`
}

// UpdateRecordRequest is the request body for replacing a record's text.
type UpdateRecordRequest struct {
	Gedcom string `json:"gedcom" example:"0 @I1@ INDI\n1 NAME John /Smith/" validate:"required"`
}

// ImportFileRequest is the request body for importing whole-file content.
type ImportFileRequest struct {
	Gedcom string `json:"gedcom" validate:"required"`
}

// RecordDetail is the full record response type (aliased from the domain layer).
type RecordDetail = recordservice.RecordDetail

// RecordListItem is a lightweight item in a list response (aliased from the domain layer).
type RecordListItem = recordservice.RecordListItem

// RecordListResponse wraps paginated record listings.
type RecordListResponse struct {
	Records []RecordListItem `json:"records" validate:"required"`
}

// LinksResponse wraps the link index rows of one record.
type LinksResponse struct {
	Links     []models.LinkIndexEntry `json:"links" validate:"required"`
	Referrers []models.LinkIndexEntry `json:"referrers" validate:"required"`
}

// TreeListResponse wraps the known tree names.
type TreeListResponse struct {
	Trees []string `json:"trees" validate:"required"`
}

// ImportReport is returned after a whole-file import (aliased from the domain layer).
type ImportReport = recordservice.ImportReport
