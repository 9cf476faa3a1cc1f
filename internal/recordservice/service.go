// Package recordservice coordinates the store and the import pipeline
// behind a tree-name based API.
package recordservice

import (
	"context"
	"fmt"

	"github.com/fernwood/gedbase/internal/apperr"
	"github.com/fernwood/gedbase/internal/gedcom"
	"github.com/fernwood/gedbase/internal/importer"
	"github.com/fernwood/gedbase/internal/models"
	"github.com/fernwood/gedbase/internal/store"
)

// RecordDetail is the full representation of a record.
type RecordDetail struct {
	Xref      string                  `json:"xref"`
	Type      models.RecordType       `json:"type"`
	Gedcom    string                  `json:"gedcom"`
	Links     []models.LinkIndexEntry `json:"links"`
	Referrers []models.LinkIndexEntry `json:"referrers"`
}

// RecordListItem is a lightweight item in a list response.
type RecordListItem struct {
	Xref string            `json:"xref"`
	Type models.RecordType `json:"type"`
}

// ImportReport summarises a whole-file import.
type ImportReport struct {
	Tree     string   `json:"tree"`
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

// Service coordinates store and importer operations.
type Service struct {
	db  *store.DB
	imp *importer.Importer
}

// NewService creates a new record service.
func NewService(db *store.DB, imp *importer.Importer) *Service {
	return &Service{db: db, imp: imp}
}

// GetRecord reads a record and enriches it with its link index rows.
func (s *Service) GetRecord(_ context.Context, tree, xref string) (*RecordDetail, error) {
	treeID, err := s.db.Tree(tree)
	if err != nil {
		return nil, err
	}
	rec, err := s.db.GetRecord(treeID, xref)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(treeID, rec)
}

// ImportText imports one new record from raw gedcom text.
func (s *Service) ImportText(_ context.Context, tree, gedrec string) (*RecordDetail, error) {
	treeID, err := s.db.Tree(tree)
	if err != nil {
		return nil, err
	}
	xref, _, err := gedcom.Classify(gedcom.NormalizeEndings(gedrec))
	if err != nil {
		return nil, err
	}
	if xref != "" {
		if _, err := s.db.GetRecord(treeID, xref); err == nil {
			return nil, fmt.Errorf("recordservice: %s: %w", xref, apperr.ErrAlreadyExists)
		}
	}
	rec, err := s.imp.ImportRecord(treeID, gedrec, false)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(treeID, rec)
}

// UpdateText replaces an existing record with new gedcom text, rebuilding
// its index rows.
func (s *Service) UpdateText(_ context.Context, tree, gedrec string) (*RecordDetail, error) {
	treeID, err := s.db.Tree(tree)
	if err != nil {
		return nil, err
	}
	xref, _, err := gedcom.Classify(gedcom.NormalizeEndings(gedrec))
	if err != nil {
		return nil, err
	}
	if _, err := s.db.GetRecord(treeID, xref); err != nil {
		return nil, err
	}
	rec, err := s.imp.UpdateRecord(treeID, gedrec, false)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(treeID, rec)
}

// DeleteRecord removes a record and every index row derived from it.
func (s *Service) DeleteRecord(_ context.Context, tree, xref string) error {
	treeID, err := s.db.Tree(tree)
	if err != nil {
		return err
	}
	rec, err := s.db.GetRecord(treeID, xref)
	if err != nil {
		return err
	}
	_, err = s.imp.UpdateRecord(treeID, rec.Gedcom, true)
	return err
}

// ListRecords returns paginated records with optional type filter.
func (s *Service) ListRecords(_ context.Context, tree string, rtype models.RecordType, limit, offset int) ([]RecordListItem, error) {
	treeID, err := s.db.Tree(tree)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.ListRecords(treeID, rtype, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]RecordListItem, len(rows))
	for i, r := range rows {
		items[i] = RecordListItem{Xref: r.Xref, Type: r.Type}
	}
	return items, nil
}

// Links returns the outgoing and incoming link rows of a record.
func (s *Service) Links(_ context.Context, tree, xref string) (out, in []models.LinkIndexEntry, err error) {
	treeID, err := s.db.Tree(tree)
	if err != nil {
		return nil, nil, err
	}
	out, err = s.db.LinksFrom(treeID, xref)
	if err != nil {
		return nil, nil, err
	}
	in, err = s.db.LinksTo(treeID, xref)
	if err != nil {
		return nil, nil, err
	}
	return nonNilLinks(out), nonNilLinks(in), nil
}

// ImportFile imports whole-file gedcom content into the tree.
func (s *Service) ImportFile(_ context.Context, tree string, data []byte) (*ImportReport, error) {
	treeID, err := s.db.Tree(tree)
	if err != nil {
		return nil, err
	}
	imported, errs := s.imp.ImportFile(treeID, data)
	report := &ImportReport{Tree: tree, Imported: imported}
	for _, e := range errs {
		report.Errors = append(report.Errors, e.Error())
	}
	return report, nil
}

// Trees returns the names of every known tree.
func (s *Service) Trees(_ context.Context) ([]string, error) {
	return s.db.TreeNames()
}

func (s *Service) buildDetail(treeID int64, rec *models.Record) (*RecordDetail, error) {
	out, err := s.db.LinksFrom(treeID, rec.Xref)
	if err != nil {
		return nil, err
	}
	in, err := s.db.LinksTo(treeID, rec.Xref)
	if err != nil {
		return nil, err
	}
	return &RecordDetail{
		Xref:      rec.Xref,
		Type:      rec.Type,
		Gedcom:    rec.Gedcom,
		Links:     nonNilLinks(out),
		Referrers: nonNilLinks(in),
	}, nil
}

func nonNilLinks(links []models.LinkIndexEntry) []models.LinkIndexEntry {
	if links == nil {
		return []models.LinkIndexEntry{}
	}
	return links
}
