// Package importer implements the GEDCOM import pipeline: normalization,
// classification, inline-media extraction, per-type persistence, and the
// derived index extractors. One record is one transaction; a failed import
// never leaves a record half-indexed.
package importer

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fernwood/gedbase/internal/gedcom"
	"github.com/fernwood/gedbase/internal/models"
	"github.com/fernwood/gedbase/internal/norm"
	"github.com/fernwood/gedbase/internal/store"
)

var (
	rinRe  = regexp.MustCompile(`\n1 RIN (.+)`)
	sexRe  = regexp.MustCompile(`\n1 SEX (.+)`)
	husbRe = regexp.MustCompile(`\n1 HUSB @(` + gedcom.RegexXref + `)@`)
	wifeRe = regexp.MustCompile(`\n1 WIFE @(` + gedcom.RegexXref + `)@`)
	chilRe = regexp.MustCompile(`\n1 CHIL @(` + gedcom.RegexXref + `)@`)
	nchiRe = regexp.MustCompile(`\n1 NCHI (\d+)`)
	titlRe = regexp.MustCompile(`\n1 TITL (.+)`)
	abbrRe = regexp.MustCompile(`\n1 ABBR (.+)`)
)

// Importer turns raw record text into primary and index rows.
type Importer struct {
	db  *store.DB
	log *slog.Logger
}

// New creates an Importer.
func New(db *store.DB, log *slog.Logger) *Importer {
	return &Importer{db: db, log: log}
}

// ImportRecord parses one raw gedcom record and adds it to the tree.
// update distinguishes an accepted edit (already @-escaped) from freshly
// uploaded file content.
func (imp *Importer) ImportRecord(treeID int64, gedrec string, update bool) (*models.Record, error) {
	prefs, err := imp.db.Prefs(treeID)
	if err != nil {
		return nil, err
	}

	tx, err := imp.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	rec, err := imp.importTx(tx, treeID, gedrec, update, prefs)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("importer: commit %s: %w", rec.Xref, err)
	}
	return rec, nil
}

// UpdateRecord reconciles a pending change: it tears down the record's
// derived index rows and primary row, then re-imports the new text unless
// this is a pure deletion. Teardown and re-import share one transaction,
// so no stale index rows can survive the text changing.
func (imp *Importer) UpdateRecord(treeID int64, gedrec string, delete bool) (*models.Record, error) {
	xref, rtype, err := gedcom.Classify(gedcom.NormalizeEndings(gedrec))
	if err != nil {
		return nil, err
	}
	if xref == "" {
		xref = string(rtype)
	}

	prefs, err := imp.db.Prefs(treeID)
	if err != nil {
		return nil, err
	}

	tx, err := imp.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	if err := tx.DeletePlaceLinks(treeID, xref); err != nil {
		return nil, err
	}
	// Orphaned places: deleting "Westminster, London, England" may leave
	// "London, England" and "England" unreferenced.
	for {
		n, err := tx.SweepOrphanPlaces(treeID)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	if err := tx.DeleteIndexRows(treeID, xref); err != nil {
		return nil, err
	}
	if err := tx.DeletePrimary(treeID, xref, rtype); err != nil {
		return nil, err
	}

	var rec *models.Record
	if !delete {
		rec, err = imp.importTx(tx, treeID, gedrec, true, prefs)
		if err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("importer: commit update %s: %w", xref, err)
	}
	return rec, nil
}

// ImportFile splits whole-file GEDCOM content into records and imports
// each independently. A malformed record is reported and skipped; it does
// not abort the rest of the batch.
func (imp *Importer) ImportFile(treeID int64, data []byte) (int, []error) {
	imported := 0
	var errs []error
	for _, rec := range gedcom.SplitRecords(string(data)) {
		if strings.TrimSpace(rec) == "" {
			continue
		}
		if _, err := imp.ImportRecord(treeID, rec, false); err != nil {
			imp.log.Warn("import: record failed",
				slog.Int64("tree", treeID),
				slog.String("error", err.Error()))
			errs = append(errs, err)
			continue
		}
		imported++
	}
	return imported, errs
}

func (imp *Importer) importTx(tx *store.Tx, treeID int64, gedrec string, update bool, prefs store.TreePrefs) (*models.Record, error) {
	// Escaped @ signs (only if importing from file).
	if !update {
		gedrec = strings.ReplaceAll(gedrec, "@@", "@")
	}

	// Standardise gedcom format.
	gedrec = norm.Reformat(gedrec, norm.Prefs{
		MediaPath:        prefs.MediaPath,
		WordWrappedNotes: prefs.WordWrappedNotes,
	})

	xref, rtype, err := gedcom.Classify(gedrec)
	if err != nil {
		return nil, err
	}
	if xref == "" {
		xref = string(rtype) // HEAD/TRLR pseudo xref
	} else if prefs.GenerateUIDs && !strings.Contains(gedrec, "\n1 _UID ") {
		gedrec += "\n1 _UID " + newUID()
	}

	// If the user has downloaded their GEDCOM data (containing media
	// objects) and edited it with an application which does not support,
	// and deletes, media objects, add them back in.
	if prefs.KeepMedia {
		linked, err := tx.LinkedMedia(treeID, xref)
		if err != nil {
			return nil, err
		}
		for _, mediaID := range linked {
			gedrec += "\n1 OBJE @" + mediaID + "@"
		}
	}

	switch rtype {
	case models.TypeIndividual:
		gedrec, err = imp.convertInlineMedia(tx, treeID, gedrec)
		if err != nil {
			return nil, err
		}
		rin := xref
		if m := rinRe.FindStringSubmatch(gedrec); m != nil {
			rin = m[1]
		}
		sex := "U"
		if m := sexRe.FindStringSubmatch(gedrec); m != nil {
			sex = m[1]
		}
		if err := tx.InsertIndividual(treeID, xref, rin, sex, gedrec); err != nil {
			return nil, err
		}
		if err := imp.updatePlaces(tx, treeID, xref, gedrec); err != nil {
			return nil, err
		}
		if err := imp.updateDates(tx, treeID, xref, gedrec); err != nil {
			return nil, err
		}
		if err := imp.updateLinks(tx, treeID, xref, gedrec); err != nil {
			return nil, err
		}
		if err := imp.updateNames(tx, treeID, xref, rtype, gedrec); err != nil {
			return nil, err
		}

	case models.TypeFamily:
		gedrec, err = imp.convertInlineMedia(tx, treeID, gedrec)
		if err != nil {
			return nil, err
		}
		husb := ""
		if m := husbRe.FindStringSubmatch(gedrec); m != nil {
			husb = m[1]
		}
		wife := ""
		if m := wifeRe.FindStringSubmatch(gedrec); m != nil {
			wife = m[1]
		}
		// Child count: the greater of counted CHIL lines and an explicit NCHI.
		nchi := len(chilRe.FindAllString(gedrec, -1))
		if m := nchiRe.FindStringSubmatch(gedrec); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > nchi {
				nchi = n
			}
		}
		if err := tx.InsertFamily(treeID, xref, husb, wife, nchi, gedrec); err != nil {
			return nil, err
		}
		if err := imp.updatePlaces(tx, treeID, xref, gedrec); err != nil {
			return nil, err
		}
		if err := imp.updateDates(tx, treeID, xref, gedrec); err != nil {
			return nil, err
		}
		if err := imp.updateLinks(tx, treeID, xref, gedrec); err != nil {
			return nil, err
		}

	case models.TypeSource:
		gedrec, err = imp.convertInlineMedia(tx, treeID, gedrec)
		if err != nil {
			return nil, err
		}
		name := xref
		if m := titlRe.FindStringSubmatch(gedrec); m != nil {
			name = m[1]
		} else if m := abbrRe.FindStringSubmatch(gedrec); m != nil {
			name = m[1]
		}
		if err := tx.InsertSource(treeID, xref, truncate(name, 255), gedrec); err != nil {
			return nil, err
		}
		if err := imp.updateLinks(tx, treeID, xref, gedrec); err != nil {
			return nil, err
		}
		if err := imp.updateNames(tx, treeID, xref, rtype, gedrec); err != nil {
			return nil, err
		}

	case models.TypeRepository:
		gedrec, err = imp.convertInlineMedia(tx, treeID, gedrec)
		if err != nil {
			return nil, err
		}
		if err := tx.InsertOther(treeID, xref, string(rtype), gedrec); err != nil {
			return nil, err
		}
		if err := imp.updateLinks(tx, treeID, xref, gedrec); err != nil {
			return nil, err
		}
		if err := imp.updateNames(tx, treeID, xref, rtype, gedrec); err != nil {
			return nil, err
		}

	case models.TypeNote:
		if err := tx.InsertOther(treeID, xref, string(rtype), gedrec); err != nil {
			return nil, err
		}
		if err := imp.updateLinks(tx, treeID, xref, gedrec); err != nil {
			return nil, err
		}
		if err := imp.updateNames(tx, treeID, xref, rtype, gedrec); err != nil {
			return nil, err
		}

	case models.TypeMedia:
		if err := tx.InsertMedia(treeID, xref, gedrec); err != nil {
			return nil, err
		}
		for _, ref := range ParseMediaFiles(gedrec) {
			if err := tx.InsertMediaFile(treeID, xref, ref); err != nil {
				return nil, err
			}
		}
		if err := imp.updateLinks(tx, treeID, xref, gedrec); err != nil {
			return nil, err
		}
		if err := imp.updateNames(tx, treeID, xref, rtype, gedrec); err != nil {
			return nil, err
		}

	default: // HEAD, TRLR, SUBM, SUBN, and custom record types.
		// Force HEAD records to have a creation date.
		if rtype == models.TypeHeader && !strings.Contains(gedrec, "\n1 DATE ") {
			gedrec += "\n1 DATE " + time.Now().Format("2 Jan 2006")
		}
		if err := tx.InsertOther(treeID, xref, truncate(string(rtype), 15), gedrec); err != nil {
			return nil, err
		}
		if err := imp.updateLinks(tx, treeID, xref, gedrec); err != nil {
			return nil, err
		}
	}

	return &models.Record{Xref: xref, Type: rtype, Gedcom: gedrec, TreeID: treeID}, nil
}

func newUID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
