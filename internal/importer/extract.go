package importer

import (
	"regexp"
	"strings"

	"github.com/fernwood/gedbase/internal/calendar"
	"github.com/fernwood/gedbase/internal/gedcom"
	"github.com/fernwood/gedbase/internal/models"
	"github.com/fernwood/gedbase/internal/names"
	"github.com/fernwood/gedbase/internal/soundex"
	"github.com/fernwood/gedbase/internal/store"
)

var (
	placRe     = regexp.MustCompile(`(?m)^[2-9] PLAC (.+)`)
	factDateRe = regexp.MustCompile(`\n1 (\w+).*(?:\n[2-9].*)*(?:\n2 DATE (.+))(?:\n[2-9].*)*`)
	factTypeRe = regexp.MustCompile(`\n2 TYPE ([A-Z]{3,5})`)
	linkRe     = regexp.MustCompile(`(?m)^\d+ (` + gedcom.RegexTag + `) @(` + gedcom.RegexXref + `)@`)
)

// updatePlaces indexes every PLAC value of the record. A hierarchical
// place name like "Westminster, London, England" is split on commas and
// built root-first, so each level shares the rows of sibling places.
// Linking runs leaf-to-root and stops at the first level the record is
// already linked to, since the levels above it must be linked too.
func (imp *Importer) updatePlaces(tx *store.Tx, treeID int64, xref, gedrec string) error {
	seen := map[string]bool{}
	for _, m := range placRe.FindAllStringSubmatch(gedrec, -1) {
		place := m[1]
		if seen[place] {
			continue
		}
		seen[place] = true

		parts := strings.Split(place, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		var ids []int64
		var parentID int64
		for i := len(parts) - 1; i >= 0; i-- {
			if parts[i] == "" {
				continue
			}
			id, err := tx.PlaceID(treeID, parts[i], parentID)
			if err != nil {
				return err
			}
			ids = append(ids, id)
			parentID = id
		}
		for i := len(ids) - 1; i >= 0; i-- {
			inserted, err := tx.LinkPlace(treeID, ids[i], xref)
			if err != nil {
				return err
			}
			if !inserted {
				break
			}
		}
	}
	return nil
}

// updateDates indexes the level-2 DATE of each level-1 fact. Generic
// FACT/EVEN facts take their TYPE sub-value as the fact code when it
// looks like one. A ranged date yields two rows, one per endpoint.
func (imp *Importer) updateDates(tx *store.Tx, treeID int64, xref, gedrec string) error {
	for _, m := range factDateRe.FindAllStringSubmatch(gedrec, -1) {
		fact, value := m[1], m[2]
		if value == "" {
			continue
		}
		if fact == "FACT" || fact == "EVEN" {
			if t := factTypeRe.FindStringSubmatch(m[0]); t != nil {
				fact = t[1]
			}
		}

		date := calendar.Parse(value)
		if err := tx.InsertDate(treeID, xref, dateEntry(date.Min, date, fact)); err != nil {
			return err
		}
		if date.Ranged && date.Max != date.Min {
			if err := tx.InsertDate(treeID, xref, dateEntry(date.Max, date, fact)); err != nil {
				return err
			}
		}
	}
	return nil
}

func dateEntry(e calendar.YMD, d calendar.Date, fact string) models.DateIndexEntry {
	return models.DateIndexEntry{
		Day:        e.Day,
		Month:      e.MonthName(),
		MonthNum:   e.Month,
		Year:       e.Year,
		JulianDay1: d.Min.MinJulianDay(),
		JulianDay2: d.Max.MaxJulianDay(),
		Fact:       fact,
		Kind:       e.Kind,
	}
}

// updateLinks indexes every xref pointer of the record, deduplicated on
// tag plus target.
func (imp *Importer) updateLinks(tx *store.Tx, treeID int64, xref, gedrec string) error {
	seen := map[[2]string]bool{}
	for _, m := range linkRe.FindAllStringSubmatch(gedrec, -1) {
		tag, to := m[1], m[2]
		key := [2]string{tag, to}
		if seen[key] {
			continue
		}
		seen[key] = true
		if err := tx.InsertLink(treeID, xref, to, tag); err != nil {
			return err
		}
	}
	return nil
}

// updateNames indexes the record's name variants. Unknown-name
// placeholders get no soundex codes, so they never match a sounds-like
// search.
func (imp *Importer) updateNames(tx *store.Tx, treeID int64, xref string, rtype models.RecordType, gedrec string) error {
	for i, n := range names.Extract(rtype, xref, gedrec) {
		e := models.NameIndexEntry{
			Num:     i,
			Type:    n.Type,
			Sort:    n.Sort,
			Full:    n.Full,
			Surname: n.Surname,
			Surn:    n.Surn,
			Givn:    n.Givn,
		}
		if n.Givn != names.UnknownGiven {
			e.SoundexGivnStd = soundexPtr(soundex.Russell(n.Givn))
			e.SoundexGivnDM = soundexPtr(soundex.DaitchMokotoff(n.Givn))
		}
		if n.Surn != names.UnknownSurname {
			e.SoundexSurnStd = soundexPtr(soundex.Russell(n.Surname))
			e.SoundexSurnDM = soundexPtr(soundex.DaitchMokotoff(n.Surname))
		}
		if err := tx.InsertName(treeID, xref, e); err != nil {
			return err
		}
	}
	return nil
}

func soundexPtr(code string) *string {
	if code == "" {
		return nil
	}
	return &code
}
