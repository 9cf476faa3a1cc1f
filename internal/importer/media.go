package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fernwood/gedbase/internal/models"
	"github.com/fernwood/gedbase/internal/store"
)

var (
	inlineObjeL1 = regexp.MustCompile(`\n1 OBJE(?:\n[2-9].+)+`)
	inlineObjeL2 = regexp.MustCompile(`\n2 OBJE(?:\n[3-9].+)+`)
	inlineObjeL3 = regexp.MustCompile(`\n3 OBJE(?:\n[4-9].+)+`)

	mediaFileRe = regexp.MustCompile(`\n\d FILE (.+)`)
	mediaTitlRe = regexp.MustCompile(`\n\d TITL (.+)`)
	renumberRe  = regexp.MustCompile(`\n(\d+)`)

	// Vendor quirks: media sub-structures with FORM/FILE/TITL in the
	// wrong order or at the wrong level. Legacy writes FORM/FILE/TITL,
	// Family Tree Builder writes FORM/TITL/FILE, RootsMagic 7 writes
	// FILE/FORM/TITL. All rewritten into 5.5.1 shape.
	fixFormFile = regexp.MustCompile(`0 OBJE\n1 FORM (.+)\n1 FILE (.+)\n1 TITL (.+)`)
	fixFormTitl = regexp.MustCompile(`0 OBJE\n1 FORM (.+)\n1 TITL (.+)\n1 FILE (.+)`)
	fixFileForm = regexp.MustCompile(`0 OBJE\n1 FILE (.+)\n1 FORM (.+)\n1 TITL (.+)`)

	fileBlockRe  = regexp.MustCompile(`(?s)\n1 FILE (.+?)(?:\n1 \w|$)`)
	recordTitlRe = regexp.MustCompile(`\n1 TITL (.+)`)
)

// convertInlineMedia rewrites embedded media sub-records into standalone
// level-0 OBJE records, leaving a cross-reference behind. GEDCOM 5.5.1
// dropped inline media, but a lot of files still contain it. The three
// passes handle media nested under facts at levels 1 through 3; each
// loops until no match remains because one line can host several.
func (imp *Importer) convertInlineMedia(tx *store.Tx, treeID int64, gedrec string) (string, error) {
	var err error
	for {
		m := inlineObjeL1.FindString(gedrec)
		if m == "" {
			break
		}
		gedrec, err = imp.createMediaObject(tx, treeID, gedrec, m, 1)
		if err != nil {
			return "", err
		}
	}
	for {
		m := inlineObjeL2.FindString(gedrec)
		if m == "" {
			break
		}
		gedrec, err = imp.createMediaObject(tx, treeID, gedrec, m, 2)
		if err != nil {
			return "", err
		}
	}
	for {
		m := inlineObjeL3.FindString(gedrec)
		if m == "" {
			break
		}
		gedrec, err = imp.createMediaObject(tx, treeID, gedrec, m, 3)
		if err != nil {
			return "", err
		}
	}
	return gedrec, nil
}

// createMediaObject extracts one inline media block: an existing media
// record with the same title and file is reused, otherwise a new one is
// created and persisted. Returns gedrec with the block replaced by an
// OBJE pointer line.
func (imp *Importer) createMediaObject(tx *store.Tx, treeID int64, gedrec, objeText string, level int) (string, error) {
	file := ""
	if m := mediaFileRe.FindStringSubmatch(objeText); m != nil {
		file = m[1]
	}
	title := ""
	if m := mediaTitlRe.FindStringSubmatch(objeText); m != nil {
		title = m[1]
	}

	xref, err := tx.FindMediaXref(treeID, truncate(title, 248), truncate(file, 248))
	if err != nil {
		return "", err
	}
	if xref == "" {
		xref, err = tx.NextMediaXref(treeID)
		if err != nil {
			return "", err
		}

		// Renumber the block so it becomes a standalone level-0 record.
		media := renumberRe.ReplaceAllStringFunc(objeText, func(s string) string {
			n, _ := strconv.Atoi(s[1:])
			return "\n" + strconv.Itoa(n-level)
		})
		media = strings.Replace(media, "\n0 OBJE\n", "0 OBJE\n", 1)
		media = fixFormFile.ReplaceAllString(media, "0 OBJE\n1 FILE $2\n2 FORM $1\n2 TITL $3")
		media = fixFormTitl.ReplaceAllString(media, "0 OBJE\n1 FILE $3\n2 FORM $1\n2 TITL $2")
		media = fixFileForm.ReplaceAllString(media, "0 OBJE\n1 FILE $1\n2 FORM $2\n2 TITL $3")
		media = strings.Replace(media, "0 OBJE\n", fmt.Sprintf("0 @%s@ OBJE\n", xref), 1)

		if err := tx.InsertMedia(treeID, xref, media); err != nil {
			return "", err
		}
		for _, ref := range ParseMediaFiles(media) {
			if err := tx.InsertMediaFile(treeID, xref, ref); err != nil {
				return "", err
			}
		}
	}

	pointer := fmt.Sprintf("\n%d OBJE @%s@", level, xref)
	return strings.Replace(gedrec, objeText, pointer, 1), nil
}

// ParseMediaFiles extracts each level-1 FILE structure of a media record,
// with the FORM, TYPE, and TITL values that belong to it. A record-level
// TITL (the 5.5.1 shape, sibling of FILE) backfills any file without its
// own title. Values are truncated to the index column widths.
func ParseMediaFiles(gedrec string) []models.MediaReference {
	recordTitle := ""
	if m := recordTitlRe.FindStringSubmatch(gedrec); m != nil {
		recordTitle = m[1]
	}
	var refs []models.MediaReference
	for _, m := range fileBlockRe.FindAllStringSubmatch(gedrec, -1) {
		lines := strings.Split(m[1], "\n")
		ref := models.MediaReference{Filename: truncate(lines[0], 248)}
		for _, line := range lines[1:] {
			switch {
			case strings.HasPrefix(line, "2 FORM "):
				ref.Format = truncate(line[len("2 FORM "):], 4)
			case strings.HasPrefix(line, "3 TYPE "):
				ref.Type = truncate(line[len("3 TYPE "):], 15)
			case strings.HasPrefix(line, "2 TITL "):
				ref.Title = truncate(line[len("2 TITL "):], 248)
			}
		}
		if ref.Title == "" {
			ref.Title = truncate(recordTitle, 248)
		}
		refs = append(refs, ref)
	}
	return refs
}
