// Package names derives the indexable name variants a record exposes.
// Individuals may carry several NAME lines; every other record type
// exposes a single derived title.
package names

import (
	"regexp"
	"strings"

	"github.com/fernwood/gedbase/internal/gedcom"
	"github.com/fernwood/gedbase/internal/models"
)

// Placeholders recorded when a name slot is unknown. The name index never
// computes phonetic codes for these.
const (
	UnknownGiven   = "@P.N."
	UnknownSurname = "@N.N."
)

// Name is one name variant of a record.
type Name struct {
	Type    string // NAME sub-TYPE for individuals, record type otherwise
	Sort    string
	Full    string
	Surname string
	Surn    string
	Givn    string
}

var (
	nameLineRe  = regexp.MustCompile(`(?m)^1 NAME ?(.*)$`)
	nameTypeRe  = regexp.MustCompile(`\n2 TYPE (.+)`)
	surnameRe   = regexp.MustCompile(`/([^/]*)/`)
	mediaTitlRe = regexp.MustCompile(`\n\d TITL (.+)`)
	mediaFileRe = regexp.MustCompile(`\n\d FILE (.+)`)
	noteTextRe  = regexp.MustCompile(`^0 @[^@]+@ NOTE ?(.*)`)
)

// Extract derives the name variants for a normalized record.
func Extract(rtype models.RecordType, xref, rec string) []Name {
	switch rtype {
	case models.TypeIndividual:
		return individualNames(rec)
	case models.TypeSource:
		title := gedcom.Value(rec, 1, "TITL")
		if title == "" {
			title = gedcom.Value(rec, 1, "ABBR")
		}
		if title == "" {
			title = xref
		}
		return []Name{derived(string(rtype), title)}
	case models.TypeRepository:
		title := gedcom.Value(rec, 1, "NAME")
		if title == "" {
			title = xref
		}
		return []Name{derived(string(rtype), title)}
	case models.TypeNote:
		title := noteTitle(rec)
		if title == "" {
			title = xref
		}
		return []Name{derived(string(rtype), title)}
	case models.TypeMedia:
		title := ""
		if m := mediaTitlRe.FindStringSubmatch(rec); m != nil {
			title = m[1]
		} else if m := mediaFileRe.FindStringSubmatch(rec); m != nil {
			title = m[1]
		}
		if title == "" {
			title = xref
		}
		return []Name{derived(string(rtype), title)}
	default:
		return nil
	}
}

func derived(rtype, title string) Name {
	return Name{Type: rtype, Sort: title, Full: title}
}

// individualNames parses each "1 NAME" block. The value has the shape
// "Given /Surname/ suffix"; empty slots derive the unknown placeholders.
func individualNames(rec string) []Name {
	blocks := splitNameBlocks(rec)
	out := make([]Name, 0, len(blocks))
	for _, block := range blocks {
		value := ""
		if m := nameLineRe.FindStringSubmatch(block); m != nil {
			value = strings.TrimSpace(m[1])
		}

		givn := value
		surn := ""
		if m := surnameRe.FindStringSubmatch(value); m != nil {
			// Given name is everything outside the /slashes/.
			surn = strings.TrimSpace(m[1])
			givn = strings.Join(strings.Fields(surnameRe.ReplaceAllString(value, " ")), " ")
		}
		// Explicit GIVN/SURN sub-lines override the parsed value.
		if v := gedcom.Value(block, 2, "GIVN"); v != "" {
			givn = v
		}
		if v := gedcom.Value(block, 2, "SURN"); v != "" {
			surn = v
		}
		if givn == "" {
			givn = UnknownGiven
		}
		if surn == "" {
			surn = UnknownSurname
		}

		ntype := "NAME"
		if m := nameTypeRe.FindStringSubmatch(block); m != nil {
			ntype = m[1]
		}

		full := strings.Join(strings.Fields(strings.ReplaceAll(value, "/", " ")), " ")
		if full == "" {
			full = UnknownGiven
		}
		out = append(out, Name{
			Type:    ntype,
			Sort:    surn + "," + givn,
			Full:    full,
			Surname: surn,
			Surn:    surn,
			Givn:    givn,
		})
	}
	return out
}

// splitNameBlocks returns each "1 NAME" line together with its level 2+
// children.
func splitNameBlocks(rec string) []string {
	var blocks []string
	var cur []string
	inBlock := false
	for _, line := range strings.Split(rec, "\n") {
		if strings.HasPrefix(line, "1 NAME") {
			if inBlock {
				blocks = append(blocks, strings.Join(cur, "\n"))
			}
			cur = []string{line}
			inBlock = true
			continue
		}
		if inBlock {
			if !strings.HasPrefix(line, "2 ") && !strings.HasPrefix(line, "3 ") {
				blocks = append(blocks, strings.Join(cur, "\n"))
				cur = nil
				inBlock = false
				continue
			}
			cur = append(cur, line)
		}
	}
	if inBlock {
		blocks = append(blocks, strings.Join(cur, "\n"))
	}
	return blocks
}

// noteTitle takes the first line of the note text as its display title.
func noteTitle(rec string) string {
	if m := noteTextRe.FindStringSubmatch(rec); m != nil && m[1] != "" {
		return m[1]
	}
	return gedcom.Value(rec, 1, "CONT")
}
