// Package norm canonicalizes raw GEDCOM record text: legacy tag spellings,
// vendor value quirks, free-form dates, and continuation lines.
package norm

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/fernwood/gedbase/internal/gedcom"
)

// Prefs carries the tree preferences that influence normalization.
type Prefs struct {
	// MediaPath is a user-defined prefix stripped from FILE values.
	MediaPath string
	// WordWrappedNotes controls whether CONC continuations are joined with
	// a space or concatenated directly.
	WordWrappedNotes bool
}

var (
	commaRe      = regexp.MustCompile(` *, *`)
	nameSpaceRe  = regexp.MustCompile(`  +`)
	placCoordRe  = regexp.MustCompile(`(.*), (\d\d)(\d\d)(\d\d)([NS])(\d\d\d)(\d\d)(\d\d)([EW])$`)
	backslashRe  = regexp.MustCompile(`\\`)
)

// Reformat tidies a gedcom record on import, so that the rest of the
// pipeline can access it consistently. Pure text transform; re-running it
// on its own output is a no-op.
func Reformat(rec string, prefs Prefs) string {
	lines := gedcom.SplitLines(rec)

	var out strings.Builder
	for n, line := range lines {
		level, xref := line.Level, line.Xref
		tag := strings.ToUpper(line.Tag)
		tag = CanonicalTag(tag)
		data := line.Value

		switch tag {
		case "AFN", "SEX", "TEMP":
			// AFN and temple codes are upper case.
			data = strings.ToUpper(data)
		case "DATE":
			data = RewriteDate(data)
		case "FORM":
			data = commaRe.ReplaceAllString(data, ", ")
		case "HEAD", "TRLR":
			// HEAD and TRLR records don't have an XREF or data.
			if level == 0 {
				xref = ""
				data = ""
			}
		case "NAME":
			data = nameSpaceRe.ReplaceAllString(strings.TrimSpace(data), " ")
		case "PEDI":
			data = strings.ToLower(data)
		case "PLAC":
			data = commaRe.ReplaceAllString(data, ", ")
			data = splitPlacCoordinates(data, level)
		case "RESN":
			// RESN values are lower case (confidential, privacy, locked, none).
			data = strings.ToLower(data)
			if data == "invisible" {
				data = "confidential" // From old versions of Legacy.
			}
		case "STAT":
			if data == "CANCELLED" {
				// PhpGedView mis-spells this value - correct it.
				data = "CANCELED"
			}
		}

		// Suppress "Y" for facts/events that carry a DATE or PLAC.
		if strings.EqualFold(data, "Y") {
			data = "Y"
		}
		if level == 1 && data == "Y" {
			for i := n + 1; i < len(lines)-1 && lines[i].Level != 1; i++ {
				if lines[i].Tag == "DATE" || lines[i].Tag == "PLAC" {
					data = ""
					break
				}
			}
		}

		// Reassemble components back into a single line.
		switch tag {
		case "CONC":
			// Merge CONC lines, to simplify access later on.
			if prefs.WordWrappedNotes {
				out.WriteByte(' ')
			}
			out.WriteString(data)
		case "NOTE", "TEXT", "DATA", "CONT":
			// Values kept verbatim; an empty NOTE is a meaningful placeholder.
			writeLine(&out, level, xref, tag, data)
		case "FILE":
			// Strip off the user-defined path prefix.
			if prefs.MediaPath != "" && strings.HasPrefix(data, prefs.MediaPath) {
				data = data[len(prefs.MediaPath):]
			}
			// Convert backslashes in filenames to forward slashes.
			data = backslashRe.ReplaceAllString(data, "/")
			writeLine(&out, level, xref, tag, data)
		default:
			// Remove tabs and multiple/leading/trailing spaces.
			if strings.ContainsRune(data, '\t') {
				data = strings.ReplaceAll(data, "\t", " ")
			}
			if strings.HasPrefix(data, " ") || strings.HasSuffix(data, " ") {
				data = strings.TrimSpace(data)
			}
			for strings.Contains(data, "  ") {
				data = strings.ReplaceAll(data, "  ", " ")
			}
			writeLine(&out, level, xref, tag, data)
		}
	}

	return out.String()
}

func writeLine(out *strings.Builder, level int, xref, tag, data string) {
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
	fmt.Fprintf(out, "%d ", level)
	if level == 0 && xref != "" {
		out.WriteString(xref)
		out.WriteByte(' ')
	}
	out.WriteString(tag)
	if data != "" || tag == "NOTE" {
		out.WriteByte(' ')
		out.WriteString(data)
	}
}

// splitPlacCoordinates handles The Master Genealogist's habit of embedding
// DDMMSS[NS]DDDMMSS[EW] coordinates in the PLAC value, e.g.
// "Pennsylvania, USA, 395945N0751013W". The coordinate is split out into
// synthesized MAP/LATI/LONG child lines. Any other embedded format is
// treated as ordinary place text.
func splitPlacCoordinates(data string, level int) string {
	m := placCoordRe.FindStringSubmatch(data)
	if m == nil {
		return data
	}
	lati := m[5] + formatCoord(m[2], m[3], m[4])
	long := m[9] + formatCoord(m[6], m[7], m[8])
	return m[1] + "\n" +
		fmt.Sprintf("%d MAP\n", level+1) +
		fmt.Sprintf("%d LATI %s\n", level+2, lati) +
		fmt.Sprintf("%d LONG %s", level+2, long)
}

// formatCoord converts degree/minute/second strings to rounded decimal degrees.
func formatCoord(deg, min, sec string) string {
	d := float64(atoi(deg)) + float64(atoi(min))/60 + float64(atoi(sec))/3600
	d = math.Round(d*10000) / 10000
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", d), "0"), ".")
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
