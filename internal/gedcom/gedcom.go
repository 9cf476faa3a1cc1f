// Package gedcom defines the line-oriented GEDCOM grammar: xref and tag
// token shapes, line splitting, and record classification.
package gedcom

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fernwood/gedbase/internal/apperr"
	"github.com/fernwood/gedbase/internal/models"
)

// Textual grammar shared with the rest of the system.
const (
	// RegexXref matches a cross-reference identifier (without @ delimiters).
	RegexXref = `[A-Za-z0-9:_][A-Za-z0-9:_.-]{0,19}`
	// RegexTag matches a GEDCOM tag token.
	RegexTag = `[_A-Z0-9]+`
)

var (
	lineEndingsRe = regexp.MustCompile(`[\r\n]+`)
	lineRe        = regexp.MustCompile(`(?m)^[ \t]*(\d+)[ \t]*(@[^@]*@)?[ \t]*(\w+)[ \t]?(.*)$`)
	headerRe      = regexp.MustCompile(`^0 @(` + RegexXref + `)@ (` + RegexTag + `)`)
	pseudoRe      = regexp.MustCompile(`0 (HEAD|TRLR)`)
)

// Line is one parsed GEDCOM line: level, optional @xref@, tag, value.
type Line struct {
	Level int
	Xref  string // includes the @ delimiters, empty if absent
	Tag   string
	Value string
}

// NormalizeEndings collapses mac/msdos line endings (and blank lines) to \n.
func NormalizeEndings(rec string) string {
	return lineEndingsRe.ReplaceAllString(rec, "\n")
}

// SplitLines parses a record into lines. Unparseable lines are dropped,
// matching the tolerant behavior expected of 30 years of vendor output.
func SplitLines(rec string) []Line {
	matches := lineRe.FindAllStringSubmatch(NormalizeEndings(rec), -1)
	lines := make([]Line, 0, len(matches))
	for _, m := range matches {
		level := 0
		for _, c := range m[1] {
			level = level*10 + int(c-'0')
		}
		lines = append(lines, Line{Level: level, Xref: m[2], Tag: m[3], Value: m[4]})
	}
	return lines
}

// Classify matches the level-0 header of a record and returns its xref and
// type. HEAD and TRLR have no xref; their tag doubles as a pseudo-xref so
// that one of each can exist per tree.
func Classify(rec string) (xref string, rtype models.RecordType, err error) {
	if m := headerRe.FindStringSubmatch(rec); m != nil {
		return m[1], models.RecordType(m[2]), nil
	}
	if m := pseudoRe.FindStringSubmatch(rec); m != nil {
		return m[1], models.RecordType(m[1]), nil
	}
	first := rec
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	return "", "", fmt.Errorf("%w: %q", apperr.ErrMalformedRecord, first)
}

// Value returns the value of the first line matching "\n<level> <tag> ",
// or "" if the record has no such line.
func Value(rec string, level int, tag string) string {
	re := regexp.MustCompile(`\n` + fmt.Sprintf("%d", level) + ` ` + regexp.QuoteMeta(tag) + ` (.+)`)
	if m := re.FindStringSubmatch(rec); m != nil {
		return m[1]
	}
	return ""
}

// SplitRecords splits the text of a whole GEDCOM file into records on
// level-0 boundaries.
func SplitRecords(data string) []string {
	data = NormalizeEndings(data)
	var out []string
	var cur strings.Builder
	for _, line := range strings.Split(data, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "0 ") || trimmed == "0" {
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
