package norm

import (
	"regexp"
	"strings"
)

// The DATE cleanup below is a best-effort rewrite of free-form values from
// non-compliant producers into the standard escape/keyword grammar. It is
// idempotent; residue it cannot interpret passes through unchanged.
var (
	letterDigitRe  = regexp.MustCompile(`([A-Z])(\d)`)
	digitLetterRe  = regexp.MustCompile(`(\d)([A-Z])`)
	calEscapeRe    = regexp.MustCompile(`@#[^@]+@`)
	abbrevDotRe    = regexp.MustCompile(`(\w\w)\.`)
	eitherOrRe     = regexp.MustCompile(`^ EITHER (.+) OR (.+)`)
	betDashRe      = regexp.MustCompile(`^(.* BET .+) - (.+)`)
	fromDashRe     = regexp.MustCompile(`^(.* FROM .+) - (.+)`)
	escFromToRe    = regexp.MustCompile(`^ +(@#[^@]+@) +FROM +(.+) +TO +(.+)`)
	escBetAndRe    = regexp.MustCompile(`^ +(@#[^@]+@) +BET +(.+) +AND +(.+)`)
	escQualifierRe = regexp.MustCompile(`^ +(@#[^@]+@) +(FROM|BET|TO|AND|BEF|AFT|CAL|EST|INT|ABT) +(.+)`)
	datePunctRe    = regexp.MustCompile(`[.,:;-]`)
	multiSpaceRe   = regexp.MustCompile(` {2,}`)
)

// RewriteDate canonicalizes a DATE value. A trailing parenthesized
// free-text annotation (e.g. from INT dates) is split off first and
// reattached untouched.
func RewriteDate(value string) string {
	// Preserve text from INT dates.
	date := value
	text := ""
	if i := strings.IndexByte(value, '('); i >= 0 {
		date = value[:i]
		text = " (" + value[i+1:]
	}

	date = strings.ToUpper(date)
	// Boundary spaces allow whole-token matching below.
	date = " " + date + " "
	// Ensure space between digits and letters: "17MAY1900" => "17 MAY 1900".
	date = letterDigitRe.ReplaceAllString(date, "$1 $2")
	date = digitLetterRe.ReplaceAllString(date, "$1 $2")
	// Ensure space before/after calendar escapes.
	date = calEscapeRe.ReplaceAllString(date, " $0 ")
	// "BET." => "BET"
	date = abbrevDotRe.ReplaceAllString(date, "$1")
	// "CIR" => "ABT"
	date = strings.ReplaceAll(date, " CIR ", " ABT ")
	date = strings.ReplaceAll(date, " APX ", " ABT ")
	// B.C. => BC (temporarily, to allow easier handling of ".")
	date = strings.ReplaceAll(date, " B.C. ", " BC ")
	// TMG uses "EITHER X OR Y"
	date = eitherOrRe.ReplaceAllString(date, " BET $1 AND $2")
	// "BET X - Y" => "BET X AND Y"
	date = betDashRe.ReplaceAllString(date, "$1 AND $2")
	date = fromDashRe.ReplaceAllString(date, "$1 TO $2")
	// "@#ESC@ FROM X TO Y" => "FROM @#ESC@ X TO @#ESC@ Y"
	date = escFromToRe.ReplaceAllString(date, " FROM $1 $2 TO $1 $3")
	date = escBetAndRe.ReplaceAllString(date, " BET $1 $2 AND $1 $3")
	// "@#ESC@ AFT X" => "AFT @#ESC@ X"
	date = escQualifierRe.ReplaceAllString(date, " $2 $1 $3")
	// Ignore any remaining punctuation, e.g. "14-MAY, 1900" => "14 MAY 1900"
	// ("/" stays - it is used in NS/OS dual years).
	date = datePunctRe.ReplaceAllString(date, " ")
	// BC => B.C.
	date = strings.ReplaceAll(date, " BC ", " B.C. ")

	date = multiSpaceRe.ReplaceAllString(date, " ")
	return strings.TrimSpace(strings.TrimSpace(date) + text)
}
