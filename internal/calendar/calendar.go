// Package calendar parses canonicalized GEDCOM date values into
// minimum/maximum calendar-day endpoints with Julian day number bounds,
// so that dates from different calendars stay comparable.
package calendar

import (
	"regexp"
	"strconv"
	"strings"
)

// Calendar escapes understood by the parser. Other escapes are preserved
// in Kind but fall back to Gregorian day arithmetic.
const (
	EscapeGregorian = "@#DGREGORIAN@"
	EscapeJulian    = "@#DJULIAN@"
)

var monthNumbers = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

var monthNames = [...]string{"", "JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

var monthLengths = [...]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

var annotationRe = regexp.MustCompile(`\(.*\)?\s*$`)

// YMD is one endpoint of a date, possibly partial (zero day and/or month).
type YMD struct {
	Day   int
	Month int
	Year  int // negative for B.C.
	Kind  string
}

// Date is a parsed DATE value. Min and Max coincide for single dates;
// Ranged reports whether the value was an explicit two-endpoint range
// (BET...AND, FROM...TO).
type Date struct {
	Min    YMD
	Max    YMD
	Ranged bool
}

// MonthName returns the canonical three-letter month abbreviation, or "".
func (d YMD) MonthName() string {
	if d.Month < 1 || d.Month > 12 {
		return ""
	}
	return monthNames[d.Month]
}

// MinJulianDay returns the Julian day number of the first day the
// (possibly partial) endpoint covers, or 0 when no year is known.
func (d YMD) MinJulianDay() int {
	if d.Year == 0 {
		return 0
	}
	month, day := d.Month, d.Day
	if month == 0 {
		month, day = 1, 1
	} else if day == 0 {
		day = 1
	}
	return julianDay(d.Year, month, day, d.Kind)
}

// MaxJulianDay returns the Julian day number of the last covered day.
func (d YMD) MaxJulianDay() int {
	if d.Year == 0 {
		return 0
	}
	month, day := d.Month, d.Day
	if month == 0 {
		month, day = 12, 31
	} else if day == 0 {
		day = daysInMonth(d.Year, month)
	}
	return julianDay(d.Year, month, day, d.Kind)
}

// Parse interprets a DATE value that has already been through the
// normalizer's rewrite pass. Unrecognized tokens are skipped rather than
// rejected; a value with no recognizable year yields zero Julian days.
func Parse(value string) Date {
	value = strings.TrimSpace(annotationRe.ReplaceAllString(value, ""))
	tokens := strings.Fields(value)
	if len(tokens) == 0 {
		return Date{}
	}

	switch tokens[0] {
	case "BET":
		if i := indexToken(tokens, "AND"); i > 0 {
			return Date{
				Min:    parseEndpoint(tokens[1:i]),
				Max:    parseEndpoint(tokens[i+1:]),
				Ranged: true,
			}
		}
		tokens = tokens[1:]
	case "FROM":
		if i := indexToken(tokens, "TO"); i > 0 {
			return Date{
				Min:    parseEndpoint(tokens[1:i]),
				Max:    parseEndpoint(tokens[i+1:]),
				Ranged: true,
			}
		}
		tokens = tokens[1:]
	case "BEF", "AFT", "ABT", "CAL", "EST", "INT", "TO":
		tokens = tokens[1:]
	}

	ymd := parseEndpoint(tokens)
	return Date{Min: ymd, Max: ymd}
}

func indexToken(tokens []string, want string) int {
	for i, t := range tokens {
		if t == want {
			return i
		}
	}
	return -1
}

// parseEndpoint reads "[@#ESC@] [DD] [MON] [YYYY[/YY]] [B.C.]".
func parseEndpoint(tokens []string) YMD {
	ymd := YMD{Kind: EscapeGregorian}
	bc := false
	sawMonth := false

	for _, tok := range tokens {
		switch {
		case strings.HasPrefix(tok, "@#") && strings.HasSuffix(tok, "@"):
			ymd.Kind = tok
		case tok == "B.C." || tok == "BC":
			bc = true
		default:
			if m, ok := monthNumbers[tok]; ok {
				ymd.Month = m
				sawMonth = true
				continue
			}
			num := tok
			if i := strings.IndexByte(num, '/'); i >= 0 {
				// Dual year, e.g. "1732/33" - index on the first year.
				num = num[:i]
			}
			n, err := strconv.Atoi(num)
			if err != nil {
				continue
			}
			if !sawMonth && ymd.Day == 0 && n >= 1 && n <= 31 && len(tok) <= 2 {
				ymd.Day = n
			} else if ymd.Year == 0 {
				ymd.Year = n
			}
		}
	}

	// A bare number with no month is a year, not a day-of-month.
	if ymd.Year == 0 && ymd.Day != 0 && !sawMonth {
		ymd.Year, ymd.Day = ymd.Day, 0
	}
	if bc {
		ymd.Year = -ymd.Year
	}
	return ymd
}

// julianDay converts a calendar date to its Julian day number using the
// Fliegel-Van Flandern arithmetic for the Gregorian calendar and the
// standard Julian-calendar variant for @#DJULIAN@ dates. Years are
// historical (no year zero); B.C. years are negative.
func julianDay(year, month, day int, kind string) int {
	if year < 0 {
		year++ // astronomical numbering
	}
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	if kind == EscapeJulian {
		return day + (153*m+2)/5 + 365*y + y/4 - 32083
	}
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

func daysInMonth(year, month int) int {
	if month == 2 && leapYear(year) {
		return 29
	}
	return monthLengths[month]
}

func leapYear(year int) bool {
	if year < 0 {
		year++
	}
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
