package calendar

import "testing"

func TestParseSingleDate(t *testing.T) {
	d := Parse("12 JUN 1876")
	if d.Ranged {
		t.Error("single date reported as ranged")
	}
	if d.Min != d.Max {
		t.Errorf("Min %+v != Max %+v", d.Min, d.Max)
	}
	if d.Min.Day != 12 || d.Min.Month != 6 || d.Min.Year != 1876 {
		t.Errorf("Min = %+v", d.Min)
	}
	if d.Min.MonthName() != "JUN" {
		t.Errorf("MonthName = %q", d.Min.MonthName())
	}
}

func TestParseYearOnly(t *testing.T) {
	d := Parse("1900")
	if d.Min.Year != 1900 || d.Min.Month != 0 || d.Min.Day != 0 {
		t.Errorf("Min = %+v", d.Min)
	}
	// Full-year span: 1 JAN .. 31 DEC.
	if d.Min.MaxJulianDay()-d.Min.MinJulianDay() != 364 {
		t.Errorf("span = %d..%d", d.Min.MinJulianDay(), d.Min.MaxJulianDay())
	}
}

func TestParseRange(t *testing.T) {
	d := Parse("BET 1900 AND 1910")
	if !d.Ranged {
		t.Fatal("BET...AND not reported as ranged")
	}
	if d.Min.Year != 1900 || d.Max.Year != 1910 {
		t.Errorf("range = %+v .. %+v", d.Min, d.Max)
	}

	d = Parse("FROM 1900 TO 1910")
	if !d.Ranged || d.Min.Year != 1900 || d.Max.Year != 1910 {
		t.Errorf("FROM...TO = %+v", d)
	}
}

func TestParseQualifiers(t *testing.T) {
	for _, in := range []string{"ABT 1850", "BEF 1850", "AFT 1850", "EST 1850"} {
		d := Parse(in)
		if d.Ranged || d.Min.Year != 1850 {
			t.Errorf("Parse(%q) = %+v", in, d)
		}
	}
}

func TestParseBC(t *testing.T) {
	d := Parse("44 B.C.")
	if d.Min.Year != -44 {
		t.Errorf("year = %d, want -44", d.Min.Year)
	}
	if d.Min.MinJulianDay() <= 0 {
		t.Errorf("B.C. julian day = %d, want positive", d.Min.MinJulianDay())
	}
}

func TestParseDualYear(t *testing.T) {
	d := Parse("11 FEB 1732/33")
	if d.Min.Year != 1732 || d.Min.Day != 11 || d.Min.Month != 2 {
		t.Errorf("Min = %+v", d.Min)
	}
}

func TestParseUnparseable(t *testing.T) {
	d := Parse("DEAD (DUPLICATE)")
	if d.Min.MinJulianDay() != 0 || d.Max.MaxJulianDay() != 0 {
		t.Errorf("julian days = %d..%d, want 0..0", d.Min.MinJulianDay(), d.Max.MaxJulianDay())
	}
}

func TestJulianDayKnownValues(t *testing.T) {
	// 1 JAN 2000 (Gregorian) is JD 2451545; the same nominal day in the
	// Julian calendar falls 13 days later.
	g := YMD{Day: 1, Month: 1, Year: 2000, Kind: EscapeGregorian}
	if jd := g.MinJulianDay(); jd != 2451545 {
		t.Errorf("gregorian JD = %d, want 2451545", jd)
	}
	j := YMD{Day: 1, Month: 1, Year: 2000, Kind: EscapeJulian}
	if jd := j.MinJulianDay(); jd != 2451558 {
		t.Errorf("julian JD = %d, want 2451558", jd)
	}
}

func TestJulianCalendarEscape(t *testing.T) {
	d := Parse("@#DJULIAN@ 1 JAN 2000")
	if d.Min.Kind != EscapeJulian {
		t.Errorf("kind = %q", d.Min.Kind)
	}
	if jd := d.Min.MinJulianDay(); jd != 2451558 {
		t.Errorf("JD = %d, want 2451558", jd)
	}
}

func TestLeapYearFebruary(t *testing.T) {
	feb := YMD{Month: 2, Year: 2000, Kind: EscapeGregorian}
	if feb.MaxJulianDay()-feb.MinJulianDay() != 28 {
		t.Errorf("feb 2000 spans %d days, want 29", feb.MaxJulianDay()-feb.MinJulianDay()+1)
	}
	feb1900 := YMD{Month: 2, Year: 1900, Kind: EscapeGregorian}
	if feb1900.MaxJulianDay()-feb1900.MinJulianDay() != 27 {
		t.Errorf("feb 1900 spans %d days, want 28", feb1900.MaxJulianDay()-feb1900.MinJulianDay()+1)
	}
}
