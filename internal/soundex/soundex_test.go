package soundex

import "testing"

func TestRussell(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Smith", "S530"},
		{"Robert", "R163"},
		{"Pfister", "P236"},
		{"Tymczak", "T522"},
		{"Jackson", "J250"},
		{"John Smith", "J500:S530"},
		{"", ""},
		{"123", ""},
	}
	for _, c := range cases {
		if got := Russell(c.in); got != c.want {
			t.Errorf("Russell(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRussellDeduplicatesWords(t *testing.T) {
	if got := Russell("Smith Smith"); got != "S530" {
		t.Errorf("got %q, want single S530", got)
	}
}

func TestDaitchMokotoff(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Smith", "463000"},
		{"Moskowitz", "645740"},
		{"", ""},
	}
	for _, c := range cases {
		if got := DaitchMokotoff(c.in); got != c.want {
			t.Errorf("DaitchMokotoff(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDaitchMokotoffSimilarNamesMatch(t *testing.T) {
	// The point of the encoding: spelling variants collapse to one code.
	a := DaitchMokotoff("Moskowitz")
	b := DaitchMokotoff("Moskovitz")
	if a == "" || a != b {
		t.Errorf("Moskowitz %q != Moskovitz %q", a, b)
	}
}
