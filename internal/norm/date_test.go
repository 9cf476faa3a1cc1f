package norm

import "testing"

func TestRewriteDate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"17MAY1900", "17 MAY 1900"},
		{"14-MAY, 1900", "14 MAY 1900"},
		{"cir 1850", "ABT 1850"},
		{"apx 1850", "ABT 1850"},
		{"bet. 1900 - 1910", "BET 1900 AND 1910"},
		{"from 1900 - 1910", "FROM 1900 TO 1910"},
		{"EITHER 1900 OR 1910", "BET 1900 AND 1910"},
		{"44 B.C.", "44 B.C."},
		{"@#DJULIAN@ FROM 1900 TO 1910", "FROM @#DJULIAN@ 1900 TO @#DJULIAN@ 1910"},
		{"@#DJULIAN@ BET 1900 AND 1910", "BET @#DJULIAN@ 1900 AND @#DJULIAN@ 1910"},
		{"@#DJULIAN@ AFT 1900", "AFT @#DJULIAN@ 1900"},
		{"1732/33", "1732/33"},
		{"INT 1900 (about then)", "INT 1900 (about then)"},
		{"", ""},
	}
	for _, c := range cases {
		if got := RewriteDate(c.in); got != c.want {
			t.Errorf("RewriteDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRewriteDateIdempotent(t *testing.T) {
	for _, in := range []string{"17MAY1900", "bet. 1900 - 1910", "@#DJULIAN@ AFT 1900", "44 B.C."} {
		once := RewriteDate(in)
		if twice := RewriteDate(once); twice != once {
			t.Errorf("RewriteDate(%q): once %q, twice %q", in, once, twice)
		}
	}
}
