// Package soundex implements the two phonetic encodings used by the name
// index: the classic Russell soundex and a Daitch-Mokotoff style encoding.
// Multi-word names produce one code per word, joined with ":".
package soundex

import "strings"

var russellCodes = map[byte]byte{
	'B': '1', 'F': '1', 'P': '1', 'V': '1',
	'C': '2', 'G': '2', 'J': '2', 'K': '2', 'Q': '2', 'S': '2', 'X': '2', 'Z': '2',
	'D': '3', 'T': '3',
	'L': '4',
	'M': '5', 'N': '5',
	'R': '6',
}

// Russell returns the Russell soundex codes for each word of text,
// deduplicated and joined with ":". Returns "" when no word is encodable.
func Russell(text string) string {
	var codes []string
	seen := make(map[string]struct{})
	for _, word := range splitWords(text) {
		code := russellWord(word)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return strings.Join(codes, ":")
}

func russellWord(word string) string {
	if word == "" {
		return ""
	}
	code := []byte{word[0]}
	last := russellCodes[word[0]]
	for i := 1; i < len(word) && len(code) < 4; i++ {
		c := word[i]
		digit := russellCodes[c]
		switch {
		case digit == 0:
			// H and W do not reset the previous code; vowels do.
			if c != 'H' && c != 'W' {
				last = 0
			}
		case digit != last:
			code = append(code, digit)
			last = digit
		}
	}
	for len(code) < 4 {
		code = append(code, '0')
	}
	return string(code)
}

// splitWords extracts runs of ASCII letters, uppercased. Non-Latin input
// yields no words (and therefore no code), matching the behavior of the
// classic algorithm.
func splitWords(text string) []string {
	var words []string
	var cur []byte
	for _, r := range strings.ToUpper(text) {
		if r >= 'A' && r <= 'Z' {
			cur = append(cur, byte(r))
			continue
		}
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}
	if len(cur) > 0 {
		words = append(words, string(cur))
	}
	return words
}
