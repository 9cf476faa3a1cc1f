package soundex

import "strings"

// dmRule encodes one Daitch-Mokotoff substitution: the code emitted when
// the pattern starts the word, when it precedes a vowel, and in any other
// position. "-" means "no code" (the pattern is silent in that position).
type dmRule struct {
	pattern     string
	atStart     string
	beforeVowel string
	other       string
}

// Longest-match-first rule table. This is the primary-branch subset of the
// standard Daitch-Mokotoff table; the alternate codings (e.g. CH as 4)
// are not emitted.
var dmRules = []dmRule{
	{"SCHTSCH", "2", "4", "4"}, {"SCHTSH", "2", "4", "4"}, {"SCHTCH", "2", "4", "4"},
	{"SHTCH", "2", "4", "4"}, {"SHTSH", "2", "4", "4"}, {"STSCH", "2", "4", "4"},
	{"TTSCH", "4", "4", "4"}, {"ZHDZH", "2", "4", "4"},
	{"SHCH", "2", "4", "4"}, {"SCHT", "2", "43", "43"}, {"SCHD", "2", "43", "43"},
	{"STCH", "2", "4", "4"}, {"STRZ", "2", "4", "4"}, {"STRS", "2", "4", "4"},
	{"STSH", "2", "4", "4"}, {"SZCZ", "2", "4", "4"}, {"SZCS", "2", "4", "4"},
	{"TTCH", "4", "4", "4"}, {"TSCH", "4", "4", "4"}, {"TTSZ", "4", "4", "4"},
	{"ZDZH", "2", "4", "4"}, {"ZSCH", "4", "4", "4"},
	{"CHS", "5", "54", "54"}, {"CSZ", "4", "4", "4"}, {"CZS", "4", "4", "4"},
	{"DRZ", "4", "4", "4"}, {"DRS", "4", "4", "4"}, {"DSH", "4", "4", "4"},
	{"DSZ", "4", "4", "4"}, {"DZH", "4", "4", "4"}, {"DZS", "4", "4", "4"},
	{"SCH", "4", "4", "4"}, {"SHT", "2", "43", "43"}, {"SZT", "2", "43", "43"},
	{"SHD", "2", "43", "43"}, {"SZD", "2", "43", "43"}, {"TCH", "4", "4", "4"},
	{"TRZ", "4", "4", "4"}, {"TRS", "4", "4", "4"}, {"TSH", "4", "4", "4"},
	{"TTS", "4", "4", "4"}, {"TTZ", "4", "4", "4"}, {"TZS", "4", "4", "4"},
	{"TSZ", "4", "4", "4"}, {"ZDZ", "2", "4", "4"}, {"ZHD", "2", "43", "43"},
	{"ZSH", "4", "4", "4"},
	{"AI", "0", "1", "-"}, {"AJ", "0", "1", "-"}, {"AY", "0", "1", "-"},
	{"AU", "0", "7", "-"}, {"CH", "5", "5", "5"}, {"CK", "5", "5", "5"},
	{"CS", "4", "4", "4"}, {"CZ", "4", "4", "4"},
	{"DS", "4", "4", "4"}, {"DT", "3", "3", "3"},
	{"DZ", "4", "4", "4"}, {"EI", "0", "1", "-"}, {"EJ", "0", "1", "-"},
	{"EY", "0", "1", "-"}, {"EU", "1", "1", "-"}, {"FB", "7", "7", "7"},
	{"IA", "1", "-", "-"}, {"IE", "1", "-", "-"}, {"IO", "1", "-", "-"},
	{"IU", "1", "-", "-"}, {"KS", "5", "54", "54"}, {"KH", "5", "5", "5"},
	{"MN", "66", "66", "66"}, {"NM", "66", "66", "66"},
	{"OI", "0", "1", "-"}, {"OJ", "0", "1", "-"}, {"OY", "0", "1", "-"},
	{"PF", "7", "7", "7"}, {"PH", "7", "7", "7"}, {"RZ", "94", "94", "94"},
	{"RS", "94", "94", "94"}, {"SC", "2", "4", "4"}, {"SD", "2", "43", "43"},
	{"SH", "4", "4", "4"}, {"ST", "2", "43", "43"}, {"SZ", "4", "4", "4"},
	{"TC", "4", "4", "4"}, {"TH", "3", "3", "3"}, {"TS", "4", "4", "4"},
	{"TZ", "4", "4", "4"}, {"UI", "0", "1", "-"}, {"UJ", "0", "1", "-"},
	{"UY", "0", "1", "-"}, {"UE", "0", "-", "-"}, {"ZD", "2", "43", "43"},
	{"ZH", "4", "4", "4"}, {"ZS", "4", "4", "4"},
	{"A", "0", "-", "-"}, {"B", "7", "7", "7"}, {"C", "5", "5", "5"},
	{"D", "3", "3", "3"}, {"E", "0", "-", "-"}, {"F", "7", "7", "7"},
	{"G", "5", "5", "5"}, {"H", "5", "5", "-"}, {"I", "0", "-", "-"},
	{"J", "1", "-", "-"}, {"K", "5", "5", "5"}, {"L", "8", "8", "8"},
	{"M", "6", "6", "6"}, {"N", "6", "6", "6"}, {"O", "0", "-", "-"},
	{"P", "7", "7", "7"}, {"Q", "5", "5", "5"}, {"R", "9", "9", "9"},
	{"S", "4", "4", "4"}, {"T", "3", "3", "3"}, {"U", "0", "-", "-"},
	{"V", "7", "7", "7"}, {"W", "7", "7", "7"}, {"X", "5", "54", "54"},
	{"Y", "1", "-", "-"}, {"Z", "4", "4", "4"},
}

func isDMVowel(c byte) bool {
	switch c {
	case 'A', 'E', 'I', 'O', 'U', 'J', 'Y':
		return true
	}
	return false
}

// DaitchMokotoff returns the Daitch-Mokotoff codes (six digits per word)
// for each word of text, deduplicated and joined with ":".
func DaitchMokotoff(text string) string {
	var codes []string
	seen := make(map[string]struct{})
	for _, word := range splitWords(text) {
		code := dmWord(word)
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

func dmWord(word string) string {
	var code strings.Builder
	lastCode := ""
	pos := 0
	for pos < len(word) && code.Len() < 6 {
		rule, ok := matchDMRule(word[pos:])
		if !ok {
			pos++
			continue
		}
		var c string
		switch {
		case pos == 0:
			c = rule.atStart
		case pos+len(rule.pattern) < len(word) && isDMVowel(word[pos+len(rule.pattern)]):
			c = rule.beforeVowel
		default:
			c = rule.other
		}
		if c == "-" {
			// Uncoded position (e.g. a medial vowel): it separates
			// repeated consonants, so they are coded twice.
			lastCode = ""
		} else {
			if c != lastCode {
				code.WriteString(c)
			}
			lastCode = c
		}
		pos += len(rule.pattern)
	}
	if code.Len() == 0 {
		return ""
	}
	out := code.String()
	if len(out) > 6 {
		out = out[:6]
	}
	for len(out) < 6 {
		out += "0"
	}
	return out
}

func matchDMRule(s string) (dmRule, bool) {
	for _, rule := range dmRules {
		if strings.HasPrefix(s, rule.pattern) {
			return rule, true
		}
	}
	return dmRule{}, false
}
