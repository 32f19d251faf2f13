package services

import "strings"

// soundexCodes maps consonants to their Soundex digit. Vowels and the
// letters H, W, Y have no code and reset the run-length collapsing.
var soundexCodes = map[byte]byte{
	'B': '1', 'F': '1', 'P': '1', 'V': '1',
	'C': '2', 'G': '2', 'J': '2', 'K': '2', 'Q': '2', 'S': '2', 'X': '2', 'Z': '2',
	'D': '3', 'T': '3',
	'L': '4',
	'M': '5', 'N': '5',
	'R': '6',
}

// soundex returns the four-character Soundex code of s, or "0000" for
// input without ASCII letters. Pure function so repeated calls with the
// same input always agree.
func soundex(s string) string {
	s = strings.ToUpper(s)

	// Find the first ASCII letter to anchor the code.
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			start = i
			break
		}
	}
	if start < 0 {
		return "0000"
	}

	code := []byte{s[start]}
	prev := soundexCodes[s[start]]
	for i := start + 1; i < len(s) && len(code) < 4; i++ {
		c := s[i]
		if c < 'A' || c > 'Z' {
			continue
		}
		d, ok := soundexCodes[c]
		if !ok {
			prev = 0
			continue
		}
		if d != prev {
			code = append(code, d)
			prev = d
		}
	}
	for len(code) < 4 {
		code = append(code, '0')
	}
	return string(code)
}

// phoneticEqual reports whether two values sound alike. Values without
// letters have no phonetic content and never match.
func phoneticEqual(a, b string) bool {
	ca, cb := soundex(a), soundex(b)
	if ca == "0000" || cb == "0000" {
		return false
	}
	return ca == cb
}
