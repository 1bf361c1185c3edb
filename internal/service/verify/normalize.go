package verify

import "strings"

// NormalizePhone strips spaces and hyphens and drops leading trunk zeros
// while the remainder is longer than ten digits, so "0555 111-22-33" and
// "5551112233" compare equal. The function is idempotent.
func NormalizePhone(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-':
			return -1
		}
		return r
	}, raw)
	for len(cleaned) > 10 && cleaned[0] == '0' {
		cleaned = cleaned[1:]
	}
	return cleaned
}

// turkishFold maps each accented letter to its unaccented Latin
// equivalent with a fixed table. Locale-dependent case folding would make
// the dotted/dotless i pair platform dependent, so both are pinned here.
var turkishFold = map[rune]rune{
	'Ç': 'c', 'ç': 'c',
	'Ğ': 'g', 'ğ': 'g',
	'İ': 'i', 'ı': 'i', 'I': 'i',
	'Ö': 'o', 'ö': 'o',
	'Ş': 's', 'ş': 's',
	'Ü': 'u', 'ü': 'u',
	'Â': 'a', 'â': 'a',
	'Î': 'i', 'î': 'i',
	'Û': 'u', 'û': 'u',
}

// FoldName lowercases a name and folds Turkish diacritics so that
// "zeynep" matches the stored "Zeynep Yılmaz".
func FoldName(s string) string {
	return strings.Map(func(r rune) rune {
		if folded, ok := turkishFold[r]; ok {
			return folded
		}
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, strings.TrimSpace(s))
}
