package normalize

import (
	"strings"
	"unicode"
)

// IsSpace matches the whitespace class used by the publishing tools that
// produced existing module names and ids: the line terminators, the Zs space
// separators, tab, vertical tab, form feed and the byte order mark. U+0085 is
// not included.
func IsSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// ModuleName derives a module_name from a human-readable name by deleting every
// whitespace rune, including internal runs. It does not trim or change case.
// Examples:
//
//	"Mod B"        -> "ModB"
//	" Star  Wars " -> "StarWars"
func ModuleName(s string) string {
	if strings.IndexFunc(s, IsSpace) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
