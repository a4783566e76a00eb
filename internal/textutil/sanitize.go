package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const ukrainianAlphabet = "абвгдеєжзиіїйклмнопрстуфхцчшщьюя"

var romanizations = [...]string{
	"a", "b", "v", "g", "d", "e", "je", "zh", "z", "y", "i", "ji", "j", "k", "l", "m",
	"n", "o", "p", "r", "s", "t", "u", "f", "h", "ts", "ch", "sh", "sch", "", "ju", "ja",
}

// transliteration maps each alphabet letter (both cases) to its ASCII romanization.
// Uppercase letters map to the fully uppercased romanization.
var transliteration = buildTransliteration()

func buildTransliteration() map[rune]string {
	lower := []rune(ukrainianAlphabet)
	if len(lower) != len(romanizations) {
		panic("textutil: transliteration table length mismatch")
	}
	upperLetters := cases.Upper(language.Ukrainian)
	upperLatin := cases.Upper(language.Und)
	table := make(map[rune]string, len(lower)*2)
	for i, r := range lower {
		table[r] = romanizations[i]
		upper := []rune(upperLetters.String(string(r)))
		if len(upper) == 1 {
			table[upper[0]] = upperLatin.String(romanizations[i])
		}
	}
	return table
}

// Normalize transliterates and sanitizes a filename.
//
// The base name is everything before the first dot and the extension is
// everything after it; only the base name is rewritten. Input is composed to
// NFC first. Ukrainian letters become their ASCII romanization, other letters,
// numbers and underscores are kept, and every remaining rune (punctuation,
// spaces, combining marks that did not compose) becomes an underscore. Names
// without a dot come back without one.
func Normalize(name string) string {
	name = norm.NFC.String(name)
	base, ext, hasExt := strings.Cut(name, ".")

	var b strings.Builder
	b.Grow(len(base) + len(ext) + 1)
	for _, r := range base {
		if roman, ok := transliteration[r]; ok {
			b.WriteString(roman)
			continue
		}
		if isWordRune(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	if hasExt {
		b.WriteByte('.')
		b.WriteString(ext)
	}
	return b.String()
}

// isWordRune matches a regexp \w character in Unicode mode: any letter,
// any number (decimal, letter-like or other) or underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Letters are lowercased, digits and hyphens/underscores are kept, everything
// else becomes an underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
