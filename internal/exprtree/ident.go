package exprtree

// IsIdentifier reports whether s is a plain identifier: a letter or
// underscore followed by letters, digits or underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !isIdentRune(r, i == 0) {
			return false
		}
	}
	return true
}

// IsDottedIdentifier reports whether s is one or more identifiers joined by
// dots, e.g. "featured.banner". A single identifier qualifies.
func IsDottedIdentifier(s string) bool {
	if s == "" {
		return false
	}
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '.' {
			if !IsIdentifier(s[start:i]) {
				return false
			}
			start = i + 1
		}
	}
	return true
}

func isIdentRune(r rune, first bool) bool {
	if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return true
	}
	return !first && r >= '0' && r <= '9'
}
