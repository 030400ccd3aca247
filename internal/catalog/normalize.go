package catalog

import "strings"

// NormalizeName converts a raw card name into its canonical lookup
// form: lowercase, trimmed, inner whitespace collapsed, typographic
// apostrophes unified. Two textual variants of the same card must
// normalize to the same string.
func NormalizeName(raw string) string {
	s := strings.ToLower(raw)
	s = strings.ReplaceAll(s, "’", "'")
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// frontFace returns the front-face portion of a double-faced or split
// card name ("Fire // Ice" -> "Fire"). Returns the input unchanged for
// single-faced names.
func frontFace(name string) string {
	if idx := strings.Index(name, " // "); idx > 0 {
		return name[:idx]
	}
	return name
}
