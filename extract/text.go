package extract

import "unicode/utf8"

// extractText decodes plain-text bytes. Decoding never fails: invalid UTF-8
// falls back to Latin-1, where every byte maps to the code point of the same
// value.
func extractText(data []byte) (string, Metadata) {
	meta := Metadata{
		"filetype":      string(FormatTXT),
		"title":         "N/A",
		"author":        "N/A",
		"creation_date": "N/A",
	}

	if utf8.Valid(data) {
		return string(data), meta
	}

	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes), meta
}
