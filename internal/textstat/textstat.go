package textstat

import (
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// CountWords counts maximal runs of letters, digits and underscores.
func CountWords(text string) int {
	return len(wordPattern.FindAllStringIndex(text, -1))
}

// CountChars counts code points, not bytes.
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}

// Decode returns data as text. Valid UTF-8 is used as is; anything else is
// read as ISO-8859-1, which maps every byte to a rune and so cannot fail.
func Decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}

	return string(decoded)
}
