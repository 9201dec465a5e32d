package upload

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces name to a flat ASCII filename: compatibility
// decomposed, non ASCII dropped, "/" and whitespace folded into underscores,
// anything outside [A-Za-z0-9_.-] removed (backslashes included) and leading
// or trailing dots and underscores trimmed. The result may be empty.
func SecureFilename(name string) string {
	decomposed := norm.NFKD.String(name)

	ascii := make([]byte, 0, len(decomposed))
	for i := 0; i < len(decomposed); i++ {
		if decomposed[i] < 0x80 {
			ascii = append(ascii, decomposed[i])
		}
	}

	flat := strings.ReplaceAll(string(ascii), "/", " ")
	joined := strings.Join(strings.Fields(flat), "_")

	return strings.Trim(unsafeFilenameChars.ReplaceAllString(joined, ""), "._")
}

// DisplayName picks the name reported for an uploaded part.
func DisplayName(filename, field string) string {
	if name := SecureFilename(filename); len(name) != 0 {
		return name
	}

	if name := SecureFilename(field); len(name) != 0 {
		return name
	}

	return "upload"
}
