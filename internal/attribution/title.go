package attribution

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var reNumericPrefix = regexp.MustCompile(`^\d+-`)

// CleanTitle derives a readable title from a book directory name:
// "03-the-lost-kitten" becomes "The Lost Kitten".
func CleanTitle(folder string) string {
	s := reNumericPrefix.ReplaceAllString(folder, "")
	s = strings.ReplaceAll(s, "-", " ")

	// Casers carry state, so each call gets its own pair.
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = upper.String(string(r[:1])) + lower.String(string(r[1:]))
	}
	return strings.Join(words, " ")
}
