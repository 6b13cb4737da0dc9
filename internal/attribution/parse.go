// Package attribution turns StoryWeaver attribution notes into book metadata.
package attribution

import (
	"regexp"
	"strings"

	"github.com/5w1tchy/storyshelf/internal/models"
)

// rule extracts one field from the raw attribution text. An empty result
// leaves the field untouched.
type rule struct {
	field   string
	extract func(text string) string
	set     func(b *models.Book, v string)
}

var (
	reNoteLabel   = regexp.MustCompile(`(?i)Attribution Text:\s*(.*)`)
	reTitle       = regexp.MustCompile(`(?im)^title:([^\n]*)`)
	reAuthor      = regexp.MustCompile(`(?i)written by ([\s\S]*?)(?:illustrated by|published by|under|license|$)`)
	reTranslated  = regexp.MustCompile(`(?i)translated by ([^,]+)`)
	reIllustrated = regexp.MustCompile(`(?i)illustrated by ([^,]+)`)
	rePublished   = regexp.MustCompile(`(?i)published by ([^(]+)`)
	reLicense     = regexp.MustCompile(`Pratham Books \(© Pratham Books,\s*\d{4}\) under a CC BY 4\.0 license on StoryWeaver\. Read, create and translate stories for free on www\.storyweaver\.org\.in`)
)

var rules = []rule{
	{field: "attribution note", extract: attributionNote, set: func(b *models.Book, v string) { b.AttributionNote = v }},
	{field: "title", extract: capture(reTitle, strings.TrimSpace), set: func(b *models.Book, v string) { b.Title = v }},
	{field: "author", extract: capture(reAuthor, joinNames), set: func(b *models.Book, v string) { b.Author = v }},
	{field: "translated by", extract: capture(reTranslated, strings.TrimSpace), set: func(b *models.Book, v string) { b.TranslatedBy = v }},
	{field: "illustrated by", extract: capture(reIllustrated, strings.TrimSpace), set: func(b *models.Book, v string) { b.IllustratedBy = v }},
	{field: "published by", extract: capture(rePublished, strings.TrimSpace), set: func(b *models.Book, v string) { b.PublishedBy = v }},
	{field: "license", extract: reLicense.FindString, set: func(b *models.Book, v string) { b.License = v }},
}

// Parse applies every extraction rule to text. It never fails: a rule that
// does not match leaves its field empty.
func Parse(text string) models.Book {
	var b models.Book
	for _, r := range rules {
		if v := r.extract(text); v != "" {
			r.set(&b, v)
		}
	}
	return b
}

// Fields returns the value each rule extracts from text, keyed by field name.
func Fields(text string) map[string]string {
	out := make(map[string]string, len(rules))
	for _, r := range rules {
		out[r.field] = r.extract(text)
	}
	return out
}

func capture(re *regexp.Regexp, post func(string) string) func(string) string {
	return func(text string) string {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			return ""
		}
		return post(m[1])
	}
}

// attributionNote takes the remainder of the first line mentioning
// "attribution text", or the whole trimmed text when that yields nothing.
func attributionNote(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(strings.ToLower(line), "attribution text") {
			continue
		}
		if m := reNoteLabel.FindStringSubmatch(line); len(m) == 2 {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
		break
	}
	return strings.TrimSpace(text)
}

func joinNames(s string) string {
	parts := strings.Split(s, ",")
	names := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return strings.Join(names, ", ")
}
