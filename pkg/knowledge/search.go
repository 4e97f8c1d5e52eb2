package knowledge

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NoEntriesFound is the reserved display text for a zero-match dictionary
// search. Presentation code may show it verbatim; callers of Search branch
// on the empty slice instead.
const NoEntriesFound = "No se encontraron entradas relevantes."

const defaultMaxResults = 10

// Match is one search hit together with the key of the category it was
// found in.
type Match struct {
	Category string
	Entry    Entry
}

// fold lowercases and strips combining marks so that "numeros" matches
// "números". The Spanish side of the data carries diacritics, user input
// often does not.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Search matches query as a case- and accent-insensitive substring against
// the source and target term of every entry, in category iteration order.
// The first maxResults hits win, there is no ranking. maxResults <= 0 means
// the default of 10.
func (b *Base) Search(query string, maxResults int) []Match {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	q := fold(query)

	var matches []Match
	for _, cat := range b.Dictionary.Categories {
		for _, e := range cat.Entries {
			if !strings.Contains(fold(e.Source), q) && !strings.Contains(fold(e.Target), q) {
				continue
			}
			matches = append(matches, Match{Category: cat.Key, Entry: e})
			if len(matches) >= maxResults {
				return matches
			}
		}
	}
	return matches
}

// FormatMatches renders search hits as "target = source (context)" lines,
// or NoEntriesFound when there are none.
func FormatMatches(matches []Match) string {
	if len(matches) == 0 {
		return NoEntriesFound
	}
	lines := make([]string, len(matches))
	for i, m := range matches {
		lines[i] = formatEntry(m.Entry)
	}
	return strings.Join(lines, "\n")
}

func formatEntry(e Entry) string {
	line := "  " + e.Target + " = " + e.Source
	if e.Context != "" {
		line += " (" + e.Context + ")"
	}
	return line
}
