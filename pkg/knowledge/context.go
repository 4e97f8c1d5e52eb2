package knowledge

import (
	"fmt"
	"sort"
	"strings"
)

// NoGrammarAvailable is the reserved display text for a language without
// any grammar data.
const NoGrammarAvailable = "No hay reglas gramaticales disponibles."

// NoPhrasesFound is the reserved display text for a zero-match phrase
// lookup. It never collides with phrase data, which is bilingual text.
const NoPhrasesFound = "No se encontraron frases relevantes."

// CategoryVocabulary renders all entries of one category as a labeled
// block. An unknown key yields a soft error message enumerating the known
// keys, it never fails.
func (b *Base) CategoryVocabulary(key string) string {
	i, ok := b.byKey[key]
	if !ok {
		available := strings.Join(b.AvailableCategories(), ", ")
		return fmt.Sprintf("Categoría '%s' no encontrada. Disponibles: %s", key, available)
	}
	cat := b.Dictionary.Categories[i]

	name := cat.Name
	if name == "" {
		name = cat.Key
	}
	lines := []string{"## " + name}
	for _, e := range cat.Entries {
		lines = append(lines, formatEntry(e))
	}
	return strings.Join(lines, "\n")
}

// AllVocabularyContext serializes every category and entry into one block
// for inclusion in a generation prompt. No size cap is applied; the data
// is assumed to be a small curated set.
func (b *Base) AllVocabularyContext() string {
	var sb strings.Builder
	for _, cat := range b.Dictionary.Categories {
		name := cat.Name
		if name == "" {
			name = cat.Key
		}
		sb.WriteString("\n[" + name + "]\n")
		for _, e := range cat.Entries {
			sb.WriteString("  " + e.Target + " = " + e.Source + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// GrammarContext renders the grammar sections in fixed order: word order,
// conjugation, common suffixes, negation. Sections without data are
// omitted entirely. A fully empty grammar yields NoGrammarAvailable.
func (b *Base) GrammarContext() string {
	if b.Grammar.Empty() {
		return NoGrammarAvailable
	}

	var lines []string

	wo := b.Grammar.WordOrder
	if wo.Basic != "" || wo.Description != "" || len(wo.Examples) > 0 {
		lines = append(lines, fmt.Sprintf("ORDEN DE PALABRAS: %s - %s", wo.Basic, wo.Description))
		for _, ex := range wo.Examples {
			lines = append(lines, fmt.Sprintf("  Ejemplo: %s = %s", ex.Target, ex.Source))
		}
	}

	conj := b.Grammar.Conjugation
	if conj.Description != "" || len(conj.Suffixes) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "CONJUGACIÓN: "+conj.Description)
		// map order is random, render sorted
		suffixes := make([]string, 0, len(conj.Suffixes))
		for s := range conj.Suffixes {
			suffixes = append(suffixes, s)
		}
		sort.Strings(suffixes)
		for _, s := range suffixes {
			lines = append(lines, fmt.Sprintf("  %s: %s", s, conj.Suffixes[s]))
		}
	}

	if len(b.Grammar.Suffixes) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "SUFIJOS COMUNES:")
		for _, s := range b.Grammar.Suffixes {
			lines = append(lines, fmt.Sprintf("  %s: %s (ej: %s)", s.Suffix, s.Meaning, s.Example))
		}
	}

	if b.Grammar.Negation.Description != "" {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "NEGACIÓN: "+b.Grammar.Negation.Description)
	}

	return strings.Join(lines, "\n")
}

// MatchingPhrases matches query as a case- and accent-insensitive
// substring against the source and target text of every phrase, in fixed
// section order: classroom, daily, cultural.
func (b *Base) MatchingPhrases(query string) []Phrase {
	q := fold(query)

	var matches []Phrase
	for _, section := range [][]Phrase{b.Phrases.Classroom, b.Phrases.Daily, b.Phrases.Cultural} {
		for _, p := range section {
			if strings.Contains(fold(p.Source), q) || strings.Contains(fold(p.Target), q) {
				matches = append(matches, p)
			}
		}
	}
	return matches
}

// FormatPhrases renders phrases as source/target line pairs with the
// pronunciation guide when present, or NoPhrasesFound when there are none.
// The target label is derived from the language key, e.g. "AW" for awajun.
func (b *Base) FormatPhrases(phrases []Phrase) string {
	if len(phrases) == 0 {
		return NoPhrasesFound
	}

	label := "??"
	if len(b.LanguageKey) >= 2 {
		label = strings.ToUpper(b.LanguageKey[:2])
	}

	var lines []string
	for _, p := range phrases {
		lines = append(lines, "  ES: "+p.Source)
		lines = append(lines, "  "+label+": "+p.Target)
		if p.Pronunciation != "" {
			lines = append(lines, "  Pronunciación: "+p.Pronunciation)
		}
		lines = append(lines, "")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
