package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Entry is a single bilingual dictionary entry. Context is an optional
// usage note shown next to the translation.
type Entry struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Context string `json:"context,omitempty"`
}

// Category groups dictionary entries under a display name, e.g. "Familia".
// Entry order is preserved as stored; duplicate terms are allowed.
type Category struct {
	Key     string  `json:"-"`
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// Dictionary holds all categories, sorted by key so that iteration order
// is stable across loads. JSON objects carry no order, we need one for
// deterministic search and context output.
type Dictionary struct {
	Categories []Category
}

type WordOrderExample struct {
	Target string `json:"target"`
	Source string `json:"source_natural"`
}

type WordOrder struct {
	Basic       string             `json:"basic"`
	Description string             `json:"description"`
	Examples    []WordOrderExample `json:"examples"`
}

type Conjugation struct {
	Description string            `json:"description"`
	Suffixes    map[string]string `json:"present_tense_suffixes"`
}

type Suffix struct {
	Suffix  string `json:"suffix"`
	Meaning string `json:"meaning"`
	Example string `json:"example"`
}

type Negation struct {
	Description string `json:"description"`
}

// Grammar is a loose collection of optional sections. An absent section
// means "nothing to report", not an error.
type Grammar struct {
	WordOrder   WordOrder   `json:"word_order"`
	Conjugation Conjugation `json:"verb_conjugation"`
	Suffixes    []Suffix    `json:"common_suffixes"`
	Negation    Negation    `json:"negation"`
}

// Empty reports whether no grammar section carries data.
func (g Grammar) Empty() bool {
	return g.WordOrder.Basic == "" && g.WordOrder.Description == "" && len(g.WordOrder.Examples) == 0 &&
		g.Conjugation.Description == "" && len(g.Conjugation.Suffixes) == 0 &&
		len(g.Suffixes) == 0 &&
		g.Negation.Description == ""
}

// Phrase is one bilingual phrase with optional pronunciation and cultural
// annotations.
type Phrase struct {
	Source        string `json:"source"`
	Target        string `json:"target"`
	Pronunciation string `json:"pronunciation_guide,omitempty"`
	Usage         string `json:"usage_context,omitempty"`
	CulturalNote  string `json:"cultural_note,omitempty"`
}

// PhraseBook has three fixed sections, always iterated in this order.
type PhraseBook struct {
	Classroom []Phrase `json:"classroom_phrases"`
	Daily     []Phrase `json:"daily_interaction"`
	Cultural  []Phrase `json:"cultural_expressions"`
}

// Base is the read-only in-memory view of one language's linguistic data.
// Each instance exclusively owns its loaded copies; construct one per
// logical session and discard it afterwards.
type Base struct {
	LanguageKey string
	Dictionary  Dictionary
	Grammar     Grammar
	Phrases     PhraseBook

	byKey map[string]int
}

// Load reads dictionary.json, grammar.json and phrases.json from
// <dataDir>/<languageKey>. A missing file yields an empty structure,
// downstream code treats empty and absent identically. A file that exists
// but does not parse is a hard error naming the offending file.
func Load(dataDir, languageKey string) (*Base, error) {
	dir := filepath.Join(dataDir, languageKey)
	b := &Base{LanguageKey: languageKey}

	var rawDict struct {
		Categories map[string]Category `json:"categories"`
	}
	if err := loadJSON(filepath.Join(dir, "dictionary.json"), &rawDict); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(rawDict.Categories))
	for k := range rawDict.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.byKey = make(map[string]int, len(keys))
	for i, k := range keys {
		cat := rawDict.Categories[k]
		cat.Key = k
		b.Dictionary.Categories = append(b.Dictionary.Categories, cat)
		b.byKey[k] = i
	}

	if err := loadJSON(filepath.Join(dir, "grammar.json"), &b.Grammar); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dir, "phrases.json"), &b.Phrases); err != nil {
		return nil, err
	}
	return b, nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read data file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("could not parse data file %s: %w", path, err)
	}
	return nil
}

// AvailableCategories lists the dictionary category keys in iteration order.
func (b *Base) AvailableCategories() []string {
	keys := make([]string, len(b.Dictionary.Categories))
	for i, c := range b.Dictionary.Categories {
		keys[i] = c.Key
	}
	return keys
}

// ClassroomPhrases returns the raw classroom section of the phrase book.
func (b *Base) ClassroomPhrases() []Phrase {
	return b.Phrases.Classroom
}

// CulturalExpressions returns the raw cultural section of the phrase book.
func (b *Base) CulturalExpressions() []Phrase {
	return b.Phrases.Cultural
}
