package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, key string) *Base {
	t.Helper()
	b, err := Load("testdata", key)
	require.NoError(t, err)
	return b
}

func TestLoad(t *testing.T) {
	b := load(t, "awajun")

	assert.Equal(t, []string{"familia", "naturaleza", "numeros", "saludos"}, b.AvailableCategories())
	assert.False(t, b.Grammar.Empty())
	assert.NotEmpty(t, b.Phrases.Classroom)
	assert.NotEmpty(t, b.Phrases.Cultural)
}

func TestLoadMissingFilesYieldEmptyBase(t *testing.T) {
	b, err := Load(t.TempDir(), "awajun")
	require.NoError(t, err)

	assert.Empty(t, b.AvailableCategories())
	assert.Empty(t, b.Search("madre", 10))
	assert.Equal(t, NoEntriesFound, FormatMatches(b.Search("madre", 10)))
	assert.Equal(t, NoGrammarAvailable, b.GrammarContext())
	assert.Equal(t, NoPhrasesFound, b.FormatPhrases(b.MatchingPhrases("hola")))
	assert.Empty(t, b.ClassroomPhrases())
	assert.Empty(t, b.CulturalExpressions())
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load("testdata", "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dictionary.json")
}

func TestSearch(t *testing.T) {
	b := load(t, "awajun")

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"source term", "madre", "dukug"},
		{"target term", "yumi", "agua"},
		{"case insensitive", "MADRE", "dukug"},
		{"accent insensitive", "rio", "namak"},
		{"substring", "herman", "yatsug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := b.Search(tt.query, 10)
			require.NotEmpty(t, matches)
			assert.Contains(t, FormatMatches(matches), tt.want)
		})
	}
}

func TestSearchNoResults(t *testing.T) {
	b := load(t, "awajun")

	matches := b.Search("xyznonexistent", 10)
	assert.Empty(t, matches)
	assert.Equal(t, NoEntriesFound, FormatMatches(matches))
}

func TestSearchMaxResults(t *testing.T) {
	b := load(t, "awajun")

	// "a" occurs in nearly every entry
	assert.Len(t, b.Search("a", 2), 2)
	// non-positive falls back to the default of 10
	assert.Len(t, b.Search("a", 0), 10)
}

func TestSearchFormatIncludesContext(t *testing.T) {
	b := load(t, "awajun")

	got := FormatMatches(b.Search("hola", 10))
	assert.Contains(t, got, "wiyaj = hola (saludo informal)")
}

func TestCategoryVocabulary(t *testing.T) {
	b := load(t, "awajun")

	got := b.CategoryVocabulary("numeros")
	assert.Contains(t, got, "## Números")
	assert.Contains(t, got, "makichik")
	assert.Contains(t, got, "uno")
}

func TestCategoryVocabularyUnknownKey(t *testing.T) {
	b := load(t, "awajun")

	got := b.CategoryVocabulary("verbos")
	assert.Contains(t, got, "no encontrada")
	assert.Contains(t, got, "familia, naturaleza, numeros, saludos")
}

func TestAllVocabularyContextIsSuperset(t *testing.T) {
	b := load(t, "awajun")

	all := b.AllVocabularyContext()
	for _, cat := range b.Dictionary.Categories {
		assert.Contains(t, all, "["+cat.Name+"]")
		for _, e := range cat.Entries {
			assert.Contains(t, all, e.Target+" = "+e.Source)
		}
	}
}

func TestGrammarContext(t *testing.T) {
	b := load(t, "awajun")

	got := b.GrammarContext()
	assert.Contains(t, got, "ORDEN DE PALABRAS: SOV")
	assert.Contains(t, got, "Ejemplo: Wi yumin umajai = Yo bebo agua")
	assert.Contains(t, got, "CONJUGACIÓN:")
	assert.Contains(t, got, "-jai: primera persona singular (yo)")
	assert.Contains(t, got, "SUFIJOS COMUNES:")
	assert.Contains(t, got, "-num: locativo (en) (ej: jeganum = en la casa)")
	assert.Contains(t, got, "NEGACIÓN:")
}

func TestGrammarContextSuffixTableIsSorted(t *testing.T) {
	b := load(t, "awajun")

	got := b.GrammarContext()
	assert.Less(t, strings.Index(got, "-jai:"), strings.Index(got, "-me:"))
	assert.Less(t, strings.Index(got, "-me:"), strings.Index(got, "-wai:"))
}

func TestGrammarContextOmitsEmptySections(t *testing.T) {
	b := load(t, "negation_only")

	got := b.GrammarContext()
	assert.Contains(t, got, "NEGACIÓN:")
	assert.NotContains(t, got, "ORDEN DE PALABRAS")
	assert.NotContains(t, got, "CONJUGACIÓN")
	assert.NotContains(t, got, "SUFIJOS COMUNES")
}

func TestMatchingPhrases(t *testing.T) {
	b := load(t, "awajun")

	matches := b.MatchingPhrases("cuadernos")
	require.Len(t, matches, 1)
	assert.Equal(t, "Papí ujaktajum", matches[0].Target)

	got := b.FormatPhrases(matches)
	assert.Contains(t, got, "ES: Abran sus cuadernos")
	assert.Contains(t, got, "AW: Papí ujaktajum")
}

func TestMatchingPhrasesSectionOrder(t *testing.T) {
	b := load(t, "awajun")

	// "pegkeg" occurs twice in the classroom section; stored order wins
	matches := b.MatchingPhrases("pegkeg")
	require.NotEmpty(t, matches)
	assert.Equal(t, "Tsawan pegkeg, uchi aidau", matches[0].Target)
}

func TestMatchingPhrasesNoResults(t *testing.T) {
	b := load(t, "awajun")

	matches := b.MatchingPhrases("xyznonexistent")
	assert.Empty(t, matches)
	assert.Equal(t, NoPhrasesFound, b.FormatPhrases(matches))
}

func TestFormatPhrasesRendersPronunciation(t *testing.T) {
	b := load(t, "awajun")

	got := b.FormatPhrases(b.MatchingPhrases("¿Cómo estás?"))
	assert.Contains(t, got, "Pronunciación: A-mesh WA-juk pu-JA-me")
}

func TestPhraseAccessors(t *testing.T) {
	b := load(t, "awajun")

	classroom := b.ClassroomPhrases()
	require.NotEmpty(t, classroom)
	assert.Equal(t, "Buenos días, niños", classroom[0].Source)

	cultural := b.CulturalExpressions()
	require.NotEmpty(t, cultural)
	assert.NotEmpty(t, cultural[0].CulturalNote)
}
