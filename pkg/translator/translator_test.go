package translator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratalie/aws-nova/pkg/config"
	"github.com/ratalie/aws-nova/pkg/knowledge"
)

type fakeGenerator struct {
	system string
	user   string
	reply  string
	err    error
}

func (f *fakeGenerator) Generate(_ context.Context, system, user string) (string, error) {
	f.system = system
	f.user = user
	return f.reply, f.err
}

var awajun = config.Language{Key: "awajun", Name: "Awajún", ISOCode: "agr"}

func newTranslator(t *testing.T, gen Generator) *Translator {
	t.Helper()
	kb, err := knowledge.Load("../knowledge/testdata", "awajun")
	require.NoError(t, err)
	return New(gen, kb, config.Source, awajun)
}

func TestTranslateToTarget(t *testing.T) {
	gen := &fakeGenerator{reply: "Yumi umajai"}
	tr := newTranslator(t, gen)

	res, err := tr.TranslateToTarget(context.Background(), "agua")
	require.NoError(t, err)

	assert.Equal(t, "agua", res.Original)
	assert.Equal(t, "Yumi umajai", res.Translation)
	assert.Equal(t, "Español", res.SourceLang)
	assert.Equal(t, "Awajún", res.TargetLang)
	// side channel carries the raw search hits for display
	assert.Contains(t, res.DictionaryMatches, "yumi = agua")

	assert.Contains(t, gen.system, "DICCIONARIO DE REFERENCIA:")
	assert.Contains(t, gen.system, "yumi = agua")
	assert.Contains(t, gen.system, "[aprox.]")
	assert.Contains(t, gen.system, "REGLAS GRAMATICALES:")
	assert.Contains(t, gen.system, "ORDEN DE PALABRAS: SOV")
	assert.Contains(t, gen.user, "Traduce el siguiente texto de Español a Awajún")
	assert.Contains(t, gen.user, "agua")
}

func TestTranslateToTargetIncludesMatchingPhrases(t *testing.T) {
	gen := &fakeGenerator{reply: "x"}
	tr := newTranslator(t, gen)

	_, err := tr.TranslateToTarget(context.Background(), "Abran sus cuadernos")
	require.NoError(t, err)

	assert.Contains(t, gen.system, "FRASES SIMILARES CONOCIDAS:")
	assert.Contains(t, gen.system, "Papí ujaktajum")
}

func TestTranslateToTargetOmitsPhraseBlockWithoutMatches(t *testing.T) {
	gen := &fakeGenerator{reply: "x"}
	tr := newTranslator(t, gen)

	_, err := tr.TranslateToTarget(context.Background(), "zzzz")
	require.NoError(t, err)

	assert.NotContains(t, gen.system, "FRASES SIMILARES CONOCIDAS:")
	assert.NotContains(t, gen.system, knowledge.NoPhrasesFound)
}

func TestTranslateToSource(t *testing.T) {
	gen := &fakeGenerator{reply: "bebo agua"}
	tr := newTranslator(t, gen)

	res, err := tr.TranslateToSource(context.Background(), "Yumi umajai")
	require.NoError(t, err)

	assert.Equal(t, "Awajún", res.SourceLang)
	assert.Equal(t, "Español", res.TargetLang)
	assert.Empty(t, res.DictionaryMatches)
	assert.Contains(t, gen.user, "Traduce el siguiente texto de Awajún a Español")
}

func TestTranslateGenerationError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	tr := newTranslator(t, gen)

	_, err := tr.TranslateToTarget(context.Background(), "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestTranslateWithEmptyKnowledgeBase(t *testing.T) {
	gen := &fakeGenerator{reply: "x"}
	kb, err := knowledge.Load(t.TempDir(), "awajun")
	require.NoError(t, err)
	tr := New(gen, kb, config.Source, awajun)

	_, err = tr.TranslateToTarget(context.Background(), "hola")
	require.NoError(t, err)

	// no grammar data: the section is omitted, not rendered as a sentinel
	assert.NotContains(t, gen.system, "REGLAS GRAMATICALES:")
	assert.NotContains(t, gen.system, knowledge.NoGrammarAvailable)
}

func TestGenerateLesson(t *testing.T) {
	gen := &fakeGenerator{reply: "Lección 1"}
	tr := newTranslator(t, gen)

	lesson, err := tr.GenerateLesson(context.Background(), "la familia", Intermediate)
	require.NoError(t, err)

	assert.Equal(t, "Lección 1", lesson)
	assert.Contains(t, gen.system, "educación intercultural bilingüe")
	assert.Contains(t, gen.system, "dukug")
	assert.Contains(t, gen.user, "sobre: la familia")
	assert.Contains(t, gen.user, "Nivel: intermedio")
	assert.Contains(t, gen.user, "ejercicio práctico")
}

func TestExplainCulture(t *testing.T) {
	gen := &fakeGenerator{reply: "Explicación"}
	tr := newTranslator(t, gen)

	got, err := tr.ExplainCulture(context.Background(), "Ikam jutii jeenai")
	require.NoError(t, err)

	assert.Equal(t, "Explicación", got)
	assert.Contains(t, gen.system, "mediador cultural")
	// only phrases with a cultural note contribute background lines
	assert.Contains(t, gen.system, "- El bosque es nuestra casa:")
	assert.NotContains(t, gen.system, "- Trabajo comunitario")
	assert.Contains(t, gen.user, `"Ikam jutii jeenai"`)
}

func TestPhraseBook(t *testing.T) {
	tr := newTranslator(t, &fakeGenerator{})

	classroom := tr.PhraseBook("classroom")
	require.NotEmpty(t, classroom)
	assert.Equal(t, "Buenos días, niños", classroom[0].Source)

	daily := tr.PhraseBook("daily")
	require.NotEmpty(t, daily)
	assert.Equal(t, "¿Cómo estás?", daily[0].Source)

	cultural := tr.PhraseBook("cultural")
	require.NotEmpty(t, cultural)

	// unknown categories fall back to classroom
	assert.Equal(t, classroom, tr.PhraseBook("unknown"))
}

func TestParseDifficulty(t *testing.T) {
	assert.Equal(t, Basic, ParseDifficulty(""))
	assert.Equal(t, Basic, ParseDifficulty("básico"))
	assert.Equal(t, Intermediate, ParseDifficulty("intermedio"))
	assert.Equal(t, Advanced, ParseDifficulty(" Avanzado "))
	assert.Equal(t, Basic, ParseDifficulty("experto"))
}
