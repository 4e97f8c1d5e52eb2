package translator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ratalie/aws-nova/pkg/config"
	"github.com/ratalie/aws-nova/pkg/knowledge"
)

// Generator is the external text-generation endpoint. Implemented by
// nova.Client, mocked in tests.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Difficulty is the lesson tier.
type Difficulty string

const (
	Basic        Difficulty = "básico"
	Intermediate Difficulty = "intermedio"
	Advanced     Difficulty = "avanzado"
)

// ParseDifficulty maps free input to one of the three tiers, falling back
// to Basic.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case Intermediate:
		return Intermediate
	case Advanced:
		return Advanced
	default:
		return Basic
	}
}

// Result is a single translation outcome. DictionaryMatches is an
// informational side channel for display, it is not used to validate the
// translation.
type Result struct {
	Original          string `json:"original"`
	Translation       string `json:"translation"`
	SourceLang        string `json:"source_lang"`
	TargetLang        string `json:"target_lang"`
	DictionaryMatches string `json:"dictionary_matches,omitempty"`
}

// Translator assembles knowledge-base context and delegates to the
// generation endpoint. Every operation is a stateless single-shot call;
// generation failures propagate untouched.
type Translator struct {
	gen     Generator
	kb      *knowledge.Base
	source  config.Language
	target  config.Language
	prompts *prompts
}

func New(gen Generator, kb *knowledge.Base, source, target config.Language) *Translator {
	return &Translator{
		gen:     gen,
		kb:      kb,
		source:  source,
		target:  target,
		prompts: newPrompts(),
	}
}

// TranslateToTarget translates source-language text into the indigenous
// language. Matching phrase-book entries are appended to the dictionary
// context as known examples, and raw dictionary search results ride along
// for display.
func (t *Translator) TranslateToTarget(ctx context.Context, text string) (Result, error) {
	dictContext := t.kb.AllVocabularyContext()
	if phrases := t.kb.MatchingPhrases(text); len(phrases) > 0 {
		dictContext += "\n\nFRASES SIMILARES CONOCIDAS:\n" + t.kb.FormatPhrases(phrases)
	}

	translation, err := t.translate(ctx, text, t.source, t.target, dictContext)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Original:          text,
		Translation:       translation,
		SourceLang:        t.source.Name,
		TargetLang:        t.target.Name,
		DictionaryMatches: knowledge.FormatMatches(t.kb.Search(text, 10)),
	}, nil
}

// TranslateToSource translates indigenous-language text into the source
// language.
func (t *Translator) TranslateToSource(ctx context.Context, text string) (Result, error) {
	translation, err := t.translate(ctx, text, t.target, t.source, t.kb.AllVocabularyContext())
	if err != nil {
		return Result{}, err
	}
	return Result{
		Original:    text,
		Translation: translation,
		SourceLang:  t.target.Name,
		TargetLang:  t.source.Name,
	}, nil
}

func (t *Translator) translate(ctx context.Context, text string, from, to config.Language, dictContext string) (string, error) {
	grammarContext := ""
	if !t.kb.Grammar.Empty() {
		grammarContext = t.kb.GrammarContext()
	}

	system, err := render(t.prompts.translationSystem, map[string]string{
		"Source":     from.Name,
		"Target":     to.Name,
		"Dictionary": dictContext,
		"Grammar":    grammarContext,
	})
	if err != nil {
		return "", err
	}
	user, err := render(t.prompts.translationUser, map[string]string{
		"Source": from.Name,
		"Target": to.Name,
		"Text":   text,
	})
	if err != nil {
		return "", err
	}

	slog.Info("translate", "from", from.Key, "to", to.Key, "len", len(text))
	translation, err := t.gen.Generate(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	return translation, nil
}

// GenerateLesson produces a structured bilingual lesson on topic at the
// given tier, grounded on the full vocabulary context.
func (t *Translator) GenerateLesson(ctx context.Context, topic string, difficulty Difficulty) (string, error) {
	system, err := render(t.prompts.lessonSystem, map[string]string{
		"Target":     t.target.Name,
		"Dictionary": t.kb.AllVocabularyContext(),
	})
	if err != nil {
		return "", err
	}
	user, err := render(t.prompts.lessonUser, map[string]any{
		"Target":     t.target.Name,
		"Topic":      topic,
		"Difficulty": difficulty,
	})
	if err != nil {
		return "", err
	}

	slog.Info("generate lesson", "topic", topic, "difficulty", difficulty)
	lesson, err := t.gen.Generate(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("lesson generation failed: %w", err)
	}
	return lesson, nil
}

// ExplainCulture asks for the cultural context of a message, grounded on
// the cultural note of every phrase that has one.
func (t *Translator) ExplainCulture(ctx context.Context, text string) (string, error) {
	var notes []string
	for _, p := range t.kb.CulturalExpressions() {
		if p.CulturalNote != "" {
			notes = append(notes, "- "+p.Source+": "+p.CulturalNote)
		}
	}

	system, err := render(t.prompts.cultureSystem, map[string]string{
		"Target": t.target.Name,
		"Notes":  strings.Join(notes, "\n"),
	})
	if err != nil {
		return "", err
	}
	user, err := render(t.prompts.cultureUser, map[string]string{
		"Target": t.target.Name,
		"Text":   text,
	})
	if err != nil {
		return "", err
	}

	slog.Info("explain culture", "len", len(text))
	explanation, err := t.gen.Generate(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("cultural explanation failed: %w", err)
	}
	return explanation, nil
}

// PhraseBook returns the raw phrase records for a category: "classroom",
// "daily" or "cultural". Unknown categories fall back to classroom.
func (t *Translator) PhraseBook(category string) []knowledge.Phrase {
	switch category {
	case "daily":
		return t.kb.Phrases.Daily
	case "cultural":
		return t.kb.Phrases.Cultural
	default:
		return t.kb.Phrases.Classroom
	}
}
