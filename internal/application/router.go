package application

import (
	"regexp"
	"strings"
	"unicode"

	"domovoice/internal/domain"
)

var intentKeywords = []struct {
	intent domain.Intent
	words  []string
}{
	{domain.IntentRoom, []string{"room"}},
	{domain.IntentSceneGroup, []string{"scene", "group", "mode"}},
	{domain.IntentLight, []string{"light", "lights"}},
	{domain.IntentThermostat, []string{"temperature", "humidity", "thermostat"}},
}

// Classify picks the intent of an utterance by exact keyword tokens. Room
// wins over scene/group, which wins over light, which wins over thermostat.
func Classify(utterance string) domain.Intent {
	tokens := tokenize(utterance)
	for _, k := range intentKeywords {
		if mentions(tokens, k.words...) {
			return k.intent
		}
	}
	return domain.IntentUnrecognized
}

var relevantPattern = regexp.MustCompile(`(?i)\b(room|scene|group|mode|light|thermostat|temperature|humidity)\b`)

// IsRelevant reports whether the utterance is about home automation at all.
func IsRelevant(utterance string) bool {
	return relevantPattern.MatchString(utterance)
}

// tokenize lowercases and splits on whitespace. Punctuation glued to a word
// by transcription ("light.") is trimmed.
func tokenize(utterance string) []string {
	fields := strings.Fields(strings.ToLower(utterance))
	tokens := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func mentions(tokens []string, words ...string) bool {
	_, ok := firstMentioned(tokens, words...)
	return ok
}

// firstMentioned returns the first of words, in the order given, that
// appears as a token.
func firstMentioned(tokens []string, words ...string) (string, bool) {
	for _, w := range words {
		for _, t := range tokens {
			if t == w {
				return w, true
			}
		}
	}
	return "", false
}

// firstNamed returns the first item whose lowercased name occurs anywhere in
// text. text must already be lowercased.
func firstNamed[T any](items []T, text string, name func(T) string) (T, bool) {
	for _, item := range items {
		n := strings.ToLower(strings.TrimSpace(name(item)))
		if n != "" && strings.Contains(text, n) {
			return item, true
		}
	}
	var zero T
	return zero, false
}
