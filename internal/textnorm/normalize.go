// Package textnorm maps raw resume and job description text to the canonical
// form consumed by the vectorizer.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`\S+@\S+`)
	digitRe = regexp.MustCompile(`[0-9]+`)
	punctRe = regexp.MustCompile(`[[:punct:]]`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Normalize lowercases the text and replaces email-shaped tokens, digit runs
// and punctuation with spaces, then collapses whitespace. The replacement
// order is fixed: emails must go before digits and punctuation, otherwise
// their fragments leak into the token stream. Total over all inputs and
// idempotent.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = emailRe.ReplaceAllString(text, " ")
	text = digitRe.ReplaceAllString(text, " ")
	text = punctRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Tokens splits normalized text into terms. Single-character tokens carry no
// signal and are dropped.
func Tokens(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) < 2 {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
