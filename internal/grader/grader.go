// Package grader scores free-text answers against the accepted forms of a
// vocabulary entry using edit-distance similarity.
package grader

import (
	"strings"

	"github.com/agext/levenshtein"
)

// PassThreshold is the minimum similarity score considered a correct answer.
const PassThreshold = 80

var levParams = levenshtein.NewParams()

// Normalize trims surrounding whitespace and lower-cases an answer or
// accepted form before comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Score returns the best similarity (0-100) between the answer and any of
// the accepted forms. The answer is normalized here; accepted forms are
// expected to be normalized already. An empty accepted list scores 0.
func Score(answer string, accepted []string) int {
	answer = Normalize(answer)
	best := 0
	for _, form := range accepted {
		ratio := int(levenshtein.Similarity(answer, form, levParams)*100 + 0.5)
		if ratio > best {
			best = ratio
		}
	}
	return best
}

// Passes reports whether a score counts as a correct answer.
func Passes(score int) bool {
	return score >= PassThreshold
}

// AcceptedForms builds the normalized list of correct answers for a word:
// the primary term followed by its semicolon-delimited synonyms. Duplicates
// are kept; they do not affect the max-score grading.
func AcceptedForms(primary, synonyms string) []string {
	forms := []string{Normalize(primary)}
	for _, syn := range strings.Split(synonyms, ";") {
		if s := Normalize(syn); s != "" {
			forms = append(forms, s)
		}
	}
	return forms
}

// DisplayForms joins accepted forms for user-facing feedback, dropping
// duplicates while preserving order.
func DisplayForms(forms []string) string {
	seen := make(map[string]bool, len(forms))
	out := make([]string, 0, len(forms))
	for _, f := range forms {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return strings.Join(out, ", ")
}
