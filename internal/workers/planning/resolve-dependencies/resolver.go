// Package resolvedependencies infers prerequisite relationships between the
// tasks of one meeting and checks them for cycles.
package resolvedependencies

import (
	"regexp"
	"strings"

	"meeting-workers/internal/models"
)

// dependencyPatterns capture the prerequisite named in lowercased text in
// group 1.
var dependencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`depends on (.+?)(?:\.|,|$)`),
	regexp.MustCompile(`after (.+?) is (?:done|completed|finished)`),
	regexp.MustCompile(`once (.+?) is (?:done|completed|finished)`),
	regexp.MustCompile(`blocked by (.+?)(?:\.|,|$)`),
	regexp.MustCompile(`waiting for (.+?)(?:\.|,|$)`),
	regexp.MustCompile(`requires (.+?) (?:to be |first|completed)`),
	regexp.MustCompile(`needs (.+?) (?:to be |first|completed)`),
	regexp.MustCompile(`can't start until (.+?)(?:\.|,|$)`),
	regexp.MustCompile(`prerequisites?: (.+?)(?:\.|,|$)`),
}

var fillerWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "being": true,
	"completed": true, "done": true, "finished": true, "first": true,
}

// strongKeywords decide a match on their own once they overlap a word of a
// candidate description.
var strongKeywords = map[string]bool{
	"login": true, "bug": true, "database": true, "api": true,
	"test": true, "payment": true, "onboarding": true,
}

type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns every dependency edge it can attach to another task.
// Phrases that match no other task are dropped.
func (r *Resolver) Resolve(tasks []models.ExtractedTask) []models.TaskDependency {
	descriptions := make([]string, len(tasks))
	for i, t := range tasks {
		descriptions[i] = strings.ToLower(t.Description)
	}

	var deps []models.TaskDependency
	for i, task := range tasks {
		for _, phrase := range phrasesFor(task) {
			if pre, ok := matchTask(phrase, descriptions, i); ok {
				deps = append(deps, models.TaskDependency{
					DependentIndex:    i,
					PrerequisiteIndex: pre,
					Phrase:            phrase,
				})
			}
		}
	}
	return deps
}

// phrasesFor lists the extracted phrases followed by any new ones found by
// scanning the raw text.
func phrasesFor(task models.ExtractedTask) []string {
	phrases := make([]string, 0, len(task.DependencyPhrases))
	known := make(map[string]bool, len(task.DependencyPhrases))
	for _, p := range task.DependencyPhrases {
		phrases = append(phrases, p)
		known[p] = true
	}
	// Only phrases the extractor already reported are skipped.
	for _, p := range ExtractPhrases(task.RawText) {
		if !known[p] {
			phrases = append(phrases, p)
		}
	}
	return phrases
}

// ExtractPhrases returns the prerequisite fragments named in text, pattern by
// pattern.
func ExtractPhrases(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, re := range dependencyPatterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			found = append(found, m[1])
		}
	}
	return found
}

// HasDependencyPhrase reports whether text names a prerequisite at all.
func HasDependencyPhrase(text string) bool {
	lower := strings.ToLower(text)
	for _, re := range dependencyPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// matchTask walks the other descriptions in order. Containment or a strong
// keyword returns at once; otherwise the largest word overlap wins and the
// earliest task wins a tie.
func matchTask(phrase string, descriptions []string, exclude int) (int, bool) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return 0, false
	}
	phraseWords := contentWords(phrase)

	best, bestScore := -1, 0
	for i, desc := range descriptions {
		if i == exclude || desc == "" {
			continue
		}
		if strings.Contains(desc, phrase) || strings.Contains(phrase, desc) {
			return i, true
		}

		descWords := contentWords(desc)
		for pw := range phraseWords {
			if !strongKeywords[pw] {
				continue
			}
			for dw := range descWords {
				if strings.Contains(dw, pw) || strings.Contains(pw, dw) {
					return i, true
				}
			}
		}

		overlap := 0
		for pw := range phraseWords {
			if descWords[pw] {
				overlap++
			}
		}
		if overlap > bestScore {
			best, bestScore = i, overlap
		}
	}
	return best, best >= 0
}

func contentWords(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		if !fillerWords[w] {
			words[w] = true
		}
	}
	return words
}
