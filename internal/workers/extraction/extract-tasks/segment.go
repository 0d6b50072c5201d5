package extracttasks

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// splitSentences breaks a transcript into candidate sentences. Besides
// terminal punctuation it also splits on spoken separators and on a second
// "we need to" clause.
func splitSentences(text string) []string {
	var expanded []string
	for _, s := range splitOnTerminators(text) {
		expanded = append(expanded, spokenSeparator.Split(s, -1)...)
	}

	var sentences []string
	for _, s := range expanded {
		parts := []string{s}
		if strings.Contains(strings.ToLower(s), needToMarker) {
			if split := needToJoiner.Split(s, -1); len(split) > 1 {
				parts = split[:1]
				for _, p := range split[1:] {
					parts = append(parts, needToPrefix+p)
				}
			}
		}
		for _, p := range parts {
			if p = strings.TrimSpace(p); len(p) >= minSentenceLength {
				sentences = append(sentences, p)
			}
		}
	}
	return sentences
}

// splitOnTerminators cuts after '.', '!' or '?' when whitespace follows and
// drops that whitespace.
func splitOnTerminators(text string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) || i == 0 || !isTerminator(text[i-1]) {
			i += size
			continue
		}
		parts = append(parts, text[start:i])
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !unicode.IsSpace(r) {
				break
			}
			i += size
		}
		start = i
	}
	return append(parts, text[start:])
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

// mergeContext folds the sentences that follow a problem statement into it,
// so "X is really slow. Mohit, you did the backend work. Tackle it by Friday."
// becomes a single task candidate.
func (e *Extractor) mergeContext(sentences []string) []string {
	merged := make([]string, 0, len(sentences))
	for i := 0; i < len(sentences); {
		current := sentences[i]
		if !containsAny(strings.ToLower(current), contextOpeners) {
			merged = append(merged, current)
			i++
			continue
		}

		combined := current
		j := i + 1
		for ; j < len(sentences) && j <= i+contextLookahead; j++ {
			following := sentences[j]
			if !e.continuesContext(strings.ToLower(following)) &&
				(utf8.RuneCountInString(following) >= contextShortLength || j >= i+contextShortWindow) {
				break
			}
			combined += " " + following
		}
		merged = append(merged, combined)
		i = j
	}
	return merged
}

func (e *Extractor) continuesContext(lower string) bool {
	if containsAny(lower, contextDomainWords) {
		for _, name := range e.lowerNames {
			if strings.Contains(lower, name) {
				return true
			}
		}
	}
	return hasAnyPrefix(lower, contextContinuationPrefixes) ||
		containsAny(lower, contextContinuationPhrases)
}

// mergeTaskContext attaches qualifying sentences (deadlines, priority,
// dependencies, hand-offs) to the task sentence before them and drops
// questions about past work.
func (e *Extractor) mergeTaskContext(sentences []string) []string {
	merged := make([]string, 0, len(sentences))
	lastTask := -1
	for i := 0; i < len(sentences); {
		current := sentences[i]
		lower := strings.ToLower(current)

		if !hasTaskIndicator(current) {
			switch {
			case strings.HasPrefix(lower, deferredContinuation) && lastTask >= 0:
				merged[lastTask] += " " + current
			case isPastWorkQuestion(lower):
			default:
				merged = append(merged, current)
			}
			i++
			continue
		}

		combined := current
		j := i + 1
		for ; j < len(sentences) && j <= i+taskContextLookahead; j++ {
			next := sentences[j]
			nextLower := strings.ToLower(next)
			if e.qualifiesTask(next, nextLower) {
				combined += " " + next
				continue
			}
			if !isPastWorkQuestion(nextLower) {
				break
			}
		}
		merged = append(merged, combined)
		lastTask = len(merged) - 1
		i = j
	}
	return merged
}

func (e *Extractor) qualifiesTask(sentence, lower string) bool {
	if hasAnyPrefix(lower, taskContinuationPrefixes) {
		return true
	}
	if strings.Contains(lower, "depends on") && strings.Contains(lower, "this depends") {
		return true
	}
	if itsQualifier.MatchString(lower) {
		return true
	}
	if e.isHandOff(sentence, lower) {
		// A request that names its own work is a new task.
		return !(hasTaskIndicator(sentence) && isActionable(sentence))
	}
	return false
}

func (e *Extractor) isHandOff(sentence, lower string) bool {
	if strings.HasPrefix(lower, handOffPrefix) {
		return true
	}
	for _, handoff := range e.handoffs {
		if handoff.MatchString(sentence) {
			return true
		}
	}
	return false
}

func isPastWorkQuestion(lower string) bool {
	for _, re := range pastWorkQuery {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func hasTaskIndicator(sentence string) bool {
	lower := strings.ToLower(sentence)
	if pastWorkAnywhere.MatchString(lower) {
		return false
	}
	return containsAny(lower, taskIndicators)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
