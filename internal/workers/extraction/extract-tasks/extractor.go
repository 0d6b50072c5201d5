package extracttasks

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"meeting-workers/internal/models"
)

// Extractor turns a transcript into task candidates. The roster names it
// knows about are used for mention detection and are private to the
// instance.
type Extractor struct {
	lowerNames []string
	mentions   []*regexp.Regexp
	handoffs   []*regexp.Regexp
}

func NewExtractor(names []string) *Extractor {
	e := &Extractor{}
	e.SetTeamNames(names)
	return e
}

// SetTeamNames replaces the names used for mention detection.
func (e *Extractor) SetTeamNames(names []string) {
	e.lowerNames = e.lowerNames[:0]
	e.mentions = e.mentions[:0]
	e.handoffs = e.handoffs[:0]
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		quoted := regexp.QuoteMeta(name)
		e.lowerNames = append(e.lowerNames, strings.ToLower(name))
		e.mentions = append(e.mentions, regexp.MustCompile(`(?i)\b`+quoted+`\b`))
		e.handoffs = append(e.handoffs, regexp.MustCompile(`(?i)^`+quoted+`,?\s+(?:please|can you|could you)\b`))
	}
}

// Extract returns the tasks found in transcript in the order they were
// spoken. A blank transcript yields no tasks.
func (e *Extractor) Extract(transcript string) []models.ExtractedTask {
	if strings.TrimSpace(transcript) == "" {
		return nil
	}

	sentences := e.mergeTaskContext(e.mergeContext(splitSentences(transcript)))

	var tasks []models.ExtractedTask
	for _, sentence := range sentences {
		if !hasTaskIndicator(sentence) || !isActionable(sentence) {
			continue
		}
		task, ok := e.extractTask(sentence)
		if ok && utf8.RuneCountInString(task.Description) >= minDescription {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// CountTaskIndicators counts indicator occurrences across the transcript.
func CountTaskIndicators(transcript string) int {
	lower := strings.ToLower(transcript)
	count := 0
	for _, ind := range taskIndicators {
		count += strings.Count(lower, ind)
	}
	return count
}

func isActionable(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, re := range contextOnly {
		if re.MatchString(lower) {
			return false
		}
	}
	for _, re := range actionWithObject {
		if re.MatchString(lower) {
			return true
		}
	}
	if hasAnyPrefix(lower, leadingIndicators) {
		return true
	}
	return weModalPattern.MatchString(lower) || shouldVerbPattern.MatchString(lower)
}

func (e *Extractor) extractTask(sentence string) (models.ExtractedTask, bool) {
	description := describe(sentence)
	if description == "" {
		return models.ExtractedTask{}, false
	}

	lower := strings.ToLower(sentence)
	priorityContext := strings.ToLower(description)
	if hp := strings.Index(lower, highPriorityPhrase); hp >= 0 {
		anchor := strings.ToLower(description)
		if utf8.RuneCountInString(anchor) > 20 {
			anchor = string([]rune(anchor)[:20])
		}
		if pos := strings.Index(lower, anchor); pos >= 0 && abs(pos-hp) < highPriorityDistance {
			priorityContext += " " + highPriorityPhrase
		}
	}

	return models.ExtractedTask{
		Description:        description,
		RawText:            sentence,
		MentionedPerson:    e.mentionedPerson(sentence),
		DeadlinePhrase:     deadlinePhrase(lower),
		PriorityIndicators: priorityPhrases(priorityContext),
		DependencyPhrases:  dependencyPhrases(lower),
	}, true
}

// describe strips filler from the start of a sentence and narrows it to the
// core action when one of the known shapes matches.
func describe(sentence string) string {
	description := strings.TrimSpace(sentence)
	for _, prefix := range descriptionPrefixes {
		description = prefix.ReplaceAllLiteralString(description, "")
	}

	for _, re := range actionPatterns {
		m := re.FindStringSubmatch(description)
		if m == nil {
			continue
		}
		description = m[1]
		if strings.EqualFold(description, bareTopic) {
			description = bareTopicAction
		}
		description = repairTruncatedModule(description)
		break
	}

	return strings.TrimSpace(capitalize(description))
}

// repairTruncatedModule restores "module" where speech-to-text cut the word
// short.
func repairTruncatedModule(s string) string {
	for _, stub := range []string{"Modu", "modu"} {
		if strings.Contains(s, stub) && !strings.Contains(strings.ToLower(s), "module") {
			s = strings.ReplaceAll(s, stub, "module")
		}
	}
	return s
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// mentionedPerson returns the first roster name found at word boundaries,
// spelled as it appears in the sentence.
func (e *Extractor) mentionedPerson(sentence string) string {
	for _, re := range e.mentions {
		if m := re.FindString(sentence); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func deadlinePhrase(lower string) string {
	for _, re := range deadlinePatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		phrase := strings.ReplaceAll(m[1], " is ", " ")
		phrase = strings.ReplaceAll(phrase, " is", "")
		if containsAny(phrase, sprintPhrases) {
			phrase = sprintDeadline
		}
		phrase = strings.ReplaceAll(phrase, "'s", "")
		phrase = trailingReleaseWord.ReplaceAllString(phrase, "")
		return strings.TrimSpace(phrase)
	}
	for _, fb := range weekdayFallbacks {
		if fb.pattern.MatchString(lower) {
			return fb.day
		}
	}
	return ""
}

func priorityPhrases(context string) []string {
	found := []string{}
	for _, level := range priorityIndicators {
		for _, ind := range level.indicators {
			if strings.Contains(context, ind) {
				found = append(found, ind)
			}
		}
	}
	return found
}

func dependencyPhrases(lower string) []string {
	found := []string{}
	for _, re := range dependencyPatterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			found = append(found, m[1])
		}
	}
	return found
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
