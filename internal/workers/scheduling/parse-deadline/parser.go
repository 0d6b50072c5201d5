package parsedeadline

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"meeting-workers/internal/models"
)

// MaxHorizon bounds how far ahead a resolved deadline is considered sane.
const MaxHorizon = 365 * 24 * time.Hour

var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

var relativePhrases = map[string]func(time.Time) time.Time{
	"today":              func(d time.Time) time.Time { return d },
	"tonight":            func(d time.Time) time.Time { return d },
	"tomorrow":           addDays(1),
	"tomorrow evening":   addDays(1),
	"tomorrow morning":   addDays(1),
	"tomorrow afternoon": addDays(1),
	"tomorrow night":     addDays(1),
	"next week":          addDays(7),
	"next monday":        nextOn(time.Monday),
	"next tuesday":       nextOn(time.Tuesday),
	"next wednesday":     nextOn(time.Wednesday),
	"next thursday":      nextOn(time.Thursday),
	"next friday":        nextOn(time.Friday),
	"next saturday":      nextOn(time.Saturday),
	"next sunday":        nextOn(time.Sunday),
	"end of week":        endOfWeek,
	"end of this week":   endOfWeek,
	"end of the week":    endOfWeek,
	"this week":          endOfWeek,
	"end of month":       endOfMonth,
	"end of this month":  endOfMonth,
	"end of the month":   endOfMonth,
}

var (
	byWeekdayPattern = regexp.MustCompile(`^by\s+(\w+)`)
	inUnitsPattern   = regexp.MustCompile(`^in\s+(\d+)\s+(days?|weeks?)`)
	daysPattern      = regexp.MustCompile(`^(\d+)\s+days?`)
)

// phrasePatterns find a deadline phrase inside free text. Group 1 is the
// phrase; the list is evaluated in order and the first match wins.
var phrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`by\s+(tomorrow|today|tonight|next\s+\w+|end\s+of\s+(?:this\s+)?\w+|\w+day)`),
	regexp.MustCompile(`before\s+(tomorrow|today|tonight|next\s+\w+|\w+day)`),
	regexp.MustCompile(`(tomorrow\s*(?:evening|morning|afternoon)?)`),
	regexp.MustCompile(`(today|tonight)`),
	regexp.MustCompile(`(next\s+(?:week|monday|tuesday|wednesday|thursday|friday|saturday|sunday))`),
	regexp.MustCompile(`(end\s+of\s+(?:this\s+)?(?:week|month))`),
	regexp.MustCompile(`(this\s+week)`),
	regexp.MustCompile(`in\s+(\d+\s+(?:days?|weeks?))`),
	regexp.MustCompile(`(\w+day)\s+(?:evening|morning|afternoon)`),
}

// Parser resolves relative deadline phrases against a reference date.
// It holds no state and is safe for concurrent use.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse returns the date a phrase refers to. The second return value is
// false when the phrase is not understood; that is not an error.
func (p *Parser) Parse(phrase string, ref time.Time) (time.Time, bool) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return time.Time{}, false
	}
	ref = models.Day(ref)

	if fn, ok := relativePhrases[phrase]; ok {
		return fn(ref), true
	}

	if m := byWeekdayPattern.FindStringSubmatch(phrase); m != nil {
		if wd, ok := lookupWeekday(m[1]); ok {
			return nextWeekday(ref, wd), true
		}
	}

	for _, wd := range weekdays {
		if strings.Contains(phrase, wd.name) {
			return nextWeekday(ref, wd.day), true
		}
	}

	if m := inUnitsPattern.FindStringSubmatch(phrase); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			if strings.HasPrefix(m[2], "week") {
				return ref.AddDate(0, 0, 7*n), true
			}
			return ref.AddDate(0, 0, n), true
		}
	}

	if m := daysPattern.FindStringSubmatch(phrase); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return ref.AddDate(0, 0, n), true
		}
	}

	return time.Time{}, false
}

// ExtractPhrase finds the first deadline phrase mentioned in text.
func (p *Parser) ExtractPhrase(text string) string {
	lower := strings.ToLower(text)
	for _, re := range phrasePatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// IsValidDeadline reports whether d lies within [ref, ref+365d].
func (p *Parser) IsValidDeadline(d, ref time.Time) bool {
	d, ref = models.Day(d), models.Day(ref)
	if d.Before(ref) {
		return false
	}
	return !d.After(ref.Add(MaxHorizon))
}

// CanonicalPhrases lists every phrase resolved by exact lookup.
func CanonicalPhrases() []string {
	out := make([]string, 0, len(relativePhrases))
	for k := range relativePhrases {
		out = append(out, k)
	}
	return out
}

func lookupWeekday(name string) (time.Weekday, bool) {
	for _, wd := range weekdays {
		if wd.name == name {
			return wd.day, true
		}
	}
	return 0, false
}

// nextWeekday returns the first target weekday strictly after d.
func nextWeekday(d time.Time, target time.Weekday) time.Time {
	ahead := (int(target) - int(d.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return d.AddDate(0, 0, ahead)
}

// endOfWeek is the Friday of d's Monday-based week, or the following Friday
// once the weekend has started.
func endOfWeek(d time.Time) time.Time {
	mondayBased := (int(d.Weekday()) + 6) % 7
	ahead := 4 - mondayBased
	if ahead < 0 {
		ahead += 7
	}
	return d.AddDate(0, 0, ahead)
}

func endOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

func addDays(n int) func(time.Time) time.Time {
	return func(d time.Time) time.Time { return d.AddDate(0, 0, n) }
}

func nextOn(target time.Weekday) func(time.Time) time.Time {
	return func(d time.Time) time.Time { return nextWeekday(d, target) }
}
