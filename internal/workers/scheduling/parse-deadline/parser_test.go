package parsedeadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParser_Parse(t *testing.T) {
	monday := date(2024, time.January, 15)

	tests := []struct {
		name     string
		phrase   string
		ref      time.Time
		expected time.Time
		ok       bool
	}{
		{"today", "today", monday, monday, true},
		{"tonight", "Tonight", monday, monday, true},
		{"tomorrow", "tomorrow", monday, date(2024, time.January, 16), true},
		{"tomorrow evening", "tomorrow evening", monday, date(2024, time.January, 16), true},
		{"next week", "next week", monday, date(2024, time.January, 22), true},
		{"next friday", "next friday", monday, date(2024, time.January, 19), true},
		{"same weekday advances a full week", "next monday", monday, date(2024, time.January, 22), true},
		{"end of this week on monday", "end of this week", monday, date(2024, time.January, 19), true},
		{"end of week on friday", "end of week", date(2024, time.January, 19), date(2024, time.January, 19), true},
		{"end of week on saturday", "end of week", date(2024, time.January, 20), date(2024, time.January, 26), true},
		{"end of month", "end of month", monday, date(2024, time.January, 31), true},
		{"end of month leap year", "end of this month", date(2024, time.February, 10), date(2024, time.February, 29), true},
		{"end of december", "end of the month", date(2024, time.December, 10), date(2024, time.December, 31), true},
		{"by weekday", "by wednesday", monday, date(2024, time.January, 17), true},
		{"bare weekday", "friday", monday, date(2024, time.January, 19), true},
		{"weekday inside phrase", "friday release", monday, date(2024, time.January, 19), true},
		{"in days", "in 3 days", monday, date(2024, time.January, 18), true},
		{"in weeks", "in 2 weeks", monday, date(2024, time.January, 29), true},
		{"n days", "5 days", monday, date(2024, time.January, 20), true},
		{"unknown phrase", "sometime soon", monday, time.Time{}, false},
		{"empty phrase", "  ", monday, time.Time{}, false},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parser.Parse(tt.phrase, tt.ref)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestParser_Parse_IgnoresTimeOfDay(t *testing.T) {
	parser := NewParser()
	ref := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.UTC)

	got, ok := parser.Parse("tomorrow", ref)

	assert.True(t, ok)
	assert.Equal(t, "2024-03-06", got.Format("2006-01-02"))
}

func TestParser_CanonicalPhrasesStayWithinAYear(t *testing.T) {
	parser := NewParser()
	start := date(2023, time.December, 1)

	for i := 0; i < 120; i++ {
		ref := start.AddDate(0, 0, i)
		for _, phrase := range CanonicalPhrases() {
			got, ok := parser.Parse(phrase, ref)
			assert.True(t, ok, phrase)
			assert.False(t, got.Before(ref), "%s before reference %s", phrase, ref)
			assert.True(t, parser.IsValidDeadline(got, ref), "%s out of range for %s", phrase, ref)
		}
	}
}

func TestParser_WeekdayNeverResolvesToReference(t *testing.T) {
	parser := NewParser()
	ref := date(2024, time.January, 15)

	for i := 0; i < 7; i++ {
		current := ref.AddDate(0, 0, i)
		for _, wd := range weekdays {
			got, ok := parser.Parse("next "+wd.name, current)
			assert.True(t, ok)
			assert.True(t, got.After(current))
			assert.Equal(t, wd.day, got.Weekday())
			assert.LessOrEqual(t, got.Sub(current), 7*24*time.Hour)
		}
	}
}

func TestParser_ExtractPhrase(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"Please finish this by Friday.", "friday"},
		{"We should ship it tomorrow evening", "tomorrow evening"},
		{"Deploy before next week", "next week"},
		{"wrap it up by end of this month", "end of this month"},
		{"It is due in 3 days", "3 days"},
		{"Ship it in 1 day", "1 day"},
		{"Revisit in 2 weeks", "2 weeks"},
		{"No date here", ""},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, parser.ExtractPhrase(tt.text))
		})
	}
}

func TestParser_IsValidDeadline(t *testing.T) {
	parser := NewParser()
	ref := date(2024, time.January, 15)

	assert.True(t, parser.IsValidDeadline(ref, ref))
	assert.True(t, parser.IsValidDeadline(ref.AddDate(0, 0, 365), ref))
	assert.False(t, parser.IsValidDeadline(ref.AddDate(0, 0, 366), ref))
	assert.False(t, parser.IsValidDeadline(ref.AddDate(0, 0, -1), ref))
}
