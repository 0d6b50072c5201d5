package classifypriority

import (
	"strings"
	"time"

	"meeting-workers/internal/models"
)

var (
	criticalIndicators = []string{
		"critical", "urgent", "asap", "immediately", "emergency",
		"right away", "right now", "drop everything",
	}
	highIndicators = []string{
		"high priority", "important", "blocking", "blocker",
		"affecting users", "affecting the user", "user experience",
		"affecting the user experience", "it's affecting",
		"before release", "production issue",
		"customer impact", "deadline", "must have",
		"really slow", "is slow",
	}
	lowIndicators = []string{
		"when possible", "nice to have", "low priority",
		"backlog", "eventually", "no rush",
		"whenever", "if time permits",
	}
)

const deferPhrase = "can wait"

// Classification is what a rule sees: the lowercased raw text, the
// extracted indicators and the number of days until the deadline.
type Classification struct {
	Text        string
	Indicators  []string
	HasDeadline bool
	DaysLeft    int
}

type rule struct {
	name     string
	applies  func(c *Classification) bool
	priority models.PriorityLevel
}

// rules are evaluated top to bottom; the first one that applies decides.
var rules = []rule{
	{"deferred", func(c *Classification) bool { return strings.Contains(c.Text, deferPhrase) }, models.PriorityMedium},
	{"critical-indicator", func(c *Classification) bool { return c.mentions(criticalIndicators) }, models.PriorityCritical},
	{"deadline-imminent", func(c *Classification) bool { return c.HasDeadline && c.DaysLeft <= 1 }, models.PriorityCritical},
	{"high-indicator", func(c *Classification) bool { return c.mentions(highIndicators) }, models.PriorityHigh},
	{"deadline-near", func(c *Classification) bool { return c.HasDeadline && c.DaysLeft <= 2 }, models.PriorityHigh},
	{"low-indicator", func(c *Classification) bool { return c.mentions(lowIndicators) }, models.PriorityLow},
}

func (c *Classification) mentions(vocabulary []string) bool {
	for _, ind := range c.Indicators {
		ind = strings.ToLower(strings.TrimSpace(ind))
		for _, v := range vocabulary {
			if ind == v {
				return true
			}
		}
	}
	for _, v := range vocabulary {
		if strings.Contains(c.Text, v) {
			return true
		}
	}
	return false
}

type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify picks a priority for task. deadline may be nil when no date was
// resolved.
func (c *Classifier) Classify(task models.ExtractedTask, deadline *time.Time, ref time.Time) models.PriorityLevel {
	level, _ := c.ClassifyWithRule(task, deadline, ref)
	return level
}

// ClassifyWithRule also returns the name of the deciding rule, or "default".
func (c *Classifier) ClassifyWithRule(task models.ExtractedTask, deadline *time.Time, ref time.Time) (models.PriorityLevel, string) {
	input := &Classification{
		Text:       strings.ToLower(task.RawText),
		Indicators: task.PriorityIndicators,
	}
	if deadline != nil {
		input.HasDeadline = true
		input.DaysLeft = int(models.Day(*deadline).Sub(models.Day(ref)).Hours() / 24)
	}

	for _, r := range rules {
		if r.applies(input) {
			return r.priority, r.name
		}
	}
	return models.PriorityMedium, "default"
}

// ClassifyFromText classifies free text that has not been through the
// extractor.
func (c *Classifier) ClassifyFromText(text string, deadline *time.Time, ref time.Time) models.PriorityLevel {
	return c.Classify(models.ExtractedTask{Description: text, RawText: text}, deadline, ref)
}
