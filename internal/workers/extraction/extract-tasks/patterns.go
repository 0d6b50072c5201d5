package extracttasks

import "regexp"

// Every list in this file is evaluated in order and the first match wins.
// Reordering entries changes which tasks come out of a transcript.

var taskIndicators = []string{
	"need to", "needs to", "should", "must", "have to", "has to",
	"we need", "someone should", "let's", "tackle", "work on",
	"fix", "update", "design", "write", "implement", "create",
	"build", "develop", "complete", "finish", "prepare", "review",
	"optimize", "improve", "add", "remove", "change", "modify",
	"set up", "configure", "deploy", "test", "debug", "refactor",
	// implicit optimization work
	"is really slow", "is slow", "performance is",
}

// deadlinePatterns run against lowercased text; group 1 is the phrase.
var deadlinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`by\s+(tomorrow\s+\w+)`),
	regexp.MustCompile(`by\s+(end\s+of\s+(?:this\s+)?\w+)`),
	regexp.MustCompile(`by\s+(\w+day)`),
	regexp.MustCompile(`done\s+by\s+(tomorrow\s+\w+)`),
	regexp.MustCompile(`done\s+by\s+(tomorrow)`),
	regexp.MustCompile(`(tomorrow\s+(?:evening|morning|afternoon))`),
	regexp.MustCompile(`(tomorrow)`),
	regexp.MustCompile(`(end\s+of\s+(?:this\s+)?\w+)`),
	regexp.MustCompile(`(next\s+\w+)`),
	regexp.MustCompile(`before\s+(\w+(?:'s)?\s*(?:\w+)?)`),
	regexp.MustCompile(`until\s+(next\s+\w+)`),
	regexp.MustCompile(`until\s+(\w+)`),
	regexp.MustCompile(`for\s+(\w+day)`),
	regexp.MustCompile(`plan\s+this\s+for\s+(\w+day)`),
	regexp.MustCompile(`plan\s+(?:this\s+)?for\s+(\w+)`),
	regexp.MustCompile(`(today|tonight)`),
	regexp.MustCompile(`in\s+(\d+\s+\w+)`),
}

// weekdayFallbacks apply when no deadline pattern matched.
var weekdayFallbacks = []struct {
	pattern *regexp.Regexp
	day     string
}{
	{regexp.MustCompile(`\bwednesday\b`), "wednesday"},
	{regexp.MustCompile(`\bthursday\b`), "thursday"},
	{regexp.MustCompile(`\bfriday\b`), "friday"},
	{regexp.MustCompile(`\bmonday\b`), "monday"},
	{regexp.MustCompile(`\btuesday\b`), "tuesday"},
}

var (
	sprintPhrases        = []string{"next print", "next sprint"}
	sprintDeadline       = "next Monday"
	trailingReleaseWord  = regexp.MustCompile(`\s+release$`)
	highPriorityPhrase   = "high priority"
	highPriorityDistance = 100
)

var priorityIndicators = []struct {
	level      string
	indicators []string
}{
	{"critical", []string{"critical", "urgent", "asap", "immediately", "emergency"}},
	{"high", []string{"high priority", "important", "blocking", "blocker", "affecting users"}},
	{"low", []string{"can wait", "when possible", "nice to have", "low priority", "next sprint"}},
}

// dependencyPatterns run against lowercased text; group 1 is the
// prerequisite fragment.
var dependencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`depends on (?:the\s+)?(.+?)(?:\s+being\s+completed|\s+first|,|\.|$)`),
	regexp.MustCompile(`depends on (.+?)(?:\.|,|$)`),
	regexp.MustCompile(`after (.+?) is (?:done|completed|finished)`),
	regexp.MustCompile(`once (.+?) is (?:done|completed|finished)`),
	regexp.MustCompile(`blocked by (.+?)(?:\.|,|$)`),
	regexp.MustCompile(`waiting for (.+?)(?:\.|,|$)`),
	regexp.MustCompile(`requires (.+?) (?:to be |first)`),
}

var (
	spokenSeparator = regexp.MustCompile(`(?i)\b(?:one more thing|oh and)\b`)
	needToJoiner    = regexp.MustCompile(`(?i)\s+and\s+we\s+need\s+to\s+`)
)

const (
	needToMarker      = " and we need to "
	needToPrefix      = "We need to "
	minSentenceLength = 6
	minDescription    = 11
)

// contextOpeners mark a problem statement whose details follow in the next
// few sentences.
var contextOpeners = []string{
	"database performance",
	"performance is",
	"is really slow",
}

const (
	contextLookahead     = 4
	contextShortLength   = 60
	contextShortWindow   = 3
	taskContextLookahead = 3
)

var contextDomainWords = []string{"optimization", "backend"}

var (
	contextContinuationPrefixes = []string{"we should tackle", "it's affecting", "its affecting"}
	contextContinuationPhrases  = []string{"should tackle this", "end of this week", "end of week"}
)

// taskContinuationPrefixes open sentences that only qualify the task before
// them.
var taskContinuationPrefixes = []string{
	"this needs to be",
	"this should be",
	"this is high priority",
	"this is urgent",
	"this depends on",
	"this can wait",
}

// handOffPrefix opens a request that hands the previous task to someone.
const handOffPrefix = "please "

const deferredContinuation = "this can wait"

var (
	itsQualifier  = regexp.MustCompile(`^(it's|its)\s+(blocking|affecting|urgent)`)
	pastWorkQuery = []*regexp.Regexp{
		regexp.MustCompile(`^\w+,?\s*(didn't|did)\s+you\s+work\s+on`),
		regexp.MustCompile(`^(didn't|did)\s+you\s+work\s+on`),
	}
	pastWorkAnywhere = regexp.MustCompile(`(didn't|did)\s+you\s+work\s+on`)
)

// contextOnly sentences carry no task of their own even after merging.
var contextOnly = []*regexp.Regexp{
	regexp.MustCompile(`^this needs to be done`),
	regexp.MustCompile(`^this should be done`),
	regexp.MustCompile(`^this depends on`),
	regexp.MustCompile(`^this is high priority`),
	regexp.MustCompile(`^this is urgent`),
	regexp.MustCompile(`^didn't you work on`),
	regexp.MustCompile(`^let's plan this`),
	regexp.MustCompile(`^we should tackle this`),
	regexp.MustCompile(`^tackle this by`),
}

var actionWithObject = []*regexp.Regexp{
	regexp.MustCompile(`\b(fix|update|design|write|create|build|implement|optimize)\b.*\b(bug|screen|test|documentation|api|database|module|feature|performance)\b`),
	regexp.MustCompile(`\bdesign\b.*\b(screen|onboarding|ui|interface)\b`),
	regexp.MustCompile(`\b(database|backend)\b.*\b(performance|optimization)\b`),
	regexp.MustCompile(`database performance is`),
	regexp.MustCompile(`update.*api.*documentation`),
	regexp.MustCompile(`update.*documentation`),
	regexp.MustCompile(`performance is.*slow`),
}

var (
	leadingIndicators = []string{"we need to", "someone should", "need to", "we should"}
	weModalPattern    = regexp.MustCompile(`\bwe\s+(need to|should|must|have to)\s+\w+`)
	shouldVerbPattern = regexp.MustCompile(`should\s+(tackle|design|fix|update|write|create|optimize)`)
)

// descriptionPrefixes are stripped one after another from the start of a
// sentence.
var descriptionPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:hi everyone,?\s*)?`),
	regexp.MustCompile(`(?i)^(?:okay,?\s*)?`),
	regexp.MustCompile(`(?i)^(?:so,?\s*)?`),
	regexp.MustCompile(`(?i)^(?:and,?\s*)?`),
	regexp.MustCompile(`(?i)^(?:also,?\s*)?`),
	regexp.MustCompile(`(?i)^(?:oh,?\s*)?`),
	regexp.MustCompile(`(?i)^(?:let's discuss this week's priorities\s*)?`),
	regexp.MustCompile(`(?i)^(?:we need someone to\s+)`),
	regexp.MustCompile(`(?i)^(?:we need to\s+)`),
	regexp.MustCompile(`(?i)^(?:we should\s+)`),
	regexp.MustCompile(`(?i)^(?:someone should\s+)`),
	regexp.MustCompile(`(?i)^(?:the\s+)`),
}

// actionPatterns pull the core task out of a sentence; group 1 becomes the
// description.
var actionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(fix\s+(?:the\s+)?(?:critical\s+)?[\w\s]+(?:bug|issue|problem))`),
	regexp.MustCompile(`(?i)(optimize\s+(?:the\s+)?database\s+performance)`),
	regexp.MustCompile(`(?i)(database\s+performance)`),
	regexp.MustCompile(`(?i)(update\s+(?:the\s+)?api\s+documentation)`),
	regexp.MustCompile(`(?i)(update\s+(?:the\s+)?documentation)`),
	regexp.MustCompile(`(?i)(design\s+(?:the\s+)?(?:new\s+)?[\w\s]+(?:screens?|ui|interface))`),
	regexp.MustCompile(`(?i)(write\s+unit\s+tests?\s+for\s+(?:the\s+)?payment\s+module)`),
	regexp.MustCompile(`(?i)(write\s+unit\s+tests?\s+for\s+(?:the\s+)?[\w\s]*(?:module|modu))`),
}

const (
	bareTopic       = "database performance"
	bareTopicAction = "Optimize database performance"
)
