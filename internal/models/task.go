package models

import (
	"fmt"
	"strconv"
	"strings"
)

type PriorityLevel string

const (
	PriorityCritical PriorityLevel = "Critical"
	PriorityHigh     PriorityLevel = "High"
	PriorityMedium   PriorityLevel = "Medium"
	PriorityLow      PriorityLevel = "Low"
)

// ParsePriority returns Medium for anything it does not recognise.
func ParsePriority(s string) PriorityLevel {
	switch PriorityLevel(strings.TrimSpace(s)) {
	case PriorityCritical:
		return PriorityCritical
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// Rank orders levels from most (0) to least (3) urgent.
func (p PriorityLevel) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

// ExtractedTask is a transcript fragment judged actionable, before any
// scheduling or assignment happens.
type ExtractedTask struct {
	Description        string   `json:"description"`
	RawText            string   `json:"rawText"`
	MentionedPerson    string   `json:"mentionedPerson,omitempty"`
	DeadlinePhrase     string   `json:"deadlinePhrase,omitempty"`
	PriorityIndicators []string `json:"priorityIndicators"`
	DependencyPhrases  []string `json:"dependencyPhrases"`
}

// TaskDependency is an edge from a dependent task to its prerequisite.
// Both indices address the extracted task slice, not task numbers.
type TaskDependency struct {
	DependentIndex    int    `json:"dependentIndex"`
	PrerequisiteIndex int    `json:"prerequisiteIndex"`
	Phrase            string `json:"phrase"`
}

type AssignmentResult struct {
	Member     *TeamMember `json:"member,omitempty"`
	Reasoning  string      `json:"reasoning"`
	Confidence float64     `json:"confidence"`
}

func (a AssignmentResult) Assigned() bool {
	return a.Member != nil
}

// TaskRecord is the final per-task output. TaskNumber is 1-based extraction
// order and is never renumbered.
type TaskRecord struct {
	TaskNumber  int           `json:"task_number"`
	Description string        `json:"description"`
	AssignedTo  string        `json:"assigned_to,omitempty"`
	Deadline    string        `json:"deadline,omitempty"`
	DueDate     string        `json:"due_date,omitempty"`
	Priority    PriorityLevel `json:"priority"`
	DependsOn   int           `json:"depends_on,omitempty"`
	Reasoning   string        `json:"reasoning,omitempty"`
}

const dependencyPrefix = "Depends on Task #"

// DependencyText renders DependsOn the way it is shown to people.
func (t TaskRecord) DependencyText() string {
	if t.DependsOn <= 0 {
		return ""
	}
	return fmt.Sprintf("%s%d", dependencyPrefix, t.DependsOn)
}

// ParseDependencyText is the inverse of DependencyText. Text without a task
// reference yields 0.
func ParseDependencyText(s string) int {
	idx := strings.Index(s, "Task #")
	if idx < 0 {
		return 0
	}
	rest := strings.Fields(s[idx+len("Task #"):])
	if len(rest) == 0 {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimRight(rest[0], ".,;"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
