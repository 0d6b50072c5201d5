package assigntask

import (
	"fmt"
	"sort"
	"strings"

	"meeting-workers/internal/models"
)

// Skill domains, in the order they are reported.
const (
	DomainFrontend      = "frontend"
	DomainBackend       = "backend"
	DomainDesign        = "design"
	DomainQA            = "qa"
	DomainDevOps        = "devops"
	DomainDocumentation = "documentation"
)

var domainOrder = []string{
	DomainFrontend, DomainBackend, DomainDesign, DomainQA, DomainDevOps, DomainDocumentation,
}

var skillKeywords = map[string][]string{
	DomainFrontend: {
		"ui", "react", "javascript", "css", "html", "login bug", "button",
		"screen", "page", "form", "component", "interface", "vue", "angular",
		"frontend", "front-end", "client", "browser", "responsive", "fix login",
	},
	DomainBackend: {
		"api", "database", "server", "performance", "optimization", "backend",
		"back-end", "endpoint", "rest", "graphql", "microservice", "cache",
		"query", "sql", "nosql", "mongodb", "postgresql", "mysql",
		"api documentation", "documentation", "optimize database",
	},
	DomainDesign: {
		"design", "figma", "onboarding", "ux", "ui/ux", "screens", "mockup",
		"wireframe", "prototype", "user flow", "sketch", "adobe", "visual",
		"layout", "typography", "color", "branding",
	},
	DomainQA: {
		"test", "testing", "quality", "automation", "unit test", "qa",
		"write test", "write unit test", "regression", "integration test",
		"e2e", "selenium", "cypress", "jest", "pytest", "coverage",
		"payment module", "test for",
	},
	DomainDevOps: {
		"deploy", "deployment", "ci", "cd", "pipeline", "docker", "kubernetes",
		"aws", "azure", "gcp", "infrastructure", "monitoring", "logging",
	},
	DomainDocumentation: {
		"documentation", "docs", "readme", "api docs", "swagger", "openapi",
		"wiki", "guide", "tutorial", "comment",
	},
}

var roleKeywords = map[string][]string{
	DomainFrontend: {"frontend", "front-end", "ui developer", "react developer"},
	DomainBackend:  {"backend", "back-end", "server", "api developer"},
	DomainDesign:   {"designer", "ui/ux", "ux", "ui designer"},
	DomainQA:       {"qa", "quality", "tester", "test engineer"},
	DomainDevOps:   {"devops", "sre", "infrastructure", "platform"},
}

// keywordDomain maps each keyword to a single domain. A keyword listed under
// several domains belongs to the one that comes last in domainOrder.
var keywordDomain = buildKeywordIndex()

func buildKeywordIndex() map[string]string {
	index := make(map[string]string)
	for _, domain := range domainOrder {
		for _, kw := range skillKeywords[domain] {
			index[kw] = domain
		}
	}
	return index
}

type primaryRule struct {
	domain   string
	triggers []string
	roleText string
	bonus    float64
}

// primaryRules pick the single primary domain of a task, first match wins.
// A member whose role contains roleText gets the bonus.
var primaryRules = []primaryRule{
	{DomainQA, []string{"unit test", "write test", "testing"}, "qa", 2.0},
	{DomainBackend, []string{"database", "api", "backend", "documentation"}, "backend", 1.5},
	{DomainDesign, []string{"design", "onboarding", "screen"}, "design", 1.5},
	{DomainFrontend, []string{"login", "bug", "ui"}, "frontend", 1.5},
}

const (
	domainNameScore    = 0.5
	domainKeywordScore = 0.3
	roleScore          = 0.4

	// ExplicitConfidence is only ever given to explicit mentions.
	ExplicitConfidence = 1.0
	// MaxSkillConfidence keeps skill matches below an explicit mention.
	MaxSkillConfidence = 0.95

	unassignedReasoning = "No suitable team member found for this task"
)

// Directory is the read side of a team roster.
type Directory interface {
	FindByName(name string) (models.TeamMember, bool)
	All() []models.TeamMember
}

// Candidate is one scored member.
type Candidate struct {
	Member        models.TeamMember
	Index         int
	Score         float64
	MatchedSkills []string
}

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Assign returns the explicit mention if it names a known member, otherwise
// the best skill match. The result is unassigned when nobody scores above 0.
func (e *Engine) Assign(task models.ExtractedTask, team Directory) models.AssignmentResult {
	if result, ok := e.matchExplicit(task, team); ok {
		return result
	}

	domains := Domains(task.Description + " " + task.RawText)
	candidates := e.Rank(task, team)
	if len(candidates) == 0 || candidates[0].Score <= 0 {
		return models.AssignmentResult{Reasoning: unassignedReasoning}
	}

	best := candidates[0]
	member := best.Member
	confidence := best.Score
	if confidence > MaxSkillConfidence {
		confidence = MaxSkillConfidence
	}
	return models.AssignmentResult{
		Member:     &member,
		Reasoning:  skillReasoning(member, best.MatchedSkills, domains),
		Confidence: confidence,
	}
}

// Method reports how a result was reached: "explicit", "skills" or "none".
func Method(result models.AssignmentResult) string {
	switch {
	case !result.Assigned():
		return "none"
	case result.Confidence == ExplicitConfidence:
		return "explicit"
	default:
		return "skills"
	}
}

func (e *Engine) matchExplicit(task models.ExtractedTask, team Directory) (models.AssignmentResult, bool) {
	if strings.TrimSpace(task.MentionedPerson) == "" {
		return models.AssignmentResult{}, false
	}
	member, ok := team.FindByName(task.MentionedPerson)
	if !ok {
		return models.AssignmentResult{}, false
	}
	return models.AssignmentResult{
		Member:     &member,
		Reasoning:  fmt.Sprintf("Explicitly mentioned in task: '%s'", task.MentionedPerson),
		Confidence: ExplicitConfidence,
	}, true
}

// Rank scores every member and orders them by score, highest first. Equal
// scores keep roster order.
func (e *Engine) Rank(task models.ExtractedTask, team Directory) []Candidate {
	text := strings.ToLower(task.Description + " " + task.RawText)
	domains := Domains(text)
	if len(domains) == 0 {
		return nil
	}
	primary := primaryDomain(text)

	members := team.All()
	candidates := make([]Candidate, 0, len(members))
	for i, m := range members {
		score, matched := skillScore(domains, m)
		if primary != nil && strings.Contains(strings.ToLower(m.Role), primary.roleText) {
			score += primary.bonus
		}
		candidates = append(candidates, Candidate{Member: m, Index: i, Score: score, MatchedSkills: matched})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// Domains lists the skill domains implied by keywords in text.
func Domains(text string) []string {
	text = strings.ToLower(text)
	found := make(map[string]bool)
	for kw, domain := range keywordDomain {
		if strings.Contains(text, kw) {
			found[domain] = true
		}
	}
	out := make([]string, 0, len(found))
	for _, d := range domainOrder {
		if found[d] {
			out = append(out, d)
		}
	}
	return out
}

func primaryDomain(text string) *primaryRule {
	for i := range primaryRules {
		for _, trigger := range primaryRules[i].triggers {
			if strings.Contains(text, trigger) {
				return &primaryRules[i]
			}
		}
	}
	return nil
}

func skillScore(domains []string, m models.TeamMember) (float64, []string) {
	var (
		score   float64
		matched []string
	)

	for _, skill := range m.Skills {
		skill = strings.ToLower(skill)
		if skill == "" {
			continue
		}
		for _, domain := range domains {
			if strings.Contains(skill, domain) || strings.Contains(domain, skill) {
				matched = append(matched, skill)
				score += domainNameScore
				break
			}
			for _, kw := range skillKeywords[domain] {
				if strings.Contains(skill, kw) || strings.Contains(kw, skill) {
					matched = append(matched, skill)
					score += domainKeywordScore
					break
				}
			}
		}
	}

	role := strings.ToLower(m.Role)
	for _, domain := range domains {
		for _, kw := range roleKeywords[domain] {
			if strings.Contains(role, kw) {
				score += roleScore
				break
			}
		}
	}
	return score, matched
}

func skillReasoning(m models.TeamMember, matched, domains []string) string {
	var parts []string
	if skills := dedupe(matched); len(skills) > 0 {
		parts = append(parts, "Matched skills: "+strings.Join(skills, ", "))
	}
	if len(domains) > 0 {
		parts = append(parts, "Task domains: "+strings.Join(domains, ", "))
	}
	parts = append(parts, "Role: "+m.Role)
	return strings.Join(parts, "; ")
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
