package models

import "strings"

type TeamMember struct {
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Skills []string `json:"skills"`
	Email  string   `json:"email,omitempty"`
	Phone  string   `json:"phone,omitempty"`
}

// NewTeamMember builds a member with normalized skills.
func NewTeamMember(name, role string, skills ...string) TeamMember {
	return TeamMember{
		Name:   name,
		Role:   role,
		Skills: NormalizeSkills(skills),
	}
}

// NormalizeSkills lowercases and trims every skill and drops blanks.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// MissingFields lists the required fields that are empty, in a fixed order.
func (m TeamMember) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(m.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(m.Role) == "" {
		missing = append(missing, "role")
	}
	if len(NormalizeSkills(m.Skills)) == 0 {
		missing = append(missing, "skills")
	}
	return missing
}

// MemberNames returns the non-blank names of members in order.
func MemberNames(members []TeamMember) []string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		if n := strings.TrimSpace(m.Name); n != "" {
			names = append(names, n)
		}
	}
	return names
}
