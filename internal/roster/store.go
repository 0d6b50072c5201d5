// Package roster holds the team directory used for task assignment and the
// ways of loading it.
package roster

import (
	"errors"
	"fmt"
	"strings"

	"meeting-workers/internal/models"
)

var (
	ErrMissingFields   = errors.New("ROSTER_MISSING_FIELDS")
	ErrDuplicateMember = errors.New("ROSTER_DUPLICATE_MEMBER")
)

// MemberError reports why a single member was rejected.
type MemberError struct {
	Index   int
	Name    string
	Missing []string
	Err     error
}

func (e *MemberError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("member %d: Missing required fields: %s", e.Index, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("member %d: Duplicate team member: %s", e.Index, e.Name)
}

func (e *MemberError) Unwrap() error {
	return e.Err
}

// Store keeps team members in insertion order, keyed by lowercased name.
// A Store belongs to one pipeline run and is not safe for concurrent writes.
type Store struct {
	members []models.TeamMember
	index   map[string]int
}

func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// NewStoreFrom adds every member and returns the errors for the ones that
// were rejected.
func NewStoreFrom(members []models.TeamMember) (*Store, []*MemberError) {
	s := NewStore()
	return s, s.AddAll(members)
}

// Validate returns the validation outcome for m without adding it.
func Validate(m models.TeamMember) models.ValidationResult {
	missing := m.MissingFields()
	if len(missing) == 0 {
		return models.ValidationResult{Valid: true}
	}
	return models.ValidationResult{
		Valid:         false,
		ErrorMessage:  "Missing required fields: " + strings.Join(missing, ", "),
		MissingFields: missing,
	}
}

// ValidateAll checks every member and reports each invalid one.
func ValidateAll(members []models.TeamMember) []*MemberError {
	var errs []*MemberError
	for i, m := range members {
		if missing := m.MissingFields(); len(missing) > 0 {
			errs = append(errs, &MemberError{Index: i, Name: m.Name, Missing: missing, Err: ErrMissingFields})
		}
	}
	return errs
}

func (s *Store) Add(m models.TeamMember) error {
	if missing := m.MissingFields(); len(missing) > 0 {
		return &MemberError{Index: len(s.members), Name: m.Name, Missing: missing, Err: ErrMissingFields}
	}
	key := nameKey(m.Name)
	if _, exists := s.index[key]; exists {
		return &MemberError{Index: len(s.members), Name: m.Name, Err: ErrDuplicateMember}
	}
	m.Skills = models.NormalizeSkills(m.Skills)
	s.index[key] = len(s.members)
	s.members = append(s.members, m)
	return nil
}

func (s *Store) AddAll(members []models.TeamMember) []*MemberError {
	var errs []*MemberError
	for i, m := range members {
		if err := s.Add(m); err != nil {
			var me *MemberError
			if errors.As(err, &me) {
				me.Index = i
				errs = append(errs, me)
			}
		}
	}
	return errs
}

// Get looks a member up by exact name, ignoring case.
func (s *Store) Get(name string) (models.TeamMember, bool) {
	i, ok := s.index[nameKey(name)]
	if !ok {
		return models.TeamMember{}, false
	}
	return s.members[i], true
}

// FindByName tries an exact match first and then a substring match in
// either direction, in insertion order.
func (s *Store) FindByName(name string) (models.TeamMember, bool) {
	search := nameKey(name)
	if search == "" {
		return models.TeamMember{}, false
	}
	if m, ok := s.Get(search); ok {
		return m, true
	}
	for _, m := range s.members {
		key := nameKey(m.Name)
		if strings.Contains(key, search) || strings.Contains(search, key) {
			return m, true
		}
	}
	return models.TeamMember{}, false
}

func (s *Store) FindBySkill(skill string) []models.TeamMember {
	search := strings.ToLower(strings.TrimSpace(skill))
	var out []models.TeamMember
	if search == "" {
		return out
	}
	for _, m := range s.members {
		for _, ms := range m.Skills {
			if strings.Contains(ms, search) || strings.Contains(search, ms) {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

func (s *Store) FindByRole(role string) []models.TeamMember {
	search := strings.ToLower(strings.TrimSpace(role))
	var out []models.TeamMember
	for _, m := range s.members {
		if strings.Contains(strings.ToLower(m.Role), search) {
			out = append(out, m)
		}
	}
	return out
}

// All returns the members in insertion order.
func (s *Store) All() []models.TeamMember {
	out := make([]models.TeamMember, len(s.members))
	copy(out, s.members)
	return out
}

func (s *Store) Names() []string {
	out := make([]string, len(s.members))
	for i, m := range s.members {
		out[i] = m.Name
	}
	return out
}

func (s *Store) Len() int {
	return len(s.members)
}

func (s *Store) Contains(name string) bool {
	_, ok := s.index[nameKey(name)]
	return ok
}

func (s *Store) Clear() {
	s.members = nil
	s.index = make(map[string]int)
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
