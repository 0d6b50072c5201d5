package roster

import (
	"errors"
	"testing"

	"meeting-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestMembers() []models.TeamMember {
	return []models.TeamMember{
		models.NewTeamMember("Sakshi", "Frontend Developer", "React", "JavaScript", "login"),
		models.NewTeamMember("Mohit", "Backend Engineer", "Database", "API", "Performance"),
		models.NewTeamMember("Arjun", "UI/UX Designer", "Figma", "Onboarding", "Design"),
		models.NewTeamMember("Lata", "QA Engineer", "Testing", "Automation", "Selenium"),
	}
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name     string
		member   models.TeamMember
		expected []string
	}{
		{"complete", models.NewTeamMember("Sakshi", "Frontend", "react"), nil},
		{"missing name", models.TeamMember{Role: "Frontend", Skills: []string{"react"}}, []string{"name"}},
		{"blank role", models.TeamMember{Name: "Sakshi", Role: "  ", Skills: []string{"react"}}, []string{"role"}},
		{"blank skills only", models.TeamMember{Name: "Sakshi", Role: "Frontend", Skills: []string{" ", ""}}, []string{"skills"}},
		{"everything missing", models.TeamMember{}, []string{"name", "role", "skills"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.member)
			assert.Equal(t, len(tt.expected) == 0, result.Valid)
			assert.Equal(t, tt.expected, result.MissingFields)
			for _, field := range tt.expected {
				assert.Contains(t, result.ErrorMessage, field)
			}
		})
	}
}

func TestStore_Add(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.Add(models.NewTeamMember("Sakshi", "Frontend Developer", " React ", "")))

	err := store.Add(models.NewTeamMember("SAKSHI", "Backend", "go"))
	assert.True(t, errors.Is(err, ErrDuplicateMember))
	assert.Contains(t, err.Error(), "Duplicate team member: SAKSHI")

	err = store.Add(models.TeamMember{Name: "Ravi"})
	var memberErr *MemberError
	require.True(t, errors.As(err, &memberErr))
	assert.Equal(t, []string{"role", "skills"}, memberErr.Missing)
	assert.True(t, errors.Is(err, ErrMissingFields))

	assert.Equal(t, 1, store.Len())
	member, ok := store.Get("sakshi")
	require.True(t, ok)
	assert.Equal(t, []string{"react"}, member.Skills)
}

func TestStore_AddAll_ReportsEachRejectedMember(t *testing.T) {
	members := append(createTestMembers(),
		models.TeamMember{Name: "Ghost", Role: "Backend"},
		models.NewTeamMember("mohit", "Backend", "go"),
	)

	store, errs := NewStoreFrom(members)

	assert.Equal(t, 4, store.Len())
	require.Len(t, errs, 2)
	assert.Equal(t, 4, errs[0].Index)
	assert.Equal(t, []string{"skills"}, errs[0].Missing)
	assert.Equal(t, 5, errs[1].Index)
	assert.True(t, errors.Is(errs[1], ErrDuplicateMember))
}

func TestStore_FindByName(t *testing.T) {
	store, errs := NewStoreFrom(createTestMembers())
	require.Empty(t, errs)

	tests := []struct {
		search   string
		expected string
		found    bool
	}{
		{"Mohit", "Mohit", true},
		{"  arjun ", "Arjun", true},
		{"Sak", "Sakshi", true},
		{"Lata Sharma", "Lata", true},
		{"Priya", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			member, ok := store.FindByName(tt.search)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, member.Name)
		})
	}
}

func TestStore_Queries(t *testing.T) {
	store, _ := NewStoreFrom(createTestMembers())

	bySkill := store.FindBySkill("test")
	require.Len(t, bySkill, 1)
	assert.Equal(t, "Lata", bySkill[0].Name)

	byRole := store.FindByRole("engineer")
	require.Len(t, byRole, 2)
	assert.Equal(t, "Mohit", byRole[0].Name)
	assert.Equal(t, "Lata", byRole[1].Name)

	assert.Equal(t, []string{"Sakshi", "Mohit", "Arjun", "Lata"}, store.Names())
	assert.True(t, store.Contains("ARJUN"))
	assert.False(t, store.Contains("Arj"))

	all := store.All()
	all[0].Name = "changed"
	assert.Equal(t, "Sakshi", store.Names()[0])

	store.Clear()
	assert.Equal(t, 0, store.Len())
	assert.False(t, store.Contains("Sakshi"))
}

func TestValidateAll(t *testing.T) {
	errs := ValidateAll([]models.TeamMember{
		models.NewTeamMember("Sakshi", "Frontend", "react"),
		{Name: "Mohit", Skills: []string{"api"}},
		{},
	})

	require.Len(t, errs, 2)
	assert.Equal(t, 1, errs[0].Index)
	assert.Equal(t, []string{"role"}, errs[0].Missing)
	assert.Equal(t, 2, errs[1].Index)
	assert.Equal(t, []string{"name", "role", "skills"}, errs[1].Missing)
	assert.Contains(t, errs[1].Error(), "Missing required fields: name, role, skills")
}
