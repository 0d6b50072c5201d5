package roster

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name          string
		document      string
		expectedNames []string
		expectError   bool
	}{
		{
			name:          "bare array",
			document:      `[{"name": "Sakshi", "role": "Frontend Developer", "skills": ["React", " Login "]}]`,
			expectedNames: []string{"Sakshi"},
		},
		{
			name: "team object",
			document: `{"team": [
				{"name": "Mohit", "role": "Backend Engineer", "skills": ["API"], "email": "mohit@example.com"},
				{"name": "Lata", "role": "QA Engineer", "skills": ["Testing"]}
			]}`,
			expectedNames: []string{"Mohit", "Lata"},
		},
		{
			name:          "members with missing fields still decode",
			document:      `[{"name": "Arjun"}]`,
			expectedNames: []string{"Arjun"},
		},
		{
			name:        "skills must be a list",
			document:    `[{"name": "Arjun", "role": "Designer", "skills": "figma"}]`,
			expectError: true,
		},
		{
			name:        "object without team",
			document:    `{"members": []}`,
			expectError: true,
		},
		{
			name:        "not json",
			document:    `name,role,skills`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members, err := Decode([]byte(tt.document))
			if tt.expectError {
				assert.True(t, errors.Is(err, ErrInvalidRosterFile), "got %v", err)
				return
			}
			require.NoError(t, err)
			names := make([]string, len(members))
			for i, m := range members {
				names[i] = m.Name
			}
			assert.Equal(t, tt.expectedNames, names)
		})
	}
}

func TestDecode_NormalizesSkills(t *testing.T) {
	members, err := Decode([]byte(`[{"name": "Sakshi", "role": "Frontend", "skills": ["React", " Login ", ""]}]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"react", "login"}, members[0].Skills)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "team.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"team": [{"name": "Lata", "role": "QA", "skills": ["testing"]}]}`), 0o600))

	members, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Lata", members[0].Name)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestFileRepository_IgnoresTeamID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "Arjun", "role": "Designer", "skills": ["Figma"]}]`), 0o600))

	repo := NewFileRepository(path)
	for _, teamID := range []string{"", "team-1"} {
		members, err := repo.Load(context.Background(), teamID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, []string{"figma"}, members[0].Skills)
	}
}
