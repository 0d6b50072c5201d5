package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"meeting-workers/internal/common/validation"
	"meeting-workers/internal/models"
)

var ErrInvalidRosterFile = errors.New("ROSTER_INVALID_FILE")

// rosterSchema accepts either a bare array of members or an object with a
// "team" array. Required fields are checked per member by Validate so the
// report can name them.
const rosterSchema = `{
	"definitions": {
		"member": {
			"type": "object",
			"properties": {
				"name":   {"type": "string"},
				"role":   {"type": "string"},
				"skills": {"type": "array", "items": {"type": "string"}},
				"email":  {"type": "string"},
				"phone":  {"type": "string"}
			}
		},
		"members": {"type": "array", "items": {"$ref": "#/definitions/member"}}
	},
	"oneOf": [
		{"$ref": "#/definitions/members"},
		{
			"type": "object",
			"properties": {"team": {"$ref": "#/definitions/members"}},
			"required": ["team"]
		}
	]
}`

var compiledRosterSchema = validation.MustCompileSchema(rosterSchema)

// LoadFile reads a roster JSON file.
func LoadFile(path string) ([]models.TeamMember, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	return Decode(data)
}

// Decode parses a roster document after checking it against the roster
// schema.
func Decode(data []byte) ([]models.TeamMember, error) {
	result, err := compiledRosterSchema.ValidateJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRosterFile, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRosterFile, strings.Join(result.GetErrorMessages(), "; "))
	}

	var members []models.TeamMember
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(data, &members)
	} else {
		var doc struct {
			Team []models.TeamMember `json:"team"`
		}
		err = json.Unmarshal(data, &doc)
		members = doc.Team
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRosterFile, err)
	}

	for i := range members {
		members[i].Skills = models.NormalizeSkills(members[i].Skills)
	}
	return members, nil
}
