package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meeting-workers/internal/models"
)

var (
	ErrNoRoster     = errors.New("ROSTER_NOT_PROVIDED")
	ErrNoRepository = errors.New("ROSTER_REPOSITORY_UNAVAILABLE")
)

// ValidationError lists every member that was rejected while building a
// store.
type ValidationError struct {
	Members []*MemberError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Members))
	for i, m := range e.Members {
		msgs[i] = m.Error()
	}
	return "Invalid team roster: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Members))
	for i, m := range e.Members {
		errs[i] = m
	}
	return errs
}

// Build validates every member and returns a store only if all of them are
// usable.
func Build(members []models.TeamMember) (*Store, error) {
	store, errs := NewStoreFrom(members)
	if len(errs) > 0 {
		return nil, &ValidationError{Members: errs}
	}
	return store, nil
}

// Resolve returns the inline roster when one is given, otherwise loads
// teamID through repo.
func Resolve(ctx context.Context, repo Repository, inline []models.TeamMember, teamID string) ([]models.TeamMember, error) {
	if len(inline) > 0 {
		return inline, nil
	}
	if teamID == "" {
		return nil, ErrNoRoster
	}
	if repo == nil {
		return nil, fmt.Errorf("%w: team %s", ErrNoRepository, teamID)
	}
	return repo.Load(ctx, teamID)
}
