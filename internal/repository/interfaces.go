package repository

import (
	"context"
	"errors"

	"github.com/you/teamboard/internal/domain"
)

var ErrNotFound = errors.New("not found")

// DuplicateError reports a unique-constraint violation on a named field,
// so the transport layer can tag 409 responses with the offending input.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string { return e.Field + " already exists" }

type Repo interface {
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByID(ctx context.Context, userID int64) (domain.User, error)

	// CreateTeamWithOwner inserts the team and an admin membership for
	// its creator in one transaction; neither row exists on failure.
	CreateTeamWithOwner(ctx context.Context, t domain.Team) (domain.Team, error)
	GetTeam(ctx context.Context, teamID int64) (domain.Team, error)
	UpdateTeam(ctx context.Context, t domain.Team) (domain.Team, error)
	DeleteTeam(ctx context.Context, teamID int64) error
	ListTeamsForUser(ctx context.Context, userID int64) ([]domain.Team, error)

	GetMembership(ctx context.Context, teamID, userID int64) (domain.Membership, error)
	AddMember(ctx context.Context, m domain.Membership) (domain.Membership, error)
	ListMembers(ctx context.Context, teamID int64) ([]domain.Member, error)
	RemoveMember(ctx context.Context, teamID, userID int64) error

	CreateTask(ctx context.Context, t domain.Task) (domain.Task, error)
	GetTask(ctx context.Context, taskID int64) (domain.Task, error)
	ListTasksByTeam(ctx context.Context, teamID int64) ([]domain.Task, error)
	UpdateTask(ctx context.Context, t domain.Task) (domain.Task, error)
	DeleteTask(ctx context.Context, taskID int64) error
}
