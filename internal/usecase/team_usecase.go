package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/you/teamboard/internal/domain"
	"github.com/you/teamboard/internal/repository"
)

type TeamUsecase struct {
	Repo repository.Repo
}

func NewTeamUsecase(r repository.Repo) *TeamUsecase {
	return &TeamUsecase{Repo: r}
}

// membership resolves the acting user's membership in a team. A missing
// row comes back as ErrForbidden; callers never learn whether the team
// exists.
func (u *TeamUsecase) membership(ctx context.Context, teamID, userID int64) (domain.Membership, error) {
	m, err := u.Repo.GetMembership(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Membership{}, ErrForbidden
		}
		return domain.Membership{}, err
	}
	return m, nil
}

func (u *TeamUsecase) CreateTeam(ctx context.Context, userID int64, name, description string) (domain.Team, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Team{}, &ValidationError{Field: "name", Msg: "required"}
	}
	team := domain.Team{
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedBy:   userID,
	}
	created, err := u.Repo.CreateTeamWithOwner(ctx, team)
	if err != nil {
		return domain.Team{}, err
	}
	created.Role = domain.RoleAdmin
	return created, nil
}

func (u *TeamUsecase) ListTeams(ctx context.Context, userID int64) ([]domain.Team, error) {
	return u.Repo.ListTeamsForUser(ctx, userID)
}

func (u *TeamUsecase) UpdateTeam(ctx context.Context, userID, teamID int64, name, description string) (domain.Team, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Team{}, &ValidationError{Field: "name", Msg: "required"}
	}
	m, err := u.membership(ctx, teamID, userID)
	if err != nil {
		return domain.Team{}, err
	}
	if d := RequireAdmin(m); !d.Allow {
		return domain.Team{}, ErrForbidden
	}
	updated, err := u.Repo.UpdateTeam(ctx, domain.Team{
		ID:          teamID,
		Name:        strings.TrimSpace(name),
		Description: description,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Team{}, ErrNotFound
		}
		return domain.Team{}, err
	}
	return updated, nil
}

func (u *TeamUsecase) DeleteTeam(ctx context.Context, userID, teamID int64) error {
	m, err := u.membership(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if d := RequireAdmin(m); !d.Allow {
		return ErrForbidden
	}
	if err := u.Repo.DeleteTeam(ctx, teamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (u *TeamUsecase) ListMembers(ctx context.Context, userID, teamID int64) ([]domain.Member, error) {
	if _, err := u.membership(ctx, teamID, userID); err != nil {
		return nil, err
	}
	return u.Repo.ListMembers(ctx, teamID)
}

// AddMemberByEmail adds an existing user to a team. Only admins may add
// members; the role defaults to "member" when not supplied.
func (u *TeamUsecase) AddMemberByEmail(ctx context.Context, userID, teamID int64, email string, role domain.Role) (domain.Membership, error) {
	if strings.TrimSpace(email) == "" {
		return domain.Membership{}, &ValidationError{Field: "email", Msg: "required"}
	}
	if role == "" {
		role = domain.RoleMember
	}
	if !domain.ValidRole(role) {
		return domain.Membership{}, &ValidationError{Field: "role", Msg: "must be admin or member"}
	}

	m, err := u.membership(ctx, teamID, userID)
	if err != nil {
		return domain.Membership{}, err
	}
	if d := RequireAdmin(m); !d.Allow {
		return domain.Membership{}, ErrForbidden
	}

	target, err := u.Repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Membership{}, ErrNotFound
		}
		return domain.Membership{}, err
	}

	if _, err := u.Repo.GetMembership(ctx, teamID, target.ID); err == nil {
		return domain.Membership{}, ErrAlreadyMember
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.Membership{}, err
	}

	added, err := u.Repo.AddMember(ctx, domain.Membership{
		TeamID: teamID,
		UserID: target.ID,
		Role:   role,
	})
	if err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			// Lost the race against a concurrent add.
			return domain.Membership{}, ErrAlreadyMember
		}
		return domain.Membership{}, err
	}
	return added, nil
}

func (u *TeamUsecase) RemoveMember(ctx context.Context, userID, teamID, targetUserID int64) error {
	m, err := u.membership(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if d := RequireAdmin(m); !d.Allow {
		return ErrForbidden
	}
	if err := u.Repo.RemoveMember(ctx, teamID, targetUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
