package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/you/teamboard/internal/domain"
	"github.com/you/teamboard/internal/repository"
)

// memRepo is an in-memory Repo used by the usecase tests.
type memRepo struct {
	users       map[int64]domain.User
	teams       map[int64]domain.Team
	memberships map[int64]domain.Membership
	tasks       map[int64]domain.Task
	nextID      int64

	failTeamCreate bool
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:       map[int64]domain.User{},
		teams:       map[int64]domain.Team{},
		memberships: map[int64]domain.Membership{},
		tasks:       map[int64]domain.Task{},
	}
}

func (m *memRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return domain.User{}, &repository.DuplicateError{Field: "email"}
		}
		if existing.Username == u.Username {
			return domain.User{}, &repository.DuplicateError{Field: "username"}
		}
	}
	u.ID = m.id()
	m.users[u.ID] = u
	return u, nil
}

func (m *memRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func (m *memRepo) GetUserByID(ctx context.Context, userID int64) (domain.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memRepo) CreateTeamWithOwner(ctx context.Context, t domain.Team) (domain.Team, error) {
	if m.failTeamCreate {
		// Simulates a failure inside the transaction: nothing is kept.
		return domain.Team{}, errors.New("insert failed")
	}
	t.ID = m.id()
	t.CreatedAt = time.Now().UTC()
	m.teams[t.ID] = t
	mem := domain.Membership{ID: m.id(), TeamID: t.ID, UserID: t.CreatedBy, Role: domain.RoleAdmin}
	m.memberships[mem.ID] = mem
	return t, nil
}

func (m *memRepo) GetTeam(ctx context.Context, teamID int64) (domain.Team, error) {
	t, ok := m.teams[teamID]
	if !ok {
		return domain.Team{}, repository.ErrNotFound
	}
	return t, nil
}

func (m *memRepo) UpdateTeam(ctx context.Context, t domain.Team) (domain.Team, error) {
	existing, ok := m.teams[t.ID]
	if !ok {
		return domain.Team{}, repository.ErrNotFound
	}
	existing.Name = t.Name
	existing.Description = t.Description
	m.teams[t.ID] = existing
	return existing, nil
}

func (m *memRepo) DeleteTeam(ctx context.Context, teamID int64) error {
	if _, ok := m.teams[teamID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.teams, teamID)
	for id, mem := range m.memberships {
		if mem.TeamID == teamID {
			delete(m.memberships, id)
		}
	}
	for id, task := range m.tasks {
		if task.TeamID == teamID {
			delete(m.tasks, id)
		}
	}
	return nil
}

func (m *memRepo) ListTeamsForUser(ctx context.Context, userID int64) ([]domain.Team, error) {
	var teams []domain.Team
	for _, mem := range m.memberships {
		if mem.UserID == userID {
			t := m.teams[mem.TeamID]
			t.Role = mem.Role
			teams = append(teams, t)
		}
	}
	return teams, nil
}

func (m *memRepo) GetMembership(ctx context.Context, teamID, userID int64) (domain.Membership, error) {
	for _, mem := range m.memberships {
		if mem.TeamID == teamID && mem.UserID == userID {
			return mem, nil
		}
	}
	return domain.Membership{}, repository.ErrNotFound
}

func (m *memRepo) AddMember(ctx context.Context, mem domain.Membership) (domain.Membership, error) {
	for _, existing := range m.memberships {
		if existing.TeamID == mem.TeamID && existing.UserID == mem.UserID {
			return domain.Membership{}, &repository.DuplicateError{Field: "user_id"}
		}
	}
	mem.ID = m.id()
	m.memberships[mem.ID] = mem
	return mem, nil
}

func (m *memRepo) ListMembers(ctx context.Context, teamID int64) ([]domain.Member, error) {
	var members []domain.Member
	for _, mem := range m.memberships {
		if mem.TeamID == teamID {
			u := m.users[mem.UserID]
			members = append(members, domain.Member{
				Membership: mem,
				Username:   u.Username,
				Email:      u.Email,
				Name:       u.Name,
			})
		}
	}
	return members, nil
}

func (m *memRepo) RemoveMember(ctx context.Context, teamID, userID int64) error {
	for id, mem := range m.memberships {
		if mem.TeamID == teamID && mem.UserID == userID {
			delete(m.memberships, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memRepo) CreateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	t.ID = m.id()
	t.CreatedAt = time.Now().UTC()
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memRepo) GetTask(ctx context.Context, taskID int64) (domain.Task, error) {
	t, ok := m.tasks[taskID]
	if !ok {
		return domain.Task{}, repository.ErrNotFound
	}
	return t, nil
}

func (m *memRepo) ListTasksByTeam(ctx context.Context, teamID int64) ([]domain.Task, error) {
	var tasks []domain.Task
	for _, t := range m.tasks {
		if t.TeamID == teamID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (m *memRepo) UpdateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	existing, ok := m.tasks[t.ID]
	if !ok {
		return domain.Task{}, repository.ErrNotFound
	}
	existing.Title = t.Title
	existing.Description = t.Description
	existing.Status = t.Status
	existing.Priority = t.Priority
	existing.AssignedTo = t.AssignedTo
	existing.DueDate = t.DueDate
	m.tasks[t.ID] = existing
	return existing, nil
}

func (m *memRepo) DeleteTask(ctx context.Context, taskID int64) error {
	if _, ok := m.tasks[taskID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.tasks, taskID)
	return nil
}

var _ repository.Repo = (*memRepo)(nil)

// seedUser inserts a user directly, bypassing validation.
func (m *memRepo) seedUser(username, email string) domain.User {
	u := domain.User{Username: username, Email: email, Name: username, PasswordHash: "x"}
	u.ID = m.id()
	m.users[u.ID] = u
	return u
}
