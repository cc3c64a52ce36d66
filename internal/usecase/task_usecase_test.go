package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/you/teamboard/internal/domain"
)

// boardFixture: alice owns a team, bob is a member, carol is an outsider.
type boardFixture struct {
	repo  *memRepo
	teams *TeamUsecase
	tasks *TaskUsecase
	team  domain.Team
	alice domain.User
	bob   domain.User
	carol domain.User
}

func newBoardFixture(t *testing.T) *boardFixture {
	t.Helper()
	ctx := context.Background()
	repo := newMemRepo()
	f := &boardFixture{
		repo:  repo,
		teams: NewTeamUsecase(repo),
		tasks: NewTaskUsecase(repo),
		alice: repo.seedUser("alice", "alice@example.com"),
		bob:   repo.seedUser("bob", "bob@example.com"),
		carol: repo.seedUser("carol", "carol@example.com"),
	}
	team, err := f.teams.CreateTeam(ctx, f.alice.ID, "backend", "")
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	f.team = team
	if _, err := f.teams.AddMemberByEmail(ctx, f.alice.ID, team.ID, "bob@example.com", ""); err != nil {
		t.Fatalf("add bob: %v", err)
	}
	return f
}

func TestCreateTask_Defaults(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t)

	task, err := f.tasks.CreateTask(ctx, f.bob.ID, CreateTaskInput{Title: "ship it", TeamID: f.team.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Status != domain.StatusTodo {
		t.Fatalf("expected default status todo, got %s", task.Status)
	}
	if task.Priority != domain.PriorityMedium {
		t.Fatalf("expected default priority medium, got %s", task.Priority)
	}
	if task.CreatedBy != f.bob.ID {
		t.Fatalf("created_by should be the acting user")
	}
	if task.AssignedTo != nil {
		t.Fatalf("assignee should default to nil")
	}
}

func TestCreateTask_NonMemberDenied(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t)

	_, err := f.tasks.CreateTask(ctx, f.carol.ID, CreateTaskInput{Title: "sneak", TeamID: f.team.ID})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t)

	var vErr *ValidationError
	_, err := f.tasks.CreateTask(ctx, f.alice.ID, CreateTaskInput{TeamID: f.team.ID})
	if !errors.As(err, &vErr) || vErr.Field != "title" {
		t.Fatalf("expected title validation error, got %v", err)
	}
	_, err = f.tasks.CreateTask(ctx, f.alice.ID, CreateTaskInput{Title: "x", TeamID: f.team.ID, Status: "archived"})
	if !errors.As(err, &vErr) || vErr.Field != "status" {
		t.Fatalf("expected status validation error, got %v", err)
	}
}

func TestListTasks_NonMemberDenied(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t)

	if _, err := f.tasks.ListTasks(ctx, f.carol.ID, f.team.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.tasks.ListTasks(ctx, f.bob.ID, f.team.ID); err != nil {
		t.Fatalf("member list: %v", err)
	}
}

func TestUpdateTask_TeamDerivedFromStoredTask(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t)

	// carol owns her own team, so she has *a* membership, just not in
	// the task's team. The check must run against the stored team.
	if _, err := f.teams.CreateTeam(ctx, f.carol.ID, "carol's", ""); err != nil {
		t.Fatalf("carol team: %v", err)
	}

	task, err := f.tasks.CreateTask(ctx, f.alice.ID, CreateTaskInput{Title: "secret", TeamID: f.team.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status := domain.StatusDone
	_, err = f.tasks.UpdateTask(ctx, f.carol.ID, task.ID, UpdateTaskInput{Status: &status})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for cross-team update, got %v", err)
	}

	got, _ := f.repo.GetTask(ctx, task.ID)
	if got.Status != domain.StatusTodo || got.TeamID != f.team.ID {
		t.Fatalf("denied update mutated the task: %+v", got)
	}
}

func TestUpdateTask_MemberMayReassign(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t)

	task, _ := f.tasks.CreateTask(ctx, f.alice.ID, CreateTaskInput{Title: "review", TeamID: f.team.ID})

	updated, err := f.tasks.UpdateTask(ctx, f.bob.ID, task.ID, UpdateTaskInput{AssignedTo: &f.bob.ID})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.AssignedTo == nil || *updated.AssignedTo != f.bob.ID {
		t.Fatalf("expected bob assigned, got %+v", updated.AssignedTo)
	}
}

func TestDeleteTask_CreatorOrAdmin(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t)

	// bob (member) creates the task; alice (admin, not creator) deletes it.
	task, _ := f.tasks.CreateTask(ctx, f.bob.ID, CreateTaskInput{Title: "x", TeamID: f.team.ID})
	if err := f.tasks.DeleteTask(ctx, f.alice.ID, task.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}

	// bob (member, creator) deletes his own task.
	task, _ = f.tasks.CreateTask(ctx, f.bob.ID, CreateTaskInput{Title: "y", TeamID: f.team.ID})
	if err := f.tasks.DeleteTask(ctx, f.bob.ID, task.ID); err != nil {
		t.Fatalf("creator delete: %v", err)
	}

	// bob (member, not creator, not admin) cannot delete alice's task.
	task, _ = f.tasks.CreateTask(ctx, f.alice.ID, CreateTaskInput{Title: "z", TeamID: f.team.ID})
	if err := f.tasks.DeleteTask(ctx, f.bob.ID, task.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.repo.GetTask(ctx, task.ID); err != nil {
		t.Fatalf("denied delete removed the task")
	}
}

func TestDeleteTask_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t)

	if err := f.tasks.DeleteTask(ctx, f.alice.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
