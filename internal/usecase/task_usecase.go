package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/you/teamboard/internal/domain"
	"github.com/you/teamboard/internal/repository"
)

type TaskUsecase struct {
	Repo repository.Repo
}

func NewTaskUsecase(r repository.Repo) *TaskUsecase {
	return &TaskUsecase{Repo: r}
}

func (u *TaskUsecase) membership(ctx context.Context, teamID, userID int64) (domain.Membership, error) {
	m, err := u.Repo.GetMembership(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Membership{}, ErrForbidden
		}
		return domain.Membership{}, err
	}
	return m, nil
}

func (u *TaskUsecase) ListTasks(ctx context.Context, userID, teamID int64) ([]domain.Task, error) {
	if _, err := u.membership(ctx, teamID, userID); err != nil {
		return nil, err
	}
	return u.Repo.ListTasksByTeam(ctx, teamID)
}

type CreateTaskInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	TeamID      int64               `json:"team_id"`
	AssignedTo  *int64              `json:"assigned_to"`
	Status      domain.TaskStatus   `json:"status"`
	Priority    domain.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
}

func (u *TaskUsecase) CreateTask(ctx context.Context, userID int64, in CreateTaskInput) (domain.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return domain.Task{}, &ValidationError{Field: "title", Msg: "required"}
	}
	if in.TeamID == 0 {
		return domain.Task{}, &ValidationError{Field: "team_id", Msg: "required"}
	}
	if in.Status == "" {
		in.Status = domain.StatusTodo
	}
	if !domain.ValidStatus(in.Status) {
		return domain.Task{}, &ValidationError{Field: "status", Msg: "must be todo, in_progress or done"}
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(in.Priority) {
		return domain.Task{}, &ValidationError{Field: "priority", Msg: "must be low, medium or high"}
	}

	if _, err := u.membership(ctx, in.TeamID, userID); err != nil {
		return domain.Task{}, err
	}

	task := domain.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		AssignedTo:  in.AssignedTo,
		TeamID:      in.TeamID,
		CreatedBy:   userID,
		DueDate:     in.DueDate,
	}
	return u.Repo.CreateTask(ctx, task)
}

func (u *TaskUsecase) GetTask(ctx context.Context, userID, taskID int64) (domain.Task, error) {
	task, err := u.Repo.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, err
	}
	if _, err := u.membership(ctx, task.TeamID, userID); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// UpdateTaskInput updates only the fields that are set; a nil pointer
// leaves the stored value alone. It carries no team id on purpose: the
// membership check runs against the task's stored team.
type UpdateTaskInput struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *domain.TaskStatus   `json:"status"`
	Priority    *domain.TaskPriority `json:"priority"`
	AssignedTo  *int64               `json:"assigned_to"`
	DueDate     *time.Time           `json:"due_date"`
}

func (u *TaskUsecase) UpdateTask(ctx context.Context, userID, taskID int64, in UpdateTaskInput) (domain.Task, error) {
	task, err := u.Repo.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, err
	}

	if _, err := u.membership(ctx, task.TeamID, userID); err != nil {
		return domain.Task{}, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return domain.Task{}, &ValidationError{Field: "title", Msg: "required"}
		}
		task.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		if !domain.ValidStatus(*in.Status) {
			return domain.Task{}, &ValidationError{Field: "status", Msg: "must be todo, in_progress or done"}
		}
		task.Status = *in.Status
	}
	if in.Priority != nil {
		if !domain.ValidPriority(*in.Priority) {
			return domain.Task{}, &ValidationError{Field: "priority", Msg: "must be low, medium or high"}
		}
		task.Priority = *in.Priority
	}
	if in.AssignedTo != nil {
		task.AssignedTo = in.AssignedTo
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}

	updated, err := u.Repo.UpdateTask(ctx, task)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, err
	}
	return updated, nil
}

func (u *TaskUsecase) DeleteTask(ctx context.Context, userID, taskID int64) error {
	task, err := u.Repo.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	m, err := u.membership(ctx, task.TeamID, userID)
	if err != nil {
		return err
	}
	if d := CanDeleteTask(task, m); !d.Allow {
		return ErrForbidden
	}

	if err := u.Repo.DeleteTask(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
