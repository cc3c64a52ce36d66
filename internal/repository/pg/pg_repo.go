package pg

import (
	"context"
	"errors"

	"github.com/you/teamboard/internal/domain"
	"github.com/you/teamboard/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ repository.Repo = (*PGRepo)(nil)

type PGRepo struct {
	pool *pgxpool.Pool
}

func NewPGRepo(pool *pgxpool.Pool) *PGRepo {
	return &PGRepo{pool: pool}
}

// uniqueViolation maps a 23505 error to a field-tagged DuplicateError.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return &repository.DuplicateError{Field: "username"}
	case "users_email_key":
		return &repository.DuplicateError{Field: "email"}
	case "memberships_team_id_user_id_key":
		return &repository.DuplicateError{Field: "user_id"}
	}
	return &repository.DuplicateError{Field: ""}
}

func (p *PGRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	err := p.pool.QueryRow(ctx,
		"INSERT INTO users (username, email, password_hash, name) VALUES ($1,$2,$3,$4) RETURNING id",
		u.Username, u.Email, u.PasswordHash, u.Name).Scan(&u.ID)
	if err != nil {
		return domain.User{}, uniqueViolation(err)
	}
	return u, nil
}

func (p *PGRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := p.pool.QueryRow(ctx,
		"SELECT id, username, email, password_hash, name FROM users WHERE email=$1",
		email).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, repository.ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

func (p *PGRepo) GetUserByID(ctx context.Context, userID int64) (domain.User, error) {
	var u domain.User
	err := p.pool.QueryRow(ctx,
		"SELECT id, username, email, password_hash, name FROM users WHERE id=$1",
		userID).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, repository.ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

func (p *PGRepo) CreateTeamWithOwner(ctx context.Context, t domain.Team) (domain.Team, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return domain.Team{}, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		"INSERT INTO teams (name, description, created_by) VALUES ($1,$2,$3) RETURNING id, created_at",
		t.Name, t.Description, t.CreatedBy).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return domain.Team{}, err
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO memberships (team_id, user_id, role) VALUES ($1,$2,$3)",
		t.ID, t.CreatedBy, domain.RoleAdmin)
	if err != nil {
		return domain.Team{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Team{}, err
	}
	return t, nil
}

func (p *PGRepo) GetTeam(ctx context.Context, teamID int64) (domain.Team, error) {
	var t domain.Team
	err := p.pool.QueryRow(ctx,
		"SELECT id, name, description, created_by, created_at FROM teams WHERE id=$1",
		teamID).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Team{}, repository.ErrNotFound
		}
		return domain.Team{}, err
	}
	return t, nil
}

func (p *PGRepo) UpdateTeam(ctx context.Context, t domain.Team) (domain.Team, error) {
	tag, err := p.pool.Exec(ctx,
		"UPDATE teams SET name=$1, description=$2 WHERE id=$3",
		t.Name, t.Description, t.ID)
	if err != nil {
		return domain.Team{}, err
	}
	if tag.RowsAffected() == 0 {
		return domain.Team{}, repository.ErrNotFound
	}
	return p.GetTeam(ctx, t.ID)
}

// DeleteTeam removes the team's tasks and memberships before the team row
// itself, all in one transaction. The schema also carries ON DELETE CASCADE,
// but the cascade is done here explicitly so the store contract does not
// depend on it.
func (p *PGRepo) DeleteTeam(ctx context.Context, teamID int64) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM tasks WHERE team_id=$1", teamID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM memberships WHERE team_id=$1", teamID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM teams WHERE id=$1", teamID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (p *PGRepo) ListTeamsForUser(ctx context.Context, userID int64) ([]domain.Team, error) {
	rows, err := p.pool.Query(ctx, `
        SELECT t.id, t.name, t.description, t.created_by, t.created_at, m.role
        FROM teams t
        JOIN memberships m ON m.team_id = t.id
        WHERE m.user_id = $1
        ORDER BY t.created_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var teams []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedBy, &t.CreatedAt, &t.Role); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (p *PGRepo) GetMembership(ctx context.Context, teamID, userID int64) (domain.Membership, error) {
	var m domain.Membership
	err := p.pool.QueryRow(ctx,
		"SELECT id, team_id, user_id, role FROM memberships WHERE team_id=$1 AND user_id=$2",
		teamID, userID).Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Membership{}, repository.ErrNotFound
		}
		return domain.Membership{}, err
	}
	return m, nil
}

func (p *PGRepo) AddMember(ctx context.Context, m domain.Membership) (domain.Membership, error) {
	err := p.pool.QueryRow(ctx,
		"INSERT INTO memberships (team_id, user_id, role) VALUES ($1,$2,$3) RETURNING id",
		m.TeamID, m.UserID, m.Role).Scan(&m.ID)
	if err != nil {
		return domain.Membership{}, uniqueViolation(err)
	}
	return m, nil
}

func (p *PGRepo) ListMembers(ctx context.Context, teamID int64) ([]domain.Member, error) {
	rows, err := p.pool.Query(ctx, `
        SELECT m.id, m.team_id, m.user_id, m.role, u.username, u.email, u.name
        FROM memberships m
        JOIN users u ON u.id = m.user_id
        WHERE m.team_id = $1
        ORDER BY m.id
    `, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.Username, &m.Email, &m.Name); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (p *PGRepo) RemoveMember(ctx context.Context, teamID, userID int64) error {
	tag, err := p.pool.Exec(ctx,
		"DELETE FROM memberships WHERE team_id=$1 AND user_id=$2", teamID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (p *PGRepo) CreateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	err := p.pool.QueryRow(ctx, `
        INSERT INTO tasks (title, description, status, priority, assigned_to, team_id, created_by, due_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at
    `, t.Title, t.Description, t.Status, t.Priority, t.AssignedTo, t.TeamID, t.CreatedBy, t.DueDate).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

func (p *PGRepo) GetTask(ctx context.Context, taskID int64) (domain.Task, error) {
	var t domain.Task
	err := p.pool.QueryRow(ctx, `
        SELECT id, title, description, status, priority, assigned_to, team_id, created_by, due_date, created_at
        FROM tasks WHERE id=$1
    `, taskID).Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.AssignedTo, &t.TeamID, &t.CreatedBy, &t.DueDate, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, repository.ErrNotFound
		}
		return domain.Task{}, err
	}
	return t, nil
}

func (p *PGRepo) ListTasksByTeam(ctx context.Context, teamID int64) ([]domain.Task, error) {
	rows, err := p.pool.Query(ctx, `
        SELECT id, title, description, status, priority, assigned_to, team_id, created_by, due_date, created_at
        FROM tasks WHERE team_id=$1
        ORDER BY created_at DESC
    `, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.AssignedTo, &t.TeamID, &t.CreatedBy, &t.DueDate, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask overwrites every mutable field; there is no version column,
// so concurrent edits are last write wins.
func (p *PGRepo) UpdateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	tag, err := p.pool.Exec(ctx, `
        UPDATE tasks SET title=$1, description=$2, status=$3, priority=$4, assigned_to=$5, due_date=$6
        WHERE id=$7
    `, t.Title, t.Description, t.Status, t.Priority, t.AssignedTo, t.DueDate, t.ID)
	if err != nil {
		return domain.Task{}, err
	}
	if tag.RowsAffected() == 0 {
		return domain.Task{}, repository.ErrNotFound
	}
	return p.GetTask(ctx, t.ID)
}

func (p *PGRepo) DeleteTask(ctx context.Context, taskID int64) error {
	tag, err := p.pool.Exec(ctx, "DELETE FROM tasks WHERE id=$1", taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
