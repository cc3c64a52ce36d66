package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/you/teamboard/internal/auth"
	"github.com/you/teamboard/internal/domain"
	"github.com/you/teamboard/internal/repository"
)

type AuthUsecase struct {
	Repo repository.Repo
}

func NewAuthUsecase(r repository.Repo) *AuthUsecase {
	return &AuthUsecase{Repo: r}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if strings.TrimSpace(in.Username) == "" {
		return domain.User{}, &ValidationError{Field: "username", Msg: "required"}
	}
	if !strings.Contains(in.Email, "@") {
		return domain.User{}, &ValidationError{Field: "email", Msg: "invalid email"}
	}
	if len(in.Password) < 8 {
		return domain.User{}, &ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.User{}, &ValidationError{Field: "name", Msg: "required"}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
	}
	return u.Repo.CreateUser(ctx, user)
}

// Login deliberately returns the same error for an unknown email and a
// wrong password.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := u.Repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (domain.User, error) {
	user, err := u.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}
