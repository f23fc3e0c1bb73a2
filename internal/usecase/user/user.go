package user

import (
	"context"
	"errors"

	repository "github.com/liqdesk/spread-revenue/internal/repository/user"
)

type UserUseCase interface {
	Register(ctx context.Context, username, password string) (int64, error)
	Login(ctx context.Context, username, password string) (*repository.User, error)
	GetProfile(ctx context.Context, userID int64) (*repository.User, error)
}

type userUseCaseImpl struct {
	repo *repository.UserRepository
}

type UserUseCaseOpts struct {
	UserRepo *repository.UserRepository
}

func NewUserUseCase(opts UserUseCaseOpts) UserUseCase {
	return &userUseCaseImpl{repo: opts.UserRepo}
}

func (uc *userUseCaseImpl) Register(ctx context.Context, username, password string) (int64, error) {
	if username == "" || password == "" {
		return 0, errors.New("username and password are required")
	}
	existing, _ := (*uc.repo).GetByUsername(ctx, username)
	if existing != nil {
		return 0, errors.New("username already exists")
	}
	return (*uc.repo).Create(ctx, username, password)
}

func (uc *userUseCaseImpl) Login(ctx context.Context, username, password string) (*repository.User, error) {
	return (*uc.repo).VerifyPassword(ctx, username, password)
}

func (uc *userUseCaseImpl) GetProfile(ctx context.Context, userID int64) (*repository.User, error) {
	return (*uc.repo).GetByID(ctx, userID)
}
