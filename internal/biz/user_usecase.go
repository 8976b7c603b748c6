package biz

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"notehub/internal/domain"
)

// UserUsecase manages registration, lookup and credential verification.
type UserUsecase struct {
	users domain.UserRepository
	log   *log.Helper
}

// NewUserUsecase creates a user usecase.
func NewUserUsecase(users domain.UserRepository, logger log.Logger) *UserUsecase {
	return &UserUsecase{
		users: users,
		log:   log.NewHelper(log.With(logger, "module", "users")),
	}
}

// AddUser registers a user and returns the new id. A taken username fails
// with the invariant kind before anything is written.
func (uc *UserUsecase) AddUser(ctx context.Context, username, password, fullname string) (string, error) {
	taken, err := uc.users.ExistsByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("%w: username already taken", domain.ErrInvariant)
	}

	user, err := domain.NewUser(username, password, fullname)
	if err != nil {
		return "", err
	}

	if err := uc.users.Create(ctx, user); err != nil {
		return "", err
	}

	uc.log.WithContext(ctx).Infof("user registered: %s", user.ID)
	return user.ID, nil
}

// GetUserByID returns the user or ErrUserNotFound.
func (uc *UserUsecase) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return uc.users.GetByID(ctx, id)
}

// GetUsersByUsername returns users matching the partial username,
// case-insensitively. No match yields an empty slice, not an error.
func (uc *UserUsecase) GetUsersByUsername(ctx context.Context, partial string) ([]*domain.User, error) {
	return uc.users.SearchByUsername(ctx, partial)
}

// VerifyUserCredential returns the user id when username and password match.
// Unknown usernames and wrong passwords fail identically so the response
// carries no enumeration signal.
func (uc *UserUsecase) VerifyUserCredential(ctx context.Context, username, password string) (string, error) {
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}

	if !user.VerifyPassword(password) {
		return "", domain.ErrInvalidCredentials
	}

	return user.ID, nil
}
