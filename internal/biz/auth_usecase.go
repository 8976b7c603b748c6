package biz

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"notehub/internal/domain"
	"notehub/pkg/auth"
)

// AuthUsecase issues, refreshes and revokes tokens.
type AuthUsecase struct {
	users  *UserUsecase
	tokens domain.TokenRepository
	jwt    *auth.JWTManager
	log    *log.Helper
}

// NewAuthUsecase creates an auth usecase.
func NewAuthUsecase(users *UserUsecase, tokens domain.TokenRepository, jwt *auth.JWTManager, logger log.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		tokens: tokens,
		jwt:    jwt,
		log:    log.NewHelper(log.With(logger, "module", "auth")),
	}
}

// Login verifies the credential pair and issues an access and refresh token.
// The refresh token is persisted so it can be revoked.
func (uc *AuthUsecase) Login(ctx context.Context, username, password string) (accessToken, refreshToken string, err error) {
	userID, err := uc.users.VerifyUserCredential(ctx, username, password)
	if err != nil {
		return "", "", err
	}

	accessToken, err = uc.jwt.GenerateAccessToken(userID, username)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = uc.jwt.GenerateRefreshToken(userID)
	if err != nil {
		return "", "", err
	}

	if err := uc.tokens.Save(ctx, refreshToken); err != nil {
		return "", "", err
	}

	uc.log.WithContext(ctx).Infof("user logged in: %s", userID)
	return accessToken, refreshToken, nil
}

// Refresh issues a new access token for a valid, unrevoked refresh token.
func (uc *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if err := uc.tokens.Verify(ctx, refreshToken); err != nil {
		return "", err
	}

	userID, err := uc.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", domain.ErrInvalidRefreshToken
	}

	user, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}

	return uc.jwt.GenerateAccessToken(user.ID, user.Username)
}

// Logout revokes the refresh token.
func (uc *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	return uc.tokens.Delete(ctx, refreshToken)
}
