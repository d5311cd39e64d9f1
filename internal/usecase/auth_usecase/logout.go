package auth

import (
	"context"
	"errors"

	"storefront/internal/repository"
)

var ErrInvalidUser = errors.New("invalid user")

// ログアウト＝token_versionを+1して、発行済みトークンを全部無効化する。
// セッション由来の状態はこれで「クリア」される。
type LogoutUsecase struct {
	userRepo repository.UserRepository
}

func NewLogoutUsecase(userRepo repository.UserRepository) *LogoutUsecase {
	return &LogoutUsecase{userRepo: userRepo}
}

func (u *LogoutUsecase) Execute(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrInvalidUser
	}
	return u.userRepo.IncrementTokenVersion(ctx, userID)
}
