package repository

import (
	"context"

	"market/internal/domain/model"
)

type ProfileRepository interface {
	Create(ctx context.Context, p model.Profile) (model.Profile, error)
	FindByID(ctx context.Context, id int64) (model.Profile, error)
	FindByUserID(ctx context.Context, userID int64) (model.Profile, error)
	Update(ctx context.Context, p model.Profile) error

	//BANフラグと理由だけを更新する
	SetBan(ctx context.Context, profileID int64, banned bool, reason string) error
}
