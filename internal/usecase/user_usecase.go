package usecase

import (
	"context"
	"net/http"
	"strings"

	"market/internal/domain/model"
	repo "market/internal/repository"
)

// 本人向けビュー。BAN系フィールドは見せない
type MyProfileDTO struct {
	UserDTO
	Phone     string `json:"phone"`
	StoreName string `json:"store_name,omitempty"`
}

// 第三者向けの公開ビュー。連絡先は出さない
type PublicProfileDTO struct {
	ProfileID int64  `json:"profile_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	Role      string `json:"role"`
	StoreName string `json:"store_name,omitempty"`
}

// 管理者向けフルビュー
type AdminUserDTO struct {
	UserDTO
	Phone     string `json:"phone"`
	StoreName string `json:"store_name,omitempty"`
	IsBanned  bool   `json:"is_banned"`
	BanReason string `json:"ban_reason,omitempty"`
}

type AdminUserListOutput struct {
	Items []AdminUserDTO `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type UserUsecase struct {
	users    repo.UserRepository
	profiles repo.ProfileRepository
}

func NewUserUsecase(users repo.UserRepository, profiles repo.ProfileRepository) *UserUsecase {
	return &UserUsecase{users: users, profiles: profiles}
}

func (u *UserUsecase) Me(ctx context.Context, actor Actor) (*MyProfileDTO, error) {
	user, err := u.users.FindByID(ctx, actor.UserID)
	if err != nil || user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	profile, err := u.profiles.FindByID(ctx, actor.ProfileID)
	if err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	return &MyProfileDTO{
		UserDTO:   toUserDTO(user, profile),
		Phone:     profile.Phone,
		StoreName: profile.StoreName,
	}, nil
}

type UpdateMyProfileInput struct {
	FirstName string
	Phone     string
	StoreName string
}

func (u *UserUsecase) UpdateMe(ctx context.Context, actor Actor, in UpdateMyProfileInput) (*MyProfileDTO, error) {
	user, err := u.users.FindByID(ctx, actor.UserID)
	if err != nil || user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	profile, err := u.profiles.FindByID(ctx, actor.ProfileID)
	if err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if name := strings.TrimSpace(in.FirstName); name != "" {
		user.FirstName = name
	}
	profile.Phone = strings.TrimSpace(in.Phone)
	if profile.Role == model.RoleVendor {
		profile.StoreName = strings.TrimSpace(in.StoreName)
	}

	if err := u.profiles.Update(ctx, profile); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return &MyProfileDTO{
		UserDTO:   toUserDTO(user, profile),
		Phone:     profile.Phone,
		StoreName: profile.StoreName,
	}, nil
}

// 公開プロフィール。BANや連絡先は含めない
func (u *UserUsecase) PublicProfile(ctx context.Context, profileID int64) (*PublicProfileDTO, error) {
	if profileID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid profile id")
	}
	profile, err := u.profiles.FindByID(ctx, profileID)
	if err == repo.ErrNotFound {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//BAN済みvendorのプロフィールは公開しない
	if profile.IsBanned {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}

	user, err := u.users.FindByID(ctx, profile.UserID)
	if err != nil || user == nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return &PublicProfileDTO{
		ProfileID: profile.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		Role:      string(profile.Role),
		StoreName: profile.StoreName,
	}, nil
}

func (u *UserUsecase) AdminListUsers(ctx context.Context, actor Actor, page int, limit int) (AdminUserListOutput, error) {
	if !actor.IsAdmin() {
		return AdminUserListOutput{}, NewHTTPError(http.StatusForbidden, "admin only")
	}
	if page < 1 {
		return AdminUserListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return AdminUserListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	users, total, err := u.users.List(ctx, page, limit)
	if err != nil {
		return AdminUserListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]AdminUserDTO, 0, len(users))
	for i := range users {
		user := &users[i]
		profile, err := u.profiles.FindByUserID(ctx, user.ID)
		if err != nil {
			//プロフィール未作成のユーザーは一覧から落とす
			continue
		}
		items = append(items, toAdminUserDTO(user, profile))
	}

	return AdminUserListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (u *UserUsecase) AdminGetUser(ctx context.Context, actor Actor, userID int64) (*AdminUserDTO, error) {
	if !actor.IsAdmin() {
		return nil, NewHTTPError(http.StatusForbidden, "admin only")
	}
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrNotFound || user == nil {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	profile, err := u.profiles.FindByUserID(ctx, user.ID)
	if err == repo.ErrNotFound {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	dto := toAdminUserDTO(user, profile)
	return &dto, nil
}

func toAdminUserDTO(user *model.User, profile model.Profile) AdminUserDTO {
	return AdminUserDTO{
		UserDTO:   toUserDTO(user, profile),
		Phone:     profile.Phone,
		StoreName: profile.StoreName,
		IsBanned:  profile.IsBanned,
		BanReason: profile.BanReason,
	}
}
