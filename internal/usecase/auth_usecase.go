package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"market/internal/config"
	"market/internal/domain/model"
	repo "market/internal/repository"
)

// accesstokenの有効期限
const accessTokenTTL = 60 * time.Minute

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, username string, email string, password string) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

type AuthRegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	StoreName string `json:"store_name"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	ProfileID int64  `json:"profile_id"`
	Role      string `json:"role"`
}

type JwtAccessTokenDTO struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type AuthRegisterResponse struct {
	User  UserDTO           `json:"user"`
	Token JwtAccessTokenDTO `json:"token"`
}

type AuthLoginResponse struct {
	User  UserDTO           `json:"user"`
	Token JwtAccessTokenDTO `json:"token"`
}

type AuthUsecase struct {
	cfg       config.Config
	users     repo.UserRepository
	profiles  repo.ProfileRepository
	validator AuthValidator
	audit     *AuditRecorder
}

func NewAuthUsecase(
	cfg config.Config,
	users repo.UserRepository,
	profiles repo.ProfileRepository,
	validator AuthValidator,
	audit *AuditRecorder,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:       cfg,
		users:     users,
		profiles:  profiles,
		validator: validator,
		audit:     audit,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (*AuthRegisterResponse, error) {
	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, req.Username, req.Email, req.Password); err != nil {
		return nil, err
	}

	//自己登録できるのはclientとvendorのみ。adminは作れない
	role := model.RoleClient
	switch req.Role {
	case "", string(model.RoleClient):
	case string(model.RoleVendor):
		role = model.RoleVendor
	default:
		return nil, NewHTTPError(http.StatusBadRequest, "role must be client or vendor")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:    strings.TrimSpace(req.FirstName),
		PasswordHash: string(pwHash),
	}

	//username/emailのunique違反はErrConflictになる
	if err := u.users.Create(ctx, user); err != nil {
		if err == repo.ErrConflict {
			return nil, NewHTTPError(http.StatusConflict, "username or email already taken")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	profile, err := u.profiles.Create(ctx, model.Profile{
		UserID:    user.ID,
		Role:      role,
		Phone:     strings.TrimSpace(req.Phone),
		StoreName: strings.TrimSpace(req.StoreName),
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, &user.ID, model.AuditActionUserRegistered,
		fmt.Sprintf("User '%s' registered as %s", user.Username, role))

	accessToken, expiresIn, err := u.issueAccessToken(user, profile)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return &AuthRegisterResponse{
		User: toUserDTO(user, profile),
		Token: JwtAccessTokenDTO{
			AccessToken: accessToken,
			ExpiresIn:   expiresIn,
		},
	}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest) (*AuthLoginResponse, error) {
	if err := u.validator.ValidateLogin(ctx, req.Email, req.Password); err != nil {
		return nil, err
	}

	user, err := u.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || user == nil {
		//存在の有無は漏らさない
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	profile, err := u.profiles.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//BAN済みユーザーはログイン不可
	if profile.IsBanned {
		return nil, NewHTTPError(http.StatusForbidden, "account is banned")
	}

	accessToken, expiresIn, err := u.issueAccessToken(user, profile)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	u.audit.Record(ctx, &user.ID, model.AuditActionUserLogin,
		fmt.Sprintf("User '%s' logged in", user.Username))

	return &AuthLoginResponse{
		User: toUserDTO(user, profile),
		Token: JwtAccessTokenDTO{
			AccessToken: accessToken,
			ExpiresIn:   expiresIn,
		},
	}, nil
}

// jwt発行
func (u *AuthUsecase) issueAccessToken(user *model.User, profile model.Profile) (string, int, error) {
	now := time.Now()
	exp := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":        user.ID,
		"profile_id": profile.ID,
		"role":       string(profile.Role),
		"iat":        now.Unix(),
		"exp":        exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}

	return signed, int(accessTokenTTL.Seconds()), nil
}

// model.UserをAPI返却用DTOに変換。
func toUserDTO(u *model.User, p model.Profile) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		ProfileID: p.ID,
		Role:      string(p.Role),
	}
}
