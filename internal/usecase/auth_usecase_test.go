package usecase_test

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"market/internal/config"
	"market/internal/domain/model"
	repo "market/internal/repository"
	"market/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// 入力検証は通す前提のスタブ
type AuthValidatorMock struct{ mock.Mock }

func (m *AuthValidatorMock) ValidateRegister(ctx context.Context, username string, email string, password string) error {
	args := m.Called(ctx, username, email, password)
	return args.Error(0)
}

func (m *AuthValidatorMock) ValidateLogin(ctx context.Context, email string, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func newAuthFixture() (*UserRepoMock, *ProfileRepoMock, *AuthValidatorMock, *AuditRepoMock, *usecase.AuthUsecase) {
	usersRepo := new(UserRepoMock)
	profilesRepo := new(ProfileRepoMock)
	validator := new(AuthValidatorMock)
	auditRepo := new(AuditRepoMock)

	cfg := config.Config{JWTSecret: "test-secret"}
	uc := usecase.NewAuthUsecase(cfg, usersRepo, profilesRepo, validator, usecase.NewAuditRecorder(auditRepo))
	return usersRepo, profilesRepo, validator, auditRepo, uc
}

func TestAuthUsecase_Register_CreatesUserAndProfile(t *testing.T) {
	ctx := context.Background()
	usersRepo, profilesRepo, validator, auditRepo, uc := newAuthFixture()

	validator.On("ValidateRegister", mock.Anything, "alice", "Alice@Example.com", "password123").Return(nil)

	usersRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		//emailは小文字化され、平文パスワードは保存されない
		return u.Username == "alice" &&
			u.Email == "alice@example.com" &&
			u.PasswordHash != "" &&
			u.PasswordHash != "password123"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 42
	}).Return(nil)

	profilesRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Profile) bool {
		return p.UserID == int64(42) && p.Role == model.RoleVendor && p.StoreName == "Alice's Attic"
	})).Return(model.Profile{ID: 7, UserID: 42, Role: model.RoleVendor, StoreName: "Alice's Attic"}, nil)

	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(a model.AuditLog) bool {
		return a.Action == model.AuditActionUserRegistered &&
			a.Details == "User 'alice' registered as vendor"
	})).Return(nil)

	out, err := uc.Register(ctx, usecase.AuthRegisterRequest{
		Username:  "alice",
		Email:     "Alice@Example.com",
		Password:  "password123",
		Role:      "vendor",
		StoreName: "Alice's Attic",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.User.ID)
	assert.Equal(t, int64(7), out.User.ProfileID)
	assert.Equal(t, "vendor", out.User.Role)
	assert.NotEmpty(t, out.Token.AccessToken)
	assert.Equal(t, 3600, out.Token.ExpiresIn)

	usersRepo.AssertExpectations(t)
	profilesRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

// adminは自己登録できない
func TestAuthUsecase_Register_AdminRoleRejected(t *testing.T) {
	usersRepo, _, validator, _, uc := newAuthFixture()

	validator.On("ValidateRegister", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := uc.Register(context.Background(), usecase.AuthRegisterRequest{
		Username: "mallory",
		Email:    "mallory@example.com",
		Password: "password123",
		Role:     "admin",
	})
	assertErrContains(t, err, "role must be client or vendor")
	usersRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_DuplicateConflict(t *testing.T) {
	ctx := context.Background()
	usersRepo, profilesRepo, validator, _, uc := newAuthFixture()

	validator.On("ValidateRegister", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	usersRepo.On("Create", mock.Anything, mock.Anything).Return(repo.ErrConflict)

	_, err := uc.Register(ctx, usecase.AuthRegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	assertErrContains(t, err, "username or email already taken")
	profilesRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_Success(t *testing.T) {
	ctx := context.Background()
	usersRepo, profilesRepo, validator, auditRepo, uc := newAuthFixture()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	validator.On("ValidateLogin", mock.Anything, "alice@example.com", "password123").Return(nil)
	usersRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
		ID:           42,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
	}, nil)
	profilesRepo.On("FindByUserID", mock.Anything, int64(42)).Return(model.Profile{
		ID:     7,
		UserID: 42,
		Role:   model.RoleClient,
	}, nil)
	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(a model.AuditLog) bool {
		return a.Action == model.AuditActionUserLogin
	})).Return(nil)

	out, err := uc.Login(ctx, usecase.AuthLoginRequest{
		Email:    "Alice@Example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.User.ID)
	assert.NotEmpty(t, out.Token.AccessToken)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	usersRepo, profilesRepo, validator, _, uc := newAuthFixture()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	validator.On("ValidateLogin", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	usersRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
		ID:           42,
		PasswordHash: string(hash),
	}, nil)

	_, err := uc.Login(ctx, usecase.AuthLoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assertErrContains(t, err, "invalid credentials")
	profilesRepo.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
}

// 未登録メールでも同じエラー文言（存在の有無を漏らさない）
func TestAuthUsecase_Login_UnknownEmail_SameMessage(t *testing.T) {
	usersRepo, _, validator, _, uc := newAuthFixture()

	validator.On("ValidateLogin", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	usersRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, repo.ErrNotFound)

	_, err := uc.Login(context.Background(), usecase.AuthLoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever123",
	})
	assertErrContains(t, err, "invalid credentials")
}

func TestAuthUsecase_Login_BannedAccount(t *testing.T) {
	ctx := context.Background()
	usersRepo, profilesRepo, validator, auditRepo, uc := newAuthFixture()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	validator.On("ValidateLogin", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	usersRepo.On("FindByEmail", mock.Anything, "banned@example.com").Return(&model.User{
		ID:           50,
		Username:     "banned",
		PasswordHash: string(hash),
	}, nil)
	profilesRepo.On("FindByUserID", mock.Anything, int64(50)).Return(model.Profile{
		ID:       8,
		UserID:   50,
		Role:     model.RoleVendor,
		IsBanned: true,
	}, nil)

	_, err := uc.Login(ctx, usecase.AuthLoginRequest{
		Email:    "banned@example.com",
		Password: "password123",
	})
	assertErrContains(t, err, "account is banned")
	auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
