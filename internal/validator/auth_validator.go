package validator

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"market/internal/repository"
	"market/internal/usecase"
)

// 構造体タグで宣言的に検証する
type registerInput struct {
	Username string `validate:"required,min=3,max=30,alphanum"`
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=8,max=72"`
}

type loginInput struct {
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required"`
}

type authValidator struct {
	users    repository.UserRepository
	validate *validator.Validate
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{
		users:    users,
		validate: validator.New(),
	}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, username string, email string, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	in := registerInput{Username: username, Email: email, Password: password}
	if err := v.validate.Struct(in); err != nil {
		return invalid(err)
	}

	//bcryptの入力上限は72byte
	if len(password) > 72 {
		return usecase.NewHTTPError(http.StatusBadRequest, "password too long")
	}

	// 重複の早期チェック。最終防衛はDBのunique制約
	if u, err := v.users.FindByEmail(ctx, strings.ToLower(email)); err == nil && u != nil {
		return usecase.NewHTTPError(http.StatusConflict, "email already used")
	}
	if u, err := v.users.FindByUsername(ctx, username); err == nil && u != nil {
		return usecase.NewHTTPError(http.StatusConflict, "username already taken")
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	in := loginInput{Email: strings.TrimSpace(email), Password: password}
	if err := v.validate.Struct(in); err != nil {
		return invalid(err)
	}
	return nil
}

// validatorのエラーをAPI向けの400に変換
func invalid(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return usecase.NewHTTPError(http.StatusBadRequest,
			strings.ToLower(fe.Field())+" failed on "+fe.Tag())
	}
	return usecase.NewHTTPError(http.StatusBadRequest, "invalid input")
}
