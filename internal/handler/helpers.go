package handler

import (
	"net/http"

	"market/internal/domain/model"
	"market/internal/middleware"
	"market/internal/usecase"

	"github.com/labstack/echo/v4"
)

type SuccessResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Code: he.Code})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// JWTミドルウェアが積んだclaimsからActorを組み立てる
func getActor(c echo.Context) (usecase.Actor, bool) {
	userID, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok || userID <= 0 {
		return usecase.Actor{}, false
	}
	profileID, ok := c.Get(middleware.CtxProfileIDKey).(int64)
	if !ok || profileID <= 0 {
		return usecase.Actor{}, false
	}
	role, ok := c.Get(middleware.CtxUserRoleKey).(string)
	if !ok || role == "" {
		return usecase.Actor{}, false
	}

	return usecase.Actor{
		UserID:    userID,
		ProfileID: profileID,
		Role:      model.Role(role),
	}, true
}

// 認証必須でないルート用。未ログインならゼロ値のActor
func maybeActor(c echo.Context) usecase.Actor {
	actor, _ := getActor(c)
	return actor
}
