package handler

import (
	"net/http"
	"strconv"

	"market/internal/config"
	"market/internal/middleware"
	"market/internal/usecase"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

type ProfileUpdateRequest struct {
	FirstName string `json:"first_name"`
	Phone     string `json:"phone"`
	StoreName string `json:"store_name"`
}

func (h *UserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/users")
	g.Use(middleware.AuthJWT(cfg))
	g.GET("/me", h.me)
	g.PUT("/me", h.updateMe)

	//公開プロフィールは未ログインでも見られる
	e.GET("/profiles/:id", h.publicProfile)
}

func (h *UserHandler) me(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Me(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) updateMe(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateMe(c.Request().Context(), actor, usecase.UpdateMyProfileInput{
		FirstName: req.FirstName,
		Phone:     req.Phone,
		StoreName: req.StoreName,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) publicProfile(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.PublicProfile(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
