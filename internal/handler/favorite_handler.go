package handler

import (
	"net/http"
	"strconv"

	"market/internal/config"
	"market/internal/middleware"
	"market/internal/usecase"

	"github.com/labstack/echo/v4"
)

type FavoriteHandler struct {
	uc *usecase.FavoriteUsecase
}

func NewFavoriteHandler(uc *usecase.FavoriteUsecase) *FavoriteHandler {
	return &FavoriteHandler{uc: uc}
}

type FavoriteCreateRequest struct {
	ProductID int64 `json:"product_id"`
}

func (h *FavoriteHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/favorites")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("", h.list)
	g.DELETE("/:id", h.delete)
}

func (h *FavoriteHandler) create(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req FavoriteCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddFavorite(c.Request().Context(), actor, req.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *FavoriteHandler) list(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.MyFavorites(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FavoriteHandler) delete(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.RemoveFavorite(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "removed"})
}
