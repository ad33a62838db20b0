package handler

import (
	"net/http"
	"strconv"

	"market/internal/config"
	"market/internal/middleware"
	"market/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 利用者管理（管理者）。BAN解除もここ
type AdminUserHandler struct {
	uc         *usecase.UserUsecase
	moderation *usecase.ModerationUsecase
}

func NewAdminUserHandler(uc *usecase.UserUsecase, moderation *usecase.ModerationUsecase) *AdminUserHandler {
	return &AdminUserHandler{uc: uc, moderation: moderation}
}

func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin/users")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("", h.list)
	admin.GET("/:id", h.detail)
	admin.POST("/:profile_id/unban", h.unban)
}

func (h *AdminUserHandler) list(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.AdminListUsers(c.Request().Context(), actor, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) detail(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.AdminGetUser(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) unban(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	profileID, err := strconv.ParseInt(c.Param("profile_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid profile_id"})
	}

	if err := h.moderation.UnbanVendor(c.Request().Context(), actor, profileID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "unbanned"})
}
