package handler

import (
	"context"
	"net/http"
	"strconv"

	"market/internal/config"
	"market/internal/middleware"
	"market/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 商品の審査と在庫の直接編集（管理者）
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

type SetStockRequest struct {
	Stock  int64  `json:"stock"`
	Reason string `json:"reason"`
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin/products")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/pending", h.pending)
	admin.POST("/:id/approve", h.approve)
	admin.POST("/:id/reject", h.reject)
	admin.PUT("/:id/stock", h.setStock)
}

func (h *AdminProductHandler) pending(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.PendingReview(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) approve(c echo.Context) error {
	return h.review(c, h.uc.ApproveProduct, "approved")
}

func (h *AdminProductHandler) reject(c echo.Context) error {
	return h.review(c, h.uc.RejectProduct, "rejected")
}

func (h *AdminProductHandler) review(c echo.Context, fn func(ctx context.Context, actor usecase.Actor, productID int64) error, word string) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := fn(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: word})
}

func (h *AdminProductHandler) setStock(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SetStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SetStock(c.Request().Context(), actor, id, req.Stock, req.Reason); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "stock updated"})
}
