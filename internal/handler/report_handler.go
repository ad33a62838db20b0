package handler

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"market/internal/config"
	"market/internal/middleware"
	"market/internal/repository"
	"market/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 通報の作成と、管理者によるモデレーション
type ReportHandler struct {
	uc *usecase.ModerationUsecase
}

func NewReportHandler(uc *usecase.ModerationUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

type ReportCreateRequest struct {
	ProductID int64  `json:"product_id"`
	Reason    string `json:"reason"`
	//base64エンコード済み証拠画像（任意）
	Evidence string `json:"evidence"`
}

func (h *ReportHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/reports")
	g.Use(middleware.AuthJWT(cfg))
	g.POST("", h.create)
	g.GET("/my", h.myReports)

	admin := e.Group("/admin/reports")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())
	admin.GET("", h.list)
	admin.POST("/:id/ban_vendor", h.banVendor)
	admin.POST("/:id/dismiss", h.dismiss)
}

func (h *ReportHandler) create(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ReportCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	var evidenceData []byte
	if req.Evidence != "" {
		var err error
		evidenceData, err = base64.StdEncoding.DecodeString(req.Evidence)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid evidence encoding"})
		}
	}

	out, err := h.uc.CreateReport(c.Request().Context(), actor, usecase.CreateReportInput{
		ProductID:    req.ProductID,
		Reason:       req.Reason,
		EvidenceData: evidenceData,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ReportHandler) myReports(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.MyReports(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) list(c echo.Context) error {
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

	items, total, err := h.uc.ListReports(c.Request().Context(), actor, repository.ReportListFilter{
		Status: c.QueryParam("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *ReportHandler) banVendor(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.BanVendor(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) dismiss(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.DismissReport(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
