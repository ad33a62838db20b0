package handler

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"market/internal/config"
	"market/internal/middleware"
	"market/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ChatHandler struct {
	uc *usecase.ChatUsecase
}

func NewChatHandler(uc *usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

type ConversationOpenRequest struct {
	ProfileID int64 `json:"profile_id"`
}

type MessageSendRequest struct {
	Text string `json:"text"`
	//base64エンコード済み画像（任意）
	Image    string `json:"image"`
	Location string `json:"location"`
}

func (h *ChatHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/chats")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.open)
	g.GET("", h.list)
	g.GET("/:id/messages", h.messages)
	g.POST("/:id/messages", h.send)
}

func (h *ChatHandler) open(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ConversationOpenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.OpenConversation(c.Request().Context(), actor, req.ProfileID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChatHandler) list(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.MyConversations(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChatHandler) messages(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Messages(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChatHandler) send(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req MessageSendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	var imageData []byte
	if req.Image != "" {
		imageData, err = base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid image"})
		}
	}

	out, err := h.uc.SendMessage(c.Request().Context(), actor, id, usecase.SendMessageInput{
		Text:      req.Text,
		ImageData: imageData,
		Location:  req.Location,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
