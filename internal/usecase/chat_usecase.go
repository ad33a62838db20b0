package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"market/internal/domain/model"
	repo "market/internal/repository"
)

type ChatUsecase struct {
	chatRepo    repo.ChatRepository
	profileRepo repo.ProfileRepository
}

func NewChatUsecase(chatRepo repo.ChatRepository, profileRepo repo.ProfileRepository) *ChatUsecase {
	return &ChatUsecase{chatRepo: chatRepo, profileRepo: profileRepo}
}

// 相手との会話を開く。既にあればそれを返す
func (u *ChatUsecase) OpenConversation(ctx context.Context, actor Actor, otherProfileID int64) (model.Conversation, error) {
	if otherProfileID <= 0 {
		return model.Conversation{}, NewHTTPError(http.StatusBadRequest, "invalid profile id")
	}
	if otherProfileID == actor.ProfileID {
		return model.Conversation{}, NewHTTPError(http.StatusBadRequest, "cannot chat with yourself")
	}

	if _, err := u.profileRepo.FindByID(ctx, otherProfileID); err != nil {
		if err == repo.ErrNotFound {
			return model.Conversation{}, NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return model.Conversation{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	conv, err := u.chatRepo.FindConversationByPair(ctx, actor.ProfileID, otherProfileID)
	if err == nil {
		return conv, nil
	}
	if err != repo.ErrNotFound {
		return model.Conversation{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	created, err := u.chatRepo.CreateConversation(ctx, model.Conversation{
		UserAID: min64(actor.ProfileID, otherProfileID),
		UserBID: max64(actor.ProfileID, otherProfileID),
	})
	if err == repo.ErrConflict {
		//同時に開かれた場合は既存を引き直す
		conv, err2 := u.chatRepo.FindConversationByPair(ctx, actor.ProfileID, otherProfileID)
		if err2 != nil {
			return model.Conversation{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return conv, nil
	}
	if err != nil {
		return model.Conversation{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *ChatUsecase) MyConversations(ctx context.Context, actor Actor) ([]model.Conversation, error) {
	conversations, err := u.chatRepo.ListConversationsByProfile(ctx, actor.ProfileID)
	if err != nil {
		return []model.Conversation{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return conversations, nil
}

type SendMessageInput struct {
	Text      string
	ImageData []byte
	Location  string
}

func (u *ChatUsecase) SendMessage(ctx context.Context, actor Actor, conversationID int64, in SendMessageInput) (model.Message, error) {
	conv, err := u.findMyConversation(ctx, actor, conversationID)
	if err != nil {
		return model.Message{}, err
	}

	text := strings.TrimSpace(in.Text)
	if text == "" && len(in.ImageData) == 0 && in.Location == "" {
		return model.Message{}, NewHTTPError(http.StatusBadRequest, "message is empty")
	}
	if len(text) > 5000 {
		return model.Message{}, NewHTTPError(http.StatusBadRequest, "text too long")
	}

	msg := model.Message{
		ConversationID: conv.ID,
		SenderID:       actor.ProfileID,
		Text:           text,
		Location:       strings.TrimSpace(in.Location),
	}

	//画像は保存キーだけ持つ。実体の保存は別レイヤ
	if len(in.ImageData) > 0 {
		msg.ImageKey = fmt.Sprintf("chat/%d/%s", conv.ID, uuid.NewString())
	}

	created, err := u.chatRepo.CreateMessage(ctx, msg)
	if err != nil {
		return model.Message{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

// メッセージ一覧。開いた時点で相手からの未読は既読になる
func (u *ChatUsecase) Messages(ctx context.Context, actor Actor, conversationID int64) ([]model.Message, error) {
	conv, err := u.findMyConversation(ctx, actor, conversationID)
	if err != nil {
		return []model.Message{}, err
	}

	messages, err := u.chatRepo.ListMessagesByConversation(ctx, conv.ID)
	if err != nil {
		return []model.Message{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.chatRepo.MarkMessagesRead(ctx, conv.ID, actor.ProfileID); err != nil {
		return []model.Message{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return messages, nil
}

// 参加者以外には会話の存在を見せない
func (u *ChatUsecase) findMyConversation(ctx context.Context, actor Actor, conversationID int64) (model.Conversation, error) {
	if conversationID <= 0 {
		return model.Conversation{}, NewHTTPError(http.StatusBadRequest, "invalid conversation id")
	}
	conv, err := u.chatRepo.FindConversationByID(ctx, conversationID)
	if err == repo.ErrNotFound {
		return model.Conversation{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Conversation{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if conv.UserAID != actor.ProfileID && conv.UserBID != actor.ProfileID {
		return model.Conversation{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return conv, nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
