package repository

import (
	"context"

	"market/internal/domain/model"
)

// チャット。メッセージは追記専用
type ChatRepository interface {
	//2人の組で1件。順序は正規化して探す
	FindConversationByPair(ctx context.Context, aID int64, bID int64) (model.Conversation, error)
	CreateConversation(ctx context.Context, c model.Conversation) (model.Conversation, error)
	FindConversationByID(ctx context.Context, id int64) (model.Conversation, error)
	ListConversationsByProfile(ctx context.Context, profileID int64) ([]model.Conversation, error)

	CreateMessage(ctx context.Context, m model.Message) (model.Message, error)
	ListMessagesByConversation(ctx context.Context, conversationID int64) ([]model.Message, error)
	//相手からの未読を既読にする
	MarkMessagesRead(ctx context.Context, conversationID int64, readerID int64) error
}
