package repository

import (
	"context"
	"errors"

	"market/internal/domain/model"
	repo "market/internal/repository"

	"gorm.io/gorm"
)

type ChatGormRepository struct {
	db *gorm.DB
}

func NewChatGormRepository(db *gorm.DB) *ChatGormRepository {
	return &ChatGormRepository{db: db}
}

// AとBの組は正規化済み（小さいIDがuser_a）で渡ってくる前提
func (r *ChatGormRepository) FindConversationByPair(ctx context.Context, aID int64, bID int64) (model.Conversation, error) {
	var c model.Conversation
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", aID, bID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Conversation{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Conversation{}, err
	}
	return c, nil
}

func (r *ChatGormRepository) CreateConversation(ctx context.Context, c model.Conversation) (model.Conversation, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Conversation{}, repo.ErrConflict
		}
		return model.Conversation{}, err
	}
	return c, nil
}

func (r *ChatGormRepository) FindConversationByID(ctx context.Context, id int64) (model.Conversation, error) {
	var c model.Conversation
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Conversation{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Conversation{}, err
	}
	return c, nil
}

func (r *ChatGormRepository) ListConversationsByProfile(ctx context.Context, profileID int64) ([]model.Conversation, error) {
	var conversations []model.Conversation
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", profileID, profileID).
		Order("updated_at desc").
		Find(&conversations).Error
	if err != nil {
		return []model.Conversation{}, err
	}
	return conversations, nil
}

func (r *ChatGormRepository) CreateMessage(ctx context.Context, m model.Message) (model.Message, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		//会話の並び順を最新に保つ
		return tx.Model(&model.Conversation{}).
			Where("id = ?", m.ConversationID).
			Update("updated_at", m.CreatedAt).Error
	})
	if err != nil {
		return model.Message{}, err
	}
	return m, nil
}

// 古い順（時系列）
func (r *ChatGormRepository) ListMessagesByConversation(ctx context.Context, conversationID int64) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at asc").Order("id asc").
		Find(&messages).Error
	if err != nil {
		return []model.Message{}, err
	}
	return messages, nil
}

// 自分宛て（相手が送ったもの）の未読を既読にする
func (r *ChatGormRepository) MarkMessagesRead(ctx context.Context, conversationID int64, readerID int64) error {
	return r.db.WithContext(ctx).Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true).Error
}
