package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// チャットのトランスクリプト保存。
// 追記のたびに全件を保存し直す（last-write-wins）。
type TranscriptStore interface {
	Load(ctx context.Context, userID int64) ([]model.ChatMessage, error)
	Save(ctx context.Context, userID int64, messages []model.ChatMessage) error
}
