package chatstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// キーはユーザーごとに1つ。値はトランスクリプト全体のJSON配列。
const keyPrefix = "chat:transcript:"

type RedisTranscriptStore struct {
	client *redis.Client
}

// NewRedisTranscriptStore は接続確認までして返す。
func NewRedisTranscriptStore(addr string, password string, db int) (*RedisTranscriptStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	return &RedisTranscriptStore{client: client}, nil
}

// テストや共有クライアント用
func NewRedisTranscriptStoreWithClient(client *redis.Client) *RedisTranscriptStore {
	return &RedisTranscriptStore{client: client}
}

func transcriptKey(userID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

func (s *RedisTranscriptStore) Load(ctx context.Context, userID int64) ([]model.ChatMessage, error) {
	raw, err := s.client.Get(ctx, transcriptKey(userID)).Result()
	if err == redis.Nil {
		return []model.ChatMessage{}, nil
	}
	if err != nil {
		return nil, err
	}

	var msgs []model.ChatMessage
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		//壊れた値は空扱いにして、次のSaveで上書きする
		return []model.ChatMessage{}, nil
	}
	return msgs, nil
}

// 全件を丸ごと保存し直す（last-write-wins）
func (s *RedisTranscriptStore) Save(ctx context.Context, userID int64, messages []model.ChatMessage) error {
	raw, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, transcriptKey(userID), raw, 0).Err()
}
