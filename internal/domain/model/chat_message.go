package model

import "time"

// チャットの1メッセージ。追記のみで、編集はしない。
// トランスクリプト全体を毎回保存する。
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	IsBot     bool      `json:"is_bot"`
	Intent    string    `json:"intent,omitempty"`
	Products  []RecommendationCard `json:"products,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// おすすめ商品カード（recommendations / default のボット応答に付く）
type RecommendationCard struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int64  `json:"price"`
	Reason   string `json:"reason"`
}
