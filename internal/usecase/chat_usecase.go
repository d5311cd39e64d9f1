package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/internal/chat"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type ChatIDGenerator interface {
	NewID() string
}

type ChatClock interface {
	Now() time.Time
}

type ChatUsecase struct {
	transcripts repo.TranscriptStore
	userRepo    repo.UserRepository
	responder   *chat.Responder
	idGen       ChatIDGenerator
	clock       ChatClock
}

// DI
func NewChatUsecase(
	transcripts repo.TranscriptStore,
	userRepo repo.UserRepository,
	responder *chat.Responder,
	idGen ChatIDGenerator,
	clock ChatClock,
) *ChatUsecase {
	return &ChatUsecase{
		transcripts: transcripts,
		userRepo:    userRepo,
		responder:   responder,
		idGen:       idGen,
		clock:       clock,
	}
}

type SendMessageOutput struct {
	UserMessage model.ChatMessage `json:"user_message"`
	BotMessage  model.ChatMessage `json:"bot_message"`
}

// SendMessage はユーザー発言とボット応答をトランスクリプトに追記する。
// 分類→テンプレ選択→（必要なら）カード付与、の順。
func (u *ChatUsecase) SendMessage(ctx context.Context, userID int64, text string) (SendMessageOutput, error) {
	if userID <= 0 {
		return SendMessageOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return SendMessageOutput{}, NewHTTPError(http.StatusBadRequest, "text required")
	}
	if len(text) > 1000 {
		return SendMessageOutput{}, NewHTTPError(http.StatusBadRequest, "text too long")
	}

	profile, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return SendMessageOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if profile == nil {
		return SendMessageOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	messages, err := u.transcripts.Load(ctx, userID)
	if err != nil {
		return SendMessageOutput{}, NewHTTPError(http.StatusInternalServerError, "chat store error")
	}

	now := u.clock.Now()
	userMsg := model.ChatMessage{
		ID:        u.idGen.NewID(),
		UserID:    userID,
		Text:      text,
		IsBot:     false,
		CreatedAt: now,
	}

	intent := chat.Classify(text)
	botMsg := model.ChatMessage{
		ID:        u.idGen.NewID(),
		UserID:    userID,
		Text:      u.responder.Respond(intent, *profile),
		IsBot:     true,
		Intent:    intent,
		CreatedAt: now,
	}
	if chat.WantsRecommendations(intent) {
		botMsg.Products = chat.Recommend(*profile)
	}

	messages = append(messages, userMsg, botMsg)
	if err := u.transcripts.Save(ctx, userID, messages); err != nil {
		return SendMessageOutput{}, NewHTTPError(http.StatusInternalServerError, "chat store error")
	}

	return SendMessageOutput{UserMessage: userMsg, BotMessage: botMsg}, nil
}

// History はトランスクリプトを返す。空なら挨拶1件を入れてから返す。
func (u *ChatUsecase) History(ctx context.Context, userID int64) ([]model.ChatMessage, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	messages, err := u.transcripts.Load(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "chat store error")
	}
	if len(messages) > 0 {
		return messages, nil
	}

	greeting, err := u.seedGreeting(ctx, userID)
	if err != nil {
		return nil, err
	}
	return []model.ChatMessage{greeting}, nil
}

// Clear は履歴を消して挨拶1件だけの状態に戻す。
func (u *ChatUsecase) Clear(ctx context.Context, userID int64) ([]model.ChatMessage, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	greeting, err := u.seedGreeting(ctx, userID)
	if err != nil {
		return nil, err
	}
	return []model.ChatMessage{greeting}, nil
}

func (u *ChatUsecase) seedGreeting(ctx context.Context, userID int64) (model.ChatMessage, error) {
	profile, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return model.ChatMessage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if profile == nil {
		return model.ChatMessage{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	greeting := model.ChatMessage{
		ID:        u.idGen.NewID(),
		UserID:    userID,
		Text:      u.responder.Respond(chat.IntentGreeting, *profile),
		IsBot:     true,
		Intent:    chat.IntentGreeting,
		CreatedAt: u.clock.Now(),
	}
	if err := u.transcripts.Save(ctx, userID, []model.ChatMessage{greeting}); err != nil {
		return model.ChatMessage{}, NewHTTPError(http.StatusInternalServerError, "chat store error")
	}
	return greeting, nil
}
