package logger

import (
	"go.uber.org/zap"
)

// New は環境に合わせたzapロガーを返す。
// prodはJSON、それ以外は読みやすいdevelopment出力。
func New(env string) (*zap.Logger, error) {
	if env == "prod" || env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
