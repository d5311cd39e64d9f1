package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// ダッシュボード用の集計だけを約束。凝った分析はしない。
type ReportRepository interface {
	//支払い済み注文の売上合計
	PaidRevenue(ctx context.Context) (int64, error)
	//ステータスごとの注文数
	OrderCountsByStatus(ctx context.Context) (map[model.OrderStatus]int64, error)
	//有効な顧客数
	CustomerCount(ctx context.Context) (int64, error)
	//公開中の商品数
	ActiveProductCount(ctx context.Context) (int64, error)
	//在庫が閾値未満の商品
	LowStockProducts(ctx context.Context, threshold int64, limit int) ([]model.Product, error)
}
