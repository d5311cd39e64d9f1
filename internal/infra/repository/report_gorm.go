package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type reportGormRepository struct {
	db *gorm.DB
}

func NewReportGormRepository(db *gorm.DB) repo.ReportRepository {
	return &reportGormRepository{db: db}
}

// 支払い済み注文の売上合計
func (r *reportGormRepository) PaidRevenue(ctx context.Context) (int64, error) {
	var revenue *int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("payment_status = ?", model.PaymentStatusPaid).
		Select("sum(total_price)").
		Scan(&revenue).Error
	if err != nil {
		return 0, err
	}
	if revenue == nil {
		return 0, nil
	}
	return *revenue, nil
}

// ステータスごとの注文数
func (r *reportGormRepository) OrderCountsByStatus(ctx context.Context) (map[model.OrderStatus]int64, error) {
	type row struct {
		Status model.OrderStatus
		Count  int64
	}
	var rows []row

	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.OrderStatus]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

// 有効な顧客数
func (r *reportGormRepository) CustomerCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ? AND is_active = ?", model.RoleCustomer, true).
		Count(&count).Error
	return count, err
}

// 公開中の商品数
func (r *reportGormRepository) ActiveProductCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// 在庫が閾値未満の商品
func (r *reportGormRepository) LowStockProducts(ctx context.Context, threshold int64, limit int) ([]model.Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND stock < ?", true, threshold).
		Order("stock asc").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}
