package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 在庫がこの数を下回ったら「少ない」とみなす
const lowStockThreshold = 5

type ReportUsecase struct {
	reportRepo   repo.ReportRepository
	auditLogRepo repo.AuditLogRepository
}

// DI
func NewReportUsecase(reportRepo repo.ReportRepository, auditLogRepo repo.AuditLogRepository) *ReportUsecase {
	return &ReportUsecase{
		reportRepo:   reportRepo,
		auditLogRepo: auditLogRepo,
	}
}

type LowStockProduct struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Stock int64  `json:"stock"`
}

// ダッシュボードひとまとめ。グラフ用の凝った分析はしない。
type DashboardOutput struct {
	PaidRevenue        int64                       `json:"paid_revenue"`
	OrdersByStatus     map[model.OrderStatus]int64 `json:"orders_by_status"`
	CustomerCount      int64                       `json:"customer_count"`
	ActiveProductCount int64                       `json:"active_product_count"`
	LowStockProducts   []LowStockProduct           `json:"low_stock_products"`
}

func (u *ReportUsecase) Dashboard(ctx context.Context) (DashboardOutput, error) {
	revenue, err := u.reportRepo.PaidRevenue(ctx)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	counts, err := u.reportRepo.OrderCountsByStatus(ctx)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	customers, err := u.reportRepo.CustomerCount(ctx)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	products, err := u.reportRepo.ActiveProductCount(ctx)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	lowStock, err := u.reportRepo.LowStockProducts(ctx, lowStockThreshold, 10)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	low := make([]LowStockProduct, 0, len(lowStock))
	for _, p := range lowStock {
		low = append(low, LowStockProduct{ID: p.ID, Name: p.Name, Stock: p.Stock})
	}

	return DashboardOutput{
		PaidRevenue:        revenue,
		OrdersByStatus:     counts,
		CustomerCount:      customers,
		ActiveProductCount: products,
		LowStockProducts:   low,
	}, nil
}

type AuditLogListInput struct {
	Page         int
	Limit        int
	Action       string
	ResourceType string
}

func (u *ReportUsecase) ListAuditLogs(ctx context.Context, in AuditLogListInput) ([]model.AuditLog, error) {
	if in.Page < 1 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	logs, err := u.auditLogRepo.List(ctx, repo.AuditLogFilter{
		Page:         in.Page,
		Limit:        in.Limit,
		Action:       in.Action,
		ResourceType: in.ResourceType,
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}
