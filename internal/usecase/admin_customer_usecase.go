package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AdminCustomerUsecase struct {
	userRepo  repo.UserRepository
	auditRepo repo.AuditLogRepository
}

// DI
func NewAdminCustomerUsecase(userRepo repo.UserRepository, auditRepo repo.AuditLogRepository) *AdminCustomerUsecase {
	return &AdminCustomerUsecase{
		userRepo:  userRepo,
		auditRepo: auditRepo,
	}
}

// 管理画面向けの顧客1件分
type CustomerResponse struct {
	ID                  int64                `json:"id"`
	Name                string               `json:"name"`
	Email               string               `json:"email"`
	Phone               string               `json:"phone"`
	CustomerCode        string               `json:"customer_code"`
	LoyaltyPoints       int64                `json:"loyalty_points"`
	MembershipTier      model.MembershipTier `json:"membership_tier"`
	TotalPurchases      int64                `json:"total_purchases"`
	TotalSpent          int64                `json:"total_spent"`
	PreferredCategories []string             `json:"preferred_categories"`
	LastPurchaseAt      *time.Time           `json:"last_purchase_at"`
	IsActive            bool                 `json:"is_active"`
	CreatedAt           time.Time            `json:"created_at"`
}

func toCustomerResponse(u model.User) CustomerResponse {
	return CustomerResponse{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		Phone:               u.Phone,
		CustomerCode:        u.CustomerCode,
		LoyaltyPoints:       u.LoyaltyPoints,
		MembershipTier:      u.MembershipTier,
		TotalPurchases:      u.TotalPurchases,
		TotalSpent:          u.TotalSpent,
		PreferredCategories: u.PreferredCategoryList(),
		LastPurchaseAt:      u.LastPurchaseAt,
		IsActive:            u.IsActive,
		CreatedAt:           u.CreatedAt,
	}
}

type CustomerListOutput struct {
	Items []CustomerResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

func (u *AdminCustomerUsecase) ListCustomers(ctx context.Context, page int, limit int, q string) (CustomerListOutput, error) {
	if page < 1 {
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(q) > 100 {
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	users, total, err := u.userRepo.ListCustomers(ctx, repo.CustomerListQuery{
		Page:  page,
		Limit: limit,
		Q:     strings.TrimSpace(q),
	})
	if err != nil {
		return CustomerListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]CustomerResponse, 0, len(users))
	for _, usr := range users {
		items = append(items, toCustomerResponse(usr))
	}
	return CustomerListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (u *AdminCustomerUsecase) GetCustomerDetail(ctx context.Context, customerID int64) (CustomerResponse, error) {
	if customerID <= 0 {
		return CustomerResponse{}, NewHTTPError(http.StatusBadRequest, "invalid customer id")
	}

	usr, err := u.userRepo.FindByID(ctx, customerID)
	if err != nil {
		return CustomerResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if usr == nil || usr.Role != model.RoleCustomer {
		return CustomerResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return toCustomerResponse(*usr), nil
}

type AdminUpdateCustomerInput struct {
	Name                string   `json:"name"`
	Phone               string   `json:"phone"`
	PreferredCategories []string `json:"preferred_categories"`
}

// UpdateCustomer はプロフィールだけを更新する。購入実績やポイントは触らない。
func (u *AdminCustomerUsecase) UpdateCustomer(ctx context.Context, adminUserID int64, customerID int64, in AdminUpdateCustomerInput) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if customerID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid customer id")
	}
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}

	usr, err := u.userRepo.FindByID(ctx, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if usr == nil || usr.Role != model.RoleCustomer {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	before := fmt.Sprintf(`{"name":%q,"phone":%q,"preferred_categories":%q}`,
		usr.Name, usr.Phone, usr.PreferredCategories)

	usr.Name = strings.TrimSpace(in.Name)
	usr.Phone = strings.TrimSpace(in.Phone)
	usr.PreferredCategories = strings.Join(in.PreferredCategories, ",")

	if err := u.userRepo.Update(ctx, usr); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	after := fmt.Sprintf(`{"name":%q,"phone":%q,"preferred_categories":%q}`,
		usr.Name, usr.Phone, usr.PreferredCategories)

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       model.AuditActionUpdateCustomer,
		ResourceType: model.AuditResourceUser,
		ResourceID:   customerID,
		BeforeJSON:   before,
		AfterJSON:    after,
		CreatedAt:    time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// DeactivateCustomer はアカウントを停止し、トークンを無効化する。
// 停止後はTokenVersionGuardが既存トークンを弾く。
func (u *AdminCustomerUsecase) DeactivateCustomer(ctx context.Context, adminUserID int64, customerID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if customerID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid customer id")
	}

	usr, err := u.userRepo.FindByID(ctx, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if usr == nil || usr.Role != model.RoleCustomer {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if !usr.IsActive {
		return NewHTTPError(http.StatusConflict, "already deactivated")
	}

	usr.IsActive = false
	if err := u.userRepo.Update(ctx, usr); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.userRepo.IncrementTokenVersion(ctx, customerID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       model.AuditActionUpdateCustomer,
		ResourceType: model.AuditResourceUser,
		ResourceID:   customerID,
		BeforeJSON:   `{"is_active":true}`,
		AfterJSON:    `{"is_active":false}`,
		CreatedAt:    time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
