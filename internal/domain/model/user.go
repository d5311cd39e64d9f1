package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// 会員ランク
type MembershipTier string

const (
	TierBronze   MembershipTier = "BRONZE"
	TierSilver   MembershipTier = "SILVER"
	TierGold     MembershipTier = "GOLD"
	TierPlatinum MembershipTier = "PLATINUM"
)

// 顧客アカウント。チャットの応答テンプレートもこのプロフィールを参照する。
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Phone        string `gorm:"type:varchar(30)" json:"phone"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'CUSTOMER'" json:"role"`

	//顧客コード（CUS-xxxxxxxx）
	CustomerCode string `gorm:"type:varchar(20);uniqueIndex" json:"customer_code"`

	//ロイヤルティ
	LoyaltyPoints  int64          `gorm:"not null;default:0" json:"loyalty_points"`
	MembershipTier MembershipTier `gorm:"type:varchar(20);not null;default:'BRONZE'" json:"membership_tier"`
	TotalPurchases int64          `gorm:"not null;default:0" json:"total_purchases"`
	TotalSpent     int64          `gorm:"not null;default:0" json:"total_spent"`

	//好みのカテゴリ（カンマ区切りで保存）
	PreferredCategories string `gorm:"type:text" json:"preferred_categories"`

	LastPurchaseAt *time.Time `json:"last_purchase_at"`

	TokenVersion int  `gorm:"not null;default:0" json:"-"`
	IsActive     bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// カンマ区切りをスライスに変換
func (u User) PreferredCategoryList() []string {
	if strings.TrimSpace(u.PreferredCategories) == "" {
		return []string{}
	}
	parts := strings.Split(u.PreferredCategories, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// 累計購入額から会員ランクを決める
func TierForTotalSpent(totalSpent int64) MembershipTier {
	switch {
	case totalSpent >= 100000:
		return TierPlatinum
	case totalSpent >= 50000:
		return TierGold
	case totalSpent >= 20000:
		return TierSilver
	default:
		return TierBronze
	}
}
