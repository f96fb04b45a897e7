package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// =====================================================
// APPROVAL STATUS CONSTANTS
// =====================================================
const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// DefaultCity is stamped on shops and order delivery snapshots when
// the caller leaves city blank.
const DefaultCity = "Amravati"

// =====================================================
// ENTITY: Shop
// =====================================================
type Shop struct {
	ID              int64           `json:"id" db:"id"`
	UserID          int64           `json:"user_id" db:"user_id"`
	ShopName        string          `json:"shop_name" db:"shop_name"`
	Address         string          `json:"address" db:"address"`
	City            string          `json:"city" db:"city"`
	Pincode         string          `json:"pincode" db:"pincode"`
	ContactNumber   string          `json:"contact_number" db:"contact_number"`
	ShopImage       *string         `json:"shop_image,omitempty" db:"shop_image"`
	CommissionRate  decimal.Decimal `json:"commission_rate" db:"commission_rate"`
	IsApproved      bool            `json:"is_approved" db:"is_approved"`
	ApprovalStatus  string          `json:"approval_status" db:"approval_status"`
	RejectionReason *string         `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// CanSell reports whether the shop may list products and take orders.
func (s *Shop) CanSell() bool {
	return s.IsApproved && s.ApprovalStatus == ApprovalStatusApproved
}
