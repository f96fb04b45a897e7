package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"marketplace-backend/internal/domains/shop/model"
)

// ShopRepository defines data access for shops.
type ShopRepository interface {
	Create(ctx context.Context, shop *model.Shop) error
	GetByID(ctx context.Context, id int64) (*model.Shop, error)
	GetByUserID(ctx context.Context, userID int64) (*model.Shop, error)
	Update(ctx context.Context, shop *model.Shop) error
	UpdateApproval(ctx context.Context, id int64, status string, commissionRate *decimal.Decimal, rejectionReason *string) (*model.Shop, error)
	List(ctx context.Context, status string, page, limit int) ([]model.Shop, int, error)
}
