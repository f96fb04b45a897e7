package service

import (
	"context"

	"marketplace-backend/internal/domains/shop/model"
)

// ShopService defines shop registration, management and approval operations.
type ShopService interface {
	RegisterShop(ctx context.Context, userID int64, req model.RegisterShopRequest) (*model.Shop, error)
	GetMyShop(ctx context.Context, userID int64) (*model.Shop, error)
	GetShop(ctx context.Context, shopID int64) (*model.Shop, error)
	UpdateMyShop(ctx context.Context, userID int64, req model.UpdateShopRequest) (*model.Shop, error)
	ApproveShop(ctx context.Context, shopID int64, req model.ApproveShopRequest) (*model.Shop, error)
	RejectShop(ctx context.Context, shopID int64, req model.RejectShopRequest) (*model.Shop, error)
	ListShops(ctx context.Context, req model.ListShopsRequest) ([]model.Shop, int, error)

	// RequireApprovedShop loads the seller's shop and fails unless it
	// has been approved. Gate used by product, coupon and order flows.
	RequireApprovedShop(ctx context.Context, userID int64) (*model.Shop, error)
}
