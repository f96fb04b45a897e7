package repository

import (
	"context"

	"marketplace-backend/internal/domains/user/model"
)

// UserRepository defines data access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, name *string, email *string) (*model.User, error)
	UpdateFCMToken(ctx context.Context, id int64, fcmToken string) error
}
