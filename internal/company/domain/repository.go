package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, company *Company) error
	FindByAccountNumber(ctx context.Context, db *gorm.DB, accountNumber string) (*Company, error)
	List(ctx context.Context, db *gorm.DB) ([]Company, error)

	InsertManualAsset(ctx context.Context, db *gorm.DB, asset *ManualAsset) error
	ListManualAssets(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]ManualAsset, error)
	DeleteManualAsset(ctx context.Context, db *gorm.DB, companyID, assetID snowflake.ID) error

	InsertManualUser(ctx context.Context, db *gorm.DB, user *ManualUser) error
	ListManualUsers(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]ManualUser, error)
	DeleteManualUser(ctx context.Context, db *gorm.DB, companyID, userID snowflake.ID) error
}
