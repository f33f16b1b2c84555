package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, plan *BillingPlan) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*BillingPlan, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*BillingPlan, error)
	List(ctx context.Context, db *gorm.DB) ([]BillingPlan, error)
}
