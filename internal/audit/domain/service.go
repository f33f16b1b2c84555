package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rec *Record) error
	ListByAccount(ctx context.Context, db *gorm.DB, accountNumber string, limit int) ([]Record, error)
}

// Service records and lists mutation audit records. Record must be called
// inside the mutating transaction so the trail cannot drift from the data.
type Service interface {
	Record(ctx context.Context, accountNumber, field string, oldValue, newValue *float64, author string, metadata map[string]any) error
	List(ctx context.Context, accountNumber string, limit int) ([]Record, error)
}
