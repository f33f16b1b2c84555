package repository

import (
	"context"

	auditdomain "github.com/ruapotato/hivematrix-ledger/internal/audit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() auditdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rec *auditdomain.Record) error {
	return db.WithContext(ctx).Create(rec).Error
}

func (r *repo) ListByAccount(ctx context.Context, db *gorm.DB, accountNumber string, limit int) ([]auditdomain.Record, error) {
	var items []auditdomain.Record
	q := db.WithContext(ctx).
		Where("account_number = ?", accountNumber).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
