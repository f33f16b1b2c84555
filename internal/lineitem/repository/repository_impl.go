package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	lineitemdomain "github.com/ruapotato/hivematrix-ledger/internal/lineitem/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() lineitemdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, item *lineitemdomain.LineItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, item *lineitemdomain.LineItem) error {
	return db.WithContext(ctx).Save(item).Error
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, companyID snowflake.ID, name string) (*lineitemdomain.LineItem, error) {
	var item lineitemdomain.LineItem
	err := db.WithContext(ctx).
		Where("company_id = ? AND name = ?", companyID, name).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]lineitemdomain.LineItem, error) {
	var items []lineitemdomain.LineItem
	err := db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) DeleteByName(ctx context.Context, db *gorm.DB, companyID snowflake.ID, name string) (bool, error) {
	res := db.WithContext(ctx).
		Where("company_id = ? AND name = ?", companyID, name).
		Delete(&lineitemdomain.LineItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) NextPosition(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int, error) {
	var max int
	err := db.WithContext(ctx).
		Model(&lineitemdomain.LineItem{}).
		Where("company_id = ?", companyID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
