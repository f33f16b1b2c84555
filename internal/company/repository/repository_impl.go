package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/ruapotato/hivematrix-ledger/internal/company/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() companydomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, company *companydomain.Company) error {
	return db.WithContext(ctx).Create(company).Error
}

func (r *repo) FindByAccountNumber(ctx context.Context, db *gorm.DB, accountNumber string) (*companydomain.Company, error) {
	var c companydomain.Company
	err := db.WithContext(ctx).Where("account_number = ?", accountNumber).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]companydomain.Company, error) {
	var items []companydomain.Company
	if err := db.WithContext(ctx).Order("account_number ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertManualAsset(ctx context.Context, db *gorm.DB, asset *companydomain.ManualAsset) error {
	return db.WithContext(ctx).Create(asset).Error
}

func (r *repo) ListManualAssets(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]companydomain.ManualAsset, error) {
	var items []companydomain.ManualAsset
	err := db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) DeleteManualAsset(ctx context.Context, db *gorm.DB, companyID, assetID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, assetID).
		Delete(&companydomain.ManualAsset{}).Error
}

func (r *repo) InsertManualUser(ctx context.Context, db *gorm.DB, user *companydomain.ManualUser) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *repo) ListManualUsers(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]companydomain.ManualUser, error) {
	var items []companydomain.ManualUser
	err := db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) DeleteManualUser(ctx context.Context, db *gorm.DB, companyID, userID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, userID).
		Delete(&companydomain.ManualUser{}).Error
}
