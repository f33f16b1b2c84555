package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	ratesdomain "github.com/ruapotato/hivematrix-ledger/internal/rates/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() ratesdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, o *ratesdomain.RateOverride) error {
	return db.WithContext(ctx).Create(o).Error
}

func (r *repo) FindByCompanyID(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*ratesdomain.RateOverride, error) {
	var o ratesdomain.RateOverride
	err := db.WithContext(ctx).Where("company_id = ?", companyID).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *repo) UpdateVersioned(ctx context.Context, db *gorm.DB, o *ratesdomain.RateOverride, expectedVersion int64) (bool, error) {
	res := db.WithContext(ctx).
		Model(&ratesdomain.RateOverride{}).
		Where("company_id = ? AND version = ?", o.CompanyID, expectedVersion).
		Select(
			"per_user_cost", "per_workstation_cost", "per_server_cost", "per_vm_cost",
			"per_switch_cost", "per_firewall_cost", "per_hour_cost", "prepaid_hours_monthly",
			"version", "updated_by", "updated_at",
		).
		Updates(map[string]any{
			"per_user_cost":         o.PerUserCost,
			"per_workstation_cost":  o.PerWorkstationCost,
			"per_server_cost":       o.PerServerCost,
			"per_vm_cost":           o.PerVMCost,
			"per_switch_cost":       o.PerSwitchCost,
			"per_firewall_cost":     o.PerFirewallCost,
			"per_hour_cost":         o.PerHourCost,
			"prepaid_hours_monthly": o.PrepaidHoursMonthly,
			"version":               o.Version,
			"updated_by":            o.UpdatedBy,
			"updated_at":            o.UpdatedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) DeleteByCompanyID(ctx context.Context, db *gorm.DB, companyID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&ratesdomain.RateOverride{}).Error
}
