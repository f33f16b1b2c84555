package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
	"gorm.io/gorm"
)

// EnsureDefaultPlan seeds the fallback billing plan companies are created
// with when no plan is named. Existing plans are left untouched.
func EnsureDefaultPlan(db *gorm.DB, name string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Standard"
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&plandomain.BillingPlan{}).
			Where("name = ?", name).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		plan := &plandomain.BillingPlan{
			ID:                 node.Generate(),
			Name:               name,
			Term:               "monthly",
			PerUserCost:        25,
			PerWorkstationCost: 5,
			PerServerCost:      100,
			PerVMCost:          50,
			PerSwitchCost:      10,
			PerFirewallCost:    25,
			PerHourCost:        125,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		return tx.Create(plan).Error
	})
}
