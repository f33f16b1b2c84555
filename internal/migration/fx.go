package migration

import (
	auditdomain "github.com/ruapotato/hivematrix-ledger/internal/audit/domain"
	companydomain "github.com/ruapotato/hivematrix-ledger/internal/company/domain"
	"github.com/ruapotato/hivematrix-ledger/internal/config"
	lineitemdomain "github.com/ruapotato/hivematrix-ledger/internal/lineitem/domain"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
	ratesdomain "github.com/ruapotato/hivematrix-ledger/internal/rates/domain"
	"github.com/ruapotato/hivematrix-ledger/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, billing *config.BillingConfigHolder) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Non-postgres (sqlite, mysql) setups build the schema from
			// the models directly.
			if err := conn.AutoMigrate(
				&plandomain.BillingPlan{},
				&companydomain.Company{},
				&companydomain.ManualAsset{},
				&companydomain.ManualUser{},
				&ratesdomain.RateOverride{},
				&lineitemdomain.LineItem{},
				&auditdomain.Record{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureDefaultPlan(conn, billing.Current().DefaultPlanName)
	}),
)
