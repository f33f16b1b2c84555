package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/ruapotato/hivematrix-ledger/internal/acctlock"
	"github.com/ruapotato/hivematrix-ledger/internal/alignment"
	"github.com/ruapotato/hivematrix-ledger/internal/audit"
	"github.com/ruapotato/hivematrix-ledger/internal/clock"
	"github.com/ruapotato/hivematrix-ledger/internal/company"
	"github.com/ruapotato/hivematrix-ledger/internal/config"
	"github.com/ruapotato/hivematrix-ledger/internal/inventory"
	"github.com/ruapotato/hivematrix-ledger/internal/lineitem"
	"github.com/ruapotato/hivematrix-ledger/internal/migration"
	"github.com/ruapotato/hivematrix-ledger/internal/plan"
	"github.com/ruapotato/hivematrix-ledger/internal/providers/pdf"
	"github.com/ruapotato/hivematrix-ledger/internal/quantity"
	"github.com/ruapotato/hivematrix-ledger/internal/rates"
	"github.com/ruapotato/hivematrix-ledger/internal/receipt"
	"github.com/ruapotato/hivematrix-ledger/internal/server"
	"github.com/ruapotato/hivematrix-ledger/pkg/db"
	"github.com/ruapotato/hivematrix-ledger/pkg/log"
	"github.com/ruapotato/hivematrix-ledger/pkg/telemetry"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		telemetry.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		acctlock.Module,

		// Functional domains
		plan.Module,
		company.Module,
		audit.Module,
		rates.Module,
		inventory.Module,
		quantity.Module,
		lineitem.Module,
		receipt.Module,
		alignment.Module,
		pdf.Module,

		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
