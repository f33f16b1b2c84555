package inventory

import (
	"github.com/ruapotato/hivematrix-ledger/internal/config"
	inventorydomain "github.com/ruapotato/hivematrix-ledger/internal/inventory/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("inventory",
	fx.Provide(Provide),
)

func Provide(cfg config.Config, log *zap.Logger) inventorydomain.Provider {
	if cfg.InventoryBaseURL == "" {
		log.Warn("no inventory service configured, serving empty counts")
		return NewStaticProvider()
	}
	return NewHTTPProvider(cfg, log)
}
