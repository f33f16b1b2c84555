package quantity

import (
	"github.com/ruapotato/hivematrix-ledger/internal/quantity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quantity.service",
	fx.Provide(service.New),
)
