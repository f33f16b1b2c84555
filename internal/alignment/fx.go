package alignment

import (
	"github.com/ruapotato/hivematrix-ledger/internal/alignment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("alignment.service",
	fx.Provide(service.New),
)
