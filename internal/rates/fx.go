package rates

import (
	"github.com/ruapotato/hivematrix-ledger/internal/rates/repository"
	"github.com/ruapotato/hivematrix-ledger/internal/rates/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rates.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
