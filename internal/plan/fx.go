package plan

import (
	"github.com/ruapotato/hivematrix-ledger/internal/plan/repository"
	"github.com/ruapotato/hivematrix-ledger/internal/plan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("plan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
