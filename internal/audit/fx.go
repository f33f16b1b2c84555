package audit

import (
	"github.com/ruapotato/hivematrix-ledger/internal/audit/repository"
	"github.com/ruapotato/hivematrix-ledger/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
