package company

import (
	"github.com/ruapotato/hivematrix-ledger/internal/company/repository"
	"github.com/ruapotato/hivematrix-ledger/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
