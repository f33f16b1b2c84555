package lineitem

import (
	"github.com/ruapotato/hivematrix-ledger/internal/lineitem/repository"
	"github.com/ruapotato/hivematrix-ledger/internal/lineitem/service"
	"go.uber.org/fx"
)

var Module = fx.Module("lineitem.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
