package pdf

import (
	"context"
	"io"

	receiptdomain "github.com/ruapotato/hivematrix-ledger/internal/receipt/domain"
	"go.uber.org/fx"
)

type Provider interface {
	GenerateReceipt(ctx context.Context, receipt *receiptdomain.Receipt) (io.Reader, error)
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
