package domain

import (
	"context"

	"github.com/ruapotato/hivematrix-ledger/internal/period"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
)

// Quantities is the per-period billable unit count breakdown. It is derived
// on demand and must be bit-identical across calls with unchanged inputs.
type Quantities struct {
	AccountNumber string                       `json:"account_number"`
	Period        period.Period                `json:"period"`
	Reported      map[plandomain.UnitKind]int  `json:"reported"`
	Manual        map[plandomain.UnitKind]int  `json:"manual"`
	Total         map[plandomain.UnitKind]int  `json:"total"`
}

// Count returns the combined count for one kind.
func (q *Quantities) Count(kind plandomain.UnitKind) int {
	return q.Total[kind]
}

type Service interface {
	// Aggregate sums externally reported counts with billable manual
	// entries. Idempotent; fails when the inventory collaborator is
	// unreachable rather than treating the account as empty.
	Aggregate(ctx context.Context, accountNumber string, p period.Period) (*Quantities, error)
}
