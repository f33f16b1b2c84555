package domain

import (
	"context"
	"errors"

	"github.com/ruapotato/hivematrix-ledger/internal/period"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
)

// Counts holds externally reported billable unit counts for one period.
type Counts map[plandomain.UnitKind]int

// Provider is the external inventory collaborator. Reads are idempotent
// snapshots; the provider may report unavailable and callers must surface
// that instead of treating it as zero.
type Provider interface {
	Counts(ctx context.Context, accountNumber string, p period.Period) (Counts, error)
}

var ErrUnavailable = errors.New("inventory_unavailable")
