package inventory

import (
	"context"
	"sync"

	inventorydomain "github.com/ruapotato/hivematrix-ledger/internal/inventory/domain"
	"github.com/ruapotato/hivematrix-ledger/internal/period"
)

// StaticProvider serves fixed counts. Used when no inventory service is
// configured and by tests.
type StaticProvider struct {
	mu     sync.RWMutex
	counts map[string]inventorydomain.Counts // key: account|period
	down   bool
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{counts: make(map[string]inventorydomain.Counts)}
}

func key(accountNumber string, p period.Period) string {
	return accountNumber + "|" + p.String()
}

// SetCounts registers the snapshot served for one account and period.
func (s *StaticProvider) SetCounts(accountNumber string, p period.Period, counts inventorydomain.Counts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(inventorydomain.Counts, len(counts))
	for k, v := range counts {
		cp[k] = v
	}
	s.counts[key(accountNumber, p)] = cp
}

// SetDown makes every read fail with ErrUnavailable.
func (s *StaticProvider) SetDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

func (s *StaticProvider) Counts(ctx context.Context, accountNumber string, p period.Period) (inventorydomain.Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.down {
		return nil, inventorydomain.ErrUnavailable
	}
	stored, ok := s.counts[key(accountNumber, p)]
	if !ok {
		return inventorydomain.Counts{}, nil
	}
	out := make(inventorydomain.Counts, len(stored))
	for k, v := range stored {
		out[k] = v
	}
	return out, nil
}
