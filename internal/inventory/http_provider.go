package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ruapotato/hivematrix-ledger/internal/config"
	inventorydomain "github.com/ruapotato/hivematrix-ledger/internal/inventory/domain"
	"github.com/ruapotato/hivematrix-ledger/internal/period"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
	"go.uber.org/zap"
)

// HTTPProvider reads device/user counts from the inventory service. Every
// request carries a bounded deadline; the engine must never block on a
// collaborator it does not own.
type HTTPProvider struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	log     *zap.Logger
}

func NewHTTPProvider(cfg config.Config, log *zap.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL: cfg.InventoryBaseURL,
		timeout: cfg.InventoryTimeout,
		client:  &http.Client{Timeout: cfg.InventoryTimeout},
		log:     log.Named("inventory.http"),
	}
}

type countsResponse struct {
	Counts map[string]int `json:"counts"`
}

func (p *HTTPProvider) Counts(ctx context.Context, accountNumber string, pd period.Period) (inventorydomain.Counts, error) {
	endpoint := fmt.Sprintf("%s/api/counts/%s?year=%d&month=%d",
		p.baseURL, url.PathEscape(accountNumber), pd.Year, int(pd.Month))

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Warn("inventory request failed",
			zap.String("account_number", accountNumber),
			zap.String("period", pd.String()),
			zap.Error(err),
		)
		return nil, inventorydomain.ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.log.Warn("inventory returned non-200",
			zap.String("account_number", accountNumber),
			zap.Int("status", resp.StatusCode),
		)
		return nil, inventorydomain.ErrUnavailable
	}

	var body countsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, inventorydomain.ErrUnavailable
	}

	counts := make(inventorydomain.Counts, len(body.Counts))
	for raw, n := range body.Counts {
		kind, err := plandomain.ParseUnitKind(raw)
		if err != nil {
			// Unknown kinds are a contract drift on the inventory
			// side; skip rather than misbill.
			continue
		}
		counts[kind] = n
	}
	return counts, nil
}
