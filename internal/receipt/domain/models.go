package domain

import (
	"context"
	"math"

	"github.com/ruapotato/hivematrix-ledger/internal/period"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
)

// UnitLine is one per-kind charge on a receipt. For the hour kind,
// BilledQuantity is Quantity minus the prepaid hours consumed at zero cost.
type UnitLine struct {
	Kind           plandomain.UnitKind `json:"kind"`
	Quantity       int                 `json:"quantity"`
	BilledQuantity float64             `json:"billed_quantity"`
	Rate           float64             `json:"rate"`
	Subtotal       float64             `json:"subtotal"`
}

// ChargeLine is one recurring fixed charge carried onto a receipt.
type ChargeLine struct {
	Name       string  `json:"name"`
	MonthlyFee float64 `json:"monthly_fee"`
}

// Receipt is the per-period monetary output. It is a pure function of the
// resolved rates, aggregated quantities, and recurring charges for the
// period, and is recomputed on demand rather than stored.
type Receipt struct {
	AccountNumber       string        `json:"account_number"`
	CompanyName         string        `json:"company_name"`
	Period              period.Period `json:"period"`
	PlanName            string        `json:"plan_name"`
	UnitLines           []UnitLine    `json:"unit_lines"`
	ChargeLines         []ChargeLine  `json:"charge_lines"`
	PrepaidHoursMonthly float64       `json:"prepaid_hours_monthly"`
	PrepaidHoursUsed    float64       `json:"prepaid_hours_used"`
	UnitTotal           float64       `json:"unit_total"`
	ChargeTotal         float64       `json:"charge_total"`
	GrandTotal          float64       `json:"grand_total"`
}

type Service interface {
	// Compute builds the receipt for one account and period. Read-only;
	// safe to call repeatedly and concurrently.
	Compute(ctx context.Context, accountNumber string, p period.Period) (*Receipt, error)
}

// RoundCents rounds to the nearest cent, half away from zero for positive
// amounts. Applied once per line subtotal and once at the grand total, never
// at intermediate multiplications.
func RoundCents(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}
