package domain

import (
	"context"
	"errors"

	lineitemdomain "github.com/ruapotato/hivematrix-ledger/internal/lineitem/domain"
	ratesdomain "github.com/ruapotato/hivematrix-ledger/internal/rates/domain"
)

// Action classifies one diff entry.
type Action string

var (
	ActionOverrideRate   Action = "override_rate"
	ActionAddLineItem    Action = "add_line_item"
	ActionRemoveLineItem Action = "remove_line_item"
	ActionNoChange       Action = "no_change"
)

// Target names the configuration surface a diff entry touches.
type Target string

var (
	TargetRate     Target = "rate"
	TargetLineItem Target = "line_item"
)

// Entry is one comparison result. Field is an override field name for rate
// targets and a line item name for line item targets. A nil value means the
// side carries no opinion (no current entry, or absent from the terms).
type Entry struct {
	Target        Target   `json:"target"`
	Field         string   `json:"field"`
	CurrentValue  *float64 `json:"current_value"`
	ContractValue *float64 `json:"contract_value"`
	Action        Action   `json:"action"`
}

// ContractLineItem is one fixed charge claimed by contract terms. Recurrence
// must be supplied by the caller; it is never inferred from the fee.
type ContractLineItem struct {
	Name        string                    `json:"name"`
	MonthlyFee  float64                   `json:"monthly_fee"`
	Recurrence  lineitemdomain.Recurrence `json:"recurrence"`
	Description string                    `json:"description,omitempty"`
}

// ContractTerms is the externally structured rate commitment for one account.
type ContractTerms struct {
	Rates     map[ratesdomain.OverrideField]float64 `json:"rates"`
	LineItems []ContractLineItem                    `json:"line_items"`
	// RemoveLineItems lists ledger entries the caller explicitly wants
	// dropped. Ledger entries merely absent from the terms are left alone.
	RemoveLineItems []string `json:"remove_line_items,omitempty"`
}

// Plan is the pending mutation set derived from a diff: only entries whose
// action is not no_change.
type Plan struct {
	AccountNumber string  `json:"account_number"`
	Entries       []Entry `json:"entries"`
}

// Result reports one alignment run. Rates and LineItems reflect the
// post-alignment state; on a dry run they are a projection and nothing was
// written.
type Result struct {
	AccountNumber string                        `json:"account_number"`
	DryRun        bool                          `json:"dry_run"`
	Applied       bool                          `json:"applied"`
	Plan          Plan                          `json:"plan"`
	Rates         *ratesdomain.EffectiveRates   `json:"rates"`
	LineItems     []lineitemdomain.LineItem     `json:"line_items"`
}

type Service interface {
	// Compare diffs contract terms against the current effective
	// configuration. One-time terms never produce an entry; quantities are
	// out of scope.
	Compare(ctx context.Context, accountNumber string, terms ContractTerms) ([]Entry, error)
	// Align executes the plan derived from terms. dryRun projects the
	// outcome without writing; otherwise every mutation commits in one
	// transaction or none do.
	Align(ctx context.Context, accountNumber, author string, terms ContractTerms, dryRun bool) (*Result, error)
	// Verify re-runs Compare; after a successful non-dry-run Align with the
	// same terms every entry comes back no_change.
	Verify(ctx context.Context, accountNumber string, terms ContractTerms) ([]Entry, error)
}

var (
	ErrPartialApplyRejected = errors.New("partial_apply_rejected")
	ErrEmptyTerms           = errors.New("empty_contract_terms")
)
