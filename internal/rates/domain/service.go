package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, o *RateOverride) error
	FindByCompanyID(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*RateOverride, error)
	// UpdateVersioned persists o only when the stored row still carries
	// expectedVersion; it reports whether a row was written.
	UpdateVersioned(ctx context.Context, db *gorm.DB, o *RateOverride, expectedVersion int64) (bool, error)
	DeleteByCompanyID(ctx context.Context, db *gorm.DB, companyID snowflake.ID) error
}

// SetOverrideRequest is a partial override mutation. A key present with a nil
// value reverts that field to the plan default; an absent key is untouched.
type SetOverrideRequest struct {
	AccountNumber   string
	Author          string
	Changes         map[OverrideField]*float64
	ExpectedVersion *int64
}

type Service interface {
	// Resolve returns the effective rate for one unit kind.
	Resolve(ctx context.Context, accountNumber string, kind plandomain.UnitKind) (float64, error)
	// ResolveAll resolves every unit kind plus prepaid hours in one pass.
	// It fails outright when the override record cannot be read; it never
	// falls back to plan defaults on error.
	ResolveAll(ctx context.Context, accountNumber string) (*EffectiveRates, error)
	GetOverride(ctx context.Context, accountNumber string) (*RateOverride, error)
	SetOverride(ctx context.Context, req SetOverrideRequest) (*RateOverride, error)
	// ClearOverrides reverts every field to the plan default.
	ClearOverrides(ctx context.Context, accountNumber, author string) error
}

var (
	ErrInvalidField = errors.New("invalid_override_field")
	ErrNegativeRate = errors.New("negative_rate")
	ErrEmptyChanges = errors.New("empty_override_changes")
	ErrConflict     = errors.New("conflict")
)
