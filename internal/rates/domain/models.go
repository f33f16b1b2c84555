package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
)

// OverrideField names one company-tunable billing value.
type OverrideField string

var (
	FieldPerUserCost         OverrideField = "per_user_cost"
	FieldPerWorkstationCost  OverrideField = "per_workstation_cost"
	FieldPerServerCost       OverrideField = "per_server_cost"
	FieldPerVMCost           OverrideField = "per_vm_cost"
	FieldPerSwitchCost       OverrideField = "per_switch_cost"
	FieldPerFirewallCost     OverrideField = "per_firewall_cost"
	FieldPerHourCost         OverrideField = "per_hour_cost"
	FieldPrepaidHoursMonthly OverrideField = "prepaid_hours_monthly"
)

// OverrideFields returns every field in stable order.
func OverrideFields() []OverrideField {
	return []OverrideField{
		FieldPerUserCost,
		FieldPerWorkstationCost,
		FieldPerServerCost,
		FieldPerVMCost,
		FieldPerSwitchCost,
		FieldPerFirewallCost,
		FieldPerHourCost,
		FieldPrepaidHoursMonthly,
	}
}

// FieldForKind maps a unit kind to its rate override field.
func FieldForKind(kind plandomain.UnitKind) OverrideField {
	return OverrideField("per_" + string(kind) + "_cost")
}

// KindForField is the inverse of FieldForKind; ok is false for
// prepaid_hours_monthly and unknown fields.
func KindForField(field OverrideField) (plandomain.UnitKind, bool) {
	for _, k := range plandomain.UnitKinds() {
		if FieldForKind(k) == field {
			return k, true
		}
	}
	return "", false
}

// ParseOverrideField validates a caller-supplied field name.
func ParseOverrideField(s string) (OverrideField, error) {
	for _, f := range OverrideFields() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", ErrInvalidField
}

// RateOverride is the single company override record. A nil column inherits
// the plan default. Version supports optimistic concurrency; UpdatedBy and
// UpdatedAt stamp the last mutation (full history lives in the audit trail).
type RateOverride struct {
	ID                  snowflake.ID `json:"id" gorm:"primaryKey"`
	CompanyID           snowflake.ID `json:"company_id" gorm:"not null;uniqueIndex"`
	PerUserCost         *float64     `json:"per_user_cost" gorm:"type:numeric"`
	PerWorkstationCost  *float64     `json:"per_workstation_cost" gorm:"type:numeric"`
	PerServerCost       *float64     `json:"per_server_cost" gorm:"type:numeric"`
	PerVMCost           *float64     `json:"per_vm_cost" gorm:"type:numeric"`
	PerSwitchCost       *float64     `json:"per_switch_cost" gorm:"type:numeric"`
	PerFirewallCost     *float64     `json:"per_firewall_cost" gorm:"type:numeric"`
	PerHourCost         *float64     `json:"per_hour_cost" gorm:"type:numeric"`
	PrepaidHoursMonthly *float64     `json:"prepaid_hours_monthly" gorm:"type:numeric"`
	Version             int64        `json:"version" gorm:"not null;default:1"`
	UpdatedBy           string       `json:"updated_by" gorm:"type:text;not null;default:''"`
	CreatedAt           time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt           time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RateOverride) TableName() string { return "rate_overrides" }

// Value returns the override for one field, nil when the field inherits.
func (o *RateOverride) Value(field OverrideField) *float64 {
	if o == nil {
		return nil
	}
	switch field {
	case FieldPerUserCost:
		return o.PerUserCost
	case FieldPerWorkstationCost:
		return o.PerWorkstationCost
	case FieldPerServerCost:
		return o.PerServerCost
	case FieldPerVMCost:
		return o.PerVMCost
	case FieldPerSwitchCost:
		return o.PerSwitchCost
	case FieldPerFirewallCost:
		return o.PerFirewallCost
	case FieldPerHourCost:
		return o.PerHourCost
	case FieldPrepaidHoursMonthly:
		return o.PrepaidHoursMonthly
	}
	return nil
}

// Set assigns one field; v == nil reverts the field to the plan default.
func (o *RateOverride) Set(field OverrideField, v *float64) {
	switch field {
	case FieldPerUserCost:
		o.PerUserCost = v
	case FieldPerWorkstationCost:
		o.PerWorkstationCost = v
	case FieldPerServerCost:
		o.PerServerCost = v
	case FieldPerVMCost:
		o.PerVMCost = v
	case FieldPerSwitchCost:
		o.PerSwitchCost = v
	case FieldPerFirewallCost:
		o.PerFirewallCost = v
	case FieldPerHourCost:
		o.PerHourCost = v
	case FieldPrepaidHoursMonthly:
		o.PrepaidHoursMonthly = v
	}
}

// EffectiveRates is the fully resolved rate set for one company. Derived,
// never stored.
type EffectiveRates struct {
	AccountNumber       string                           `json:"account_number"`
	PlanID              snowflake.ID                     `json:"plan_id"`
	PlanName            string                           `json:"plan_name"`
	Rates               map[plandomain.UnitKind]float64  `json:"rates"`
	PrepaidHoursMonthly float64                          `json:"prepaid_hours_monthly"`
	Overridden          map[plandomain.UnitKind]bool     `json:"overridden,omitempty"`
}

// Rate returns the effective rate for one kind.
func (e *EffectiveRates) Rate(kind plandomain.UnitKind) float64 {
	return e.Rates[kind]
}

// FieldValue resolves an override field against the effective set.
func (e *EffectiveRates) FieldValue(field OverrideField) float64 {
	if field == FieldPrepaidHoursMonthly {
		return e.PrepaidHoursMonthly
	}
	if kind, ok := KindForField(field); ok {
		return e.Rates[kind]
	}
	return 0
}
