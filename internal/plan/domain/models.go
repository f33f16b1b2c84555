package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// UnitKind identifies a billable unit category.
type UnitKind string

var (
	UnitUser        UnitKind = "user"
	UnitWorkstation UnitKind = "workstation"
	UnitServer      UnitKind = "server"
	UnitVM          UnitKind = "vm"
	UnitSwitch      UnitKind = "switch"
	UnitFirewall    UnitKind = "firewall"
	UnitHour        UnitKind = "hour"
)

// UnitKinds returns every kind in stable billing order.
func UnitKinds() []UnitKind {
	return []UnitKind{
		UnitUser,
		UnitWorkstation,
		UnitServer,
		UnitVM,
		UnitSwitch,
		UnitFirewall,
		UnitHour,
	}
}

// ParseUnitKind validates a caller-supplied kind.
func ParseUnitKind(s string) (UnitKind, error) {
	for _, k := range UnitKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", ErrInvalidUnitKind
}

// BillingPlan carries the platform default rates. Plans are immutable once a
// company references them; rate changes are issued as new plan records.
type BillingPlan struct {
	ID                  snowflake.ID `json:"id" gorm:"primaryKey"`
	Name                string       `json:"name" gorm:"type:text;not null;uniqueIndex"`
	Term                string       `json:"term,omitempty" gorm:"type:text"`
	PerUserCost         float64      `json:"per_user_cost" gorm:"type:numeric;not null;default:0"`
	PerWorkstationCost  float64      `json:"per_workstation_cost" gorm:"type:numeric;not null;default:0"`
	PerServerCost       float64      `json:"per_server_cost" gorm:"type:numeric;not null;default:0"`
	PerVMCost           float64      `json:"per_vm_cost" gorm:"type:numeric;not null;default:0"`
	PerSwitchCost       float64      `json:"per_switch_cost" gorm:"type:numeric;not null;default:0"`
	PerFirewallCost     float64      `json:"per_firewall_cost" gorm:"type:numeric;not null;default:0"`
	PerHourCost         float64      `json:"per_hour_cost" gorm:"type:numeric;not null;default:0"`
	PrepaidHoursMonthly float64      `json:"prepaid_hours_monthly" gorm:"type:numeric;not null;default:0"`
	CreatedAt           time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt           time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (BillingPlan) TableName() string { return "billing_plans" }

// RateFor returns the plan default for one unit kind.
func (p *BillingPlan) RateFor(kind UnitKind) float64 {
	switch kind {
	case UnitUser:
		return p.PerUserCost
	case UnitWorkstation:
		return p.PerWorkstationCost
	case UnitServer:
		return p.PerServerCost
	case UnitVM:
		return p.PerVMCost
	case UnitSwitch:
		return p.PerSwitchCost
	case UnitFirewall:
		return p.PerFirewallCost
	case UnitHour:
		return p.PerHourCost
	}
	return 0
}
