package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
)

// Company is a billed MSP account. AccountNumber is the financial identity;
// Name is display-only and may collide.
type Company struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	AccountNumber string       `json:"account_number" gorm:"type:text;not null;uniqueIndex"`
	Name          string       `json:"name" gorm:"type:text;not null"`
	BillingPlanID snowflake.ID `json:"billing_plan_id" gorm:"not null;index"`
	CreatedAt     time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Company) TableName() string { return "companies" }

// ManualAsset is a billable device the external inventory does not see.
// It adds to reported counts, never replaces them.
type ManualAsset struct {
	ID        snowflake.ID        `json:"id" gorm:"primaryKey"`
	CompanyID snowflake.ID        `json:"company_id" gorm:"not null;index"`
	Hostname  string              `json:"hostname" gorm:"type:text;not null"`
	Kind      plandomain.UnitKind `json:"kind" gorm:"type:text;not null"`
	Billable  bool                `json:"billable" gorm:"not null;default:true"`
	Notes     string              `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt time.Time           `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ManualAsset) TableName() string { return "manual_assets" }

// ManualUser is a billable person missing from the external directory.
type ManualUser struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	CompanyID snowflake.ID `json:"company_id" gorm:"not null;index"`
	FullName  string       `json:"full_name" gorm:"type:text;not null"`
	Billable  bool         `json:"billable" gorm:"not null;default:true"`
	Notes     string       `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ManualUser) TableName() string { return "manual_users" }
