package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Record is one committed billing mutation. The trail is append-only and is
// never consulted by rate resolution; it exists for external note attachment.
type Record struct {
	ID            snowflake.ID      `json:"id" gorm:"primaryKey"`
	AccountNumber string            `json:"account_number" gorm:"type:text;not null;index"`
	Field         string            `json:"field" gorm:"type:text;not null"`
	OldValue      *float64          `json:"old_value" gorm:"type:numeric"`
	NewValue      *float64          `json:"new_value" gorm:"type:numeric"`
	Author        string            `json:"author" gorm:"type:text;not null"`
	Metadata      datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt     time.Time         `json:"timestamp" gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

func (Record) TableName() string { return "billing_audit_records" }
