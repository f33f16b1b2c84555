package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Recurrence classifies a line item's billing treatment.
type Recurrence string

var (
	Recurring Recurrence = "recurring"
	OneTime   Recurrence = "one_time"
)

// LineItem is a named fixed charge outside the per-unit rate model. Name is
// the natural key per company. One-time items are informational: they never
// enter a period receipt total.
type LineItem struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	CompanyID   snowflake.ID `json:"company_id" gorm:"not null;index:idx_line_items_company_name,unique"`
	Name        string       `json:"name" gorm:"type:text;not null;index:idx_line_items_company_name,unique"`
	Recurrence  Recurrence   `json:"recurrence" gorm:"type:text;not null"`
	MonthlyFee  float64      `json:"monthly_fee" gorm:"type:numeric;not null;default:0"`
	OneOffFee   float64      `json:"one_off_fee" gorm:"type:numeric;not null;default:0"`
	Description string       `json:"description,omitempty" gorm:"type:text"`
	Position    int          `json:"position" gorm:"not null;default:0"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (LineItem) TableName() string { return "line_items" }

// ParseRecurrence validates a caller-supplied recurrence kind. The engine
// never infers recurrence from amounts; misclassified input stays misclassified.
func ParseRecurrence(s string) (Recurrence, error) {
	switch Recurrence(s) {
	case Recurring:
		return Recurring, nil
	case OneTime:
		return OneTime, nil
	}
	return "", ErrInvalidRecurrence
}
