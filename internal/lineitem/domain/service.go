package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, item *LineItem) error
	Update(ctx context.Context, db *gorm.DB, item *LineItem) error
	FindByName(ctx context.Context, db *gorm.DB, companyID snowflake.ID, name string) (*LineItem, error)
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]LineItem, error)
	DeleteByName(ctx context.Context, db *gorm.DB, companyID snowflake.ID, name string) (bool, error)
	NextPosition(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int, error)
}

type AddRequest struct {
	AccountNumber string
	Author        string
	Name          string
	Recurrence    Recurrence
	MonthlyFee    float64
	OneOffFee     float64
	Description   string
}

type Service interface {
	// Add stores a line item; a duplicate name replaces the prior entry in place.
	Add(ctx context.Context, req AddRequest) (*LineItem, error)
	// Remove deletes by name; removing a missing name is a no-op.
	Remove(ctx context.Context, accountNumber, name, author string) error
	// ListRecurring returns recurring items in insertion order.
	ListRecurring(ctx context.Context, accountNumber string) ([]LineItem, error)
	List(ctx context.Context, accountNumber string) ([]LineItem, error)
}

var (
	ErrInvalidName       = errors.New("invalid_line_item_name")
	ErrInvalidRecurrence = errors.New("invalid_recurrence")
	ErrNegativeFee       = errors.New("negative_fee")
)
