package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Company, error)
	Get(ctx context.Context, accountNumber string) (*Company, error)
	List(ctx context.Context) ([]Company, error)

	AddManualAsset(ctx context.Context, req AddManualAssetRequest) (*ManualAsset, error)
	ListManualAssets(ctx context.Context, accountNumber string) ([]ManualAsset, error)
	RemoveManualAsset(ctx context.Context, accountNumber, assetID string) error

	AddManualUser(ctx context.Context, req AddManualUserRequest) (*ManualUser, error)
	ListManualUsers(ctx context.Context, accountNumber string) ([]ManualUser, error)
	RemoveManualUser(ctx context.Context, accountNumber, userID string) error
}

type CreateRequest struct {
	AccountNumber string `json:"account_number"`
	Name          string `json:"name"`
	PlanName      string `json:"plan_name"`
}

type AddManualAssetRequest struct {
	AccountNumber string `json:"-"`
	Hostname      string `json:"hostname"`
	Kind          string `json:"kind"`
	Billable      *bool  `json:"billable"`
	Notes         string `json:"notes"`
}

type AddManualUserRequest struct {
	AccountNumber string `json:"-"`
	FullName      string `json:"full_name"`
	Billable      *bool  `json:"billable"`
	Notes         string `json:"notes"`
}

var (
	ErrNotFound         = errors.New("company_not_found")
	ErrInvalidAccount   = errors.New("invalid_account_number")
	ErrInvalidHostname  = errors.New("invalid_hostname")
	ErrInvalidFullName  = errors.New("invalid_full_name")
	ErrDuplicateAccount = errors.New("duplicate_account_number")
)
