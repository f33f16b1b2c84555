package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*BillingPlan, error)
	List(ctx context.Context) ([]BillingPlan, error)
	Get(ctx context.Context, id string) (*BillingPlan, error)
	GetByName(ctx context.Context, name string) (*BillingPlan, error)
}

type CreateRequest struct {
	Name                string  `json:"name"`
	Term                string  `json:"term"`
	PerUserCost         float64 `json:"per_user_cost"`
	PerWorkstationCost  float64 `json:"per_workstation_cost"`
	PerServerCost       float64 `json:"per_server_cost"`
	PerVMCost           float64 `json:"per_vm_cost"`
	PerSwitchCost       float64 `json:"per_switch_cost"`
	PerFirewallCost     float64 `json:"per_firewall_cost"`
	PerHourCost         float64 `json:"per_hour_cost"`
	PrepaidHoursMonthly float64 `json:"prepaid_hours_monthly"`
}

var (
	ErrNotFound        = errors.New("plan_not_found")
	ErrInvalidName     = errors.New("invalid_plan_name")
	ErrInvalidRate     = errors.New("invalid_rate")
	ErrInvalidUnitKind = errors.New("invalid_unit_kind")
	ErrDuplicateName   = errors.New("duplicate_plan_name")
)
