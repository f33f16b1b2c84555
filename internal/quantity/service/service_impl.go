package service

import (
	"context"

	companydomain "github.com/ruapotato/hivematrix-ledger/internal/company/domain"
	inventorydomain "github.com/ruapotato/hivematrix-ledger/internal/inventory/domain"
	"github.com/ruapotato/hivematrix-ledger/internal/period"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
	quantitydomain "github.com/ruapotato/hivematrix-ledger/internal/quantity/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Inventory  inventorydomain.Provider
	CompanySvc companydomain.Service
}

type Service struct {
	log        *zap.Logger
	inventory  inventorydomain.Provider
	companySvc companydomain.Service
}

func New(p Params) quantitydomain.Service {
	return &Service{
		log:        p.Log.Named("quantity.service"),
		inventory:  p.Inventory,
		companySvc: p.CompanySvc,
	}
}

func (s *Service) Aggregate(ctx context.Context, accountNumber string, p period.Period) (*quantitydomain.Quantities, error) {
	company, err := s.companySvc.Get(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	reported, err := s.inventory.Counts(ctx, company.AccountNumber, p)
	if err != nil {
		return nil, err
	}

	assets, err := s.companySvc.ListManualAssets(ctx, company.AccountNumber)
	if err != nil {
		return nil, err
	}
	users, err := s.companySvc.ListManualUsers(ctx, company.AccountNumber)
	if err != nil {
		return nil, err
	}

	q := &quantitydomain.Quantities{
		AccountNumber: company.AccountNumber,
		Period:        p,
		Reported:      make(map[plandomain.UnitKind]int),
		Manual:        make(map[plandomain.UnitKind]int),
		Total:         make(map[plandomain.UnitKind]int),
	}
	for _, kind := range plandomain.UnitKinds() {
		q.Reported[kind] = reported[kind]
	}
	for _, asset := range assets {
		if asset.Billable {
			q.Manual[asset.Kind]++
		}
	}
	for _, user := range users {
		if user.Billable {
			q.Manual[plandomain.UnitUser]++
		}
	}
	for _, kind := range plandomain.UnitKinds() {
		q.Total[kind] = q.Reported[kind] + q.Manual[kind]
	}
	return q, nil
}
