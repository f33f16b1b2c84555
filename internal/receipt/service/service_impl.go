package service

import (
	"context"

	companydomain "github.com/ruapotato/hivematrix-ledger/internal/company/domain"
	lineitemdomain "github.com/ruapotato/hivematrix-ledger/internal/lineitem/domain"
	"github.com/ruapotato/hivematrix-ledger/internal/period"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
	quantitydomain "github.com/ruapotato/hivematrix-ledger/internal/quantity/domain"
	ratesdomain "github.com/ruapotato/hivematrix-ledger/internal/rates/domain"
	receiptdomain "github.com/ruapotato/hivematrix-ledger/internal/receipt/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log         *zap.Logger
	CompanySvc  companydomain.Service
	RatesSvc    ratesdomain.Service
	QuantitySvc quantitydomain.Service
	LineItemSvc lineitemdomain.Service
}

type Service struct {
	log         *zap.Logger
	companySvc  companydomain.Service
	ratesSvc    ratesdomain.Service
	quantitySvc quantitydomain.Service
	lineItemSvc lineitemdomain.Service
}

func New(p Params) receiptdomain.Service {
	return &Service{
		log:         p.Log.Named("receipt.service"),
		companySvc:  p.CompanySvc,
		ratesSvc:    p.RatesSvc,
		quantitySvc: p.QuantitySvc,
		lineItemSvc: p.LineItemSvc,
	}
}

func (s *Service) Compute(ctx context.Context, accountNumber string, p period.Period) (*receiptdomain.Receipt, error) {
	company, err := s.companySvc.Get(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	rates, err := s.ratesSvc.ResolveAll(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	quantities, err := s.quantitySvc.Aggregate(ctx, accountNumber, p)
	if err != nil {
		return nil, err
	}
	recurring, err := s.lineItemSvc.ListRecurring(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	return Build(company, p, rates, quantities, recurring), nil
}

// Build assembles a receipt from already-resolved inputs. Pure; exact
// per-line amounts are rounded once, and the grand total is rounded once
// from the unrounded running sum.
func Build(company *companydomain.Company, p period.Period, rates *ratesdomain.EffectiveRates, quantities *quantitydomain.Quantities, recurring []lineitemdomain.LineItem) *receiptdomain.Receipt {
	r := &receiptdomain.Receipt{
		AccountNumber:       company.AccountNumber,
		CompanyName:         company.Name,
		Period:              p,
		PlanName:            rates.PlanName,
		PrepaidHoursMonthly: rates.PrepaidHoursMonthly,
	}

	var total float64
	for _, kind := range plandomain.UnitKinds() {
		qty := quantities.Count(kind)
		billed := float64(qty)
		if kind == plandomain.UnitHour {
			used := rates.PrepaidHoursMonthly
			if billed < used {
				used = billed
			}
			r.PrepaidHoursUsed = used
			billed -= used
		}
		amount := billed * rates.Rate(kind)
		r.UnitLines = append(r.UnitLines, receiptdomain.UnitLine{
			Kind:           kind,
			Quantity:       qty,
			BilledQuantity: billed,
			Rate:           rates.Rate(kind),
			Subtotal:       receiptdomain.RoundCents(amount),
		})
		total += amount
	}
	r.UnitTotal = receiptdomain.RoundCents(total)

	var charges float64
	for _, item := range recurring {
		r.ChargeLines = append(r.ChargeLines, receiptdomain.ChargeLine{
			Name:       item.Name,
			MonthlyFee: item.MonthlyFee,
		})
		charges += item.MonthlyFee
	}
	r.ChargeTotal = receiptdomain.RoundCents(charges)
	r.GrandTotal = receiptdomain.RoundCents(total + charges)
	return r
}
