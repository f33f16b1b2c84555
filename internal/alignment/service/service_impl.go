package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ruapotato/hivematrix-ledger/internal/acctlock"
	alignmentdomain "github.com/ruapotato/hivematrix-ledger/internal/alignment/domain"
	companydomain "github.com/ruapotato/hivematrix-ledger/internal/company/domain"
	"github.com/ruapotato/hivematrix-ledger/internal/config"
	lineitemdomain "github.com/ruapotato/hivematrix-ledger/internal/lineitem/domain"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
	ratesdomain "github.com/ruapotato/hivematrix-ledger/internal/rates/domain"
	"github.com/ruapotato/hivematrix-ledger/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const applyLockTTL = 30 * time.Second

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Billing     *config.BillingConfigHolder
	Locker      *acctlock.Locker
	CompanySvc  companydomain.Service
	RatesSvc    ratesdomain.Service
	LineItemSvc lineitemdomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	billing     *config.BillingConfigHolder
	locker      *acctlock.Locker
	companySvc  companydomain.Service
	ratesSvc    ratesdomain.Service
	lineItemSvc lineitemdomain.Service
}

func New(p Params) alignmentdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("alignment.service"),
		billing:     p.Billing,
		locker:      p.Locker,
		companySvc:  p.CompanySvc,
		ratesSvc:    p.RatesSvc,
		lineItemSvc: p.LineItemSvc,
	}
}

func validateTerms(terms alignmentdomain.ContractTerms) error {
	if len(terms.Rates) == 0 && len(terms.LineItems) == 0 && len(terms.RemoveLineItems) == 0 {
		return alignmentdomain.ErrEmptyTerms
	}
	for field, rate := range terms.Rates {
		if _, err := ratesdomain.ParseOverrideField(string(field)); err != nil {
			return err
		}
		if rate < 0 {
			return ratesdomain.ErrNegativeRate
		}
	}
	for _, item := range terms.LineItems {
		if strings.TrimSpace(item.Name) == "" {
			return lineitemdomain.ErrInvalidName
		}
		if _, err := lineitemdomain.ParseRecurrence(string(item.Recurrence)); err != nil {
			return err
		}
		if item.MonthlyFee < 0 {
			return lineitemdomain.ErrNegativeFee
		}
	}
	return nil
}

func (s *Service) Compare(ctx context.Context, accountNumber string, terms alignmentdomain.ContractTerms) ([]alignmentdomain.Entry, error) {
	if err := validateTerms(terms); err != nil {
		return nil, err
	}

	effective, err := s.ratesSvc.ResolveAll(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	recurring, err := s.lineItemSvc.ListRecurring(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	tolerance := s.billing.Current().RateTolerance

	var entries []alignmentdomain.Entry

	for _, field := range ratesdomain.OverrideFields() {
		claimed, ok := terms.Rates[field]
		if !ok {
			continue
		}
		current := effective.FieldValue(field)
		action := alignmentdomain.ActionNoChange
		if math.Abs(current-claimed) > tolerance {
			action = alignmentdomain.ActionOverrideRate
		}
		entries = append(entries, alignmentdomain.Entry{
			Target:        alignmentdomain.TargetRate,
			Field:         string(field),
			CurrentValue:  ptr(current),
			ContractValue: ptr(claimed),
			Action:        action,
		})
	}

	ledger := make(map[string]lineitemdomain.LineItem, len(recurring))
	for _, item := range recurring {
		ledger[item.Name] = item
	}
	claimed := make(map[string]bool)
	removing := make(map[string]bool)

	for _, term := range terms.LineItems {
		// One-time terms are informational and never drive a diff.
		if term.Recurrence == lineitemdomain.OneTime {
			continue
		}
		claimed[term.Name] = true
		entry := alignmentdomain.Entry{
			Target:        alignmentdomain.TargetLineItem,
			Field:         term.Name,
			ContractValue: ptr(term.MonthlyFee),
			Action:        alignmentdomain.ActionAddLineItem,
		}
		if existing, ok := ledger[term.Name]; ok {
			entry.CurrentValue = ptr(existing.MonthlyFee)
			if math.Abs(existing.MonthlyFee-term.MonthlyFee) <= tolerance {
				entry.Action = alignmentdomain.ActionNoChange
			}
		}
		entries = append(entries, entry)
	}

	for _, name := range terms.RemoveLineItems {
		removing[name] = true
		entry := alignmentdomain.Entry{
			Target: alignmentdomain.TargetLineItem,
			Field:  name,
			Action: alignmentdomain.ActionNoChange,
		}
		if existing, ok := ledger[name]; ok {
			entry.CurrentValue = ptr(existing.MonthlyFee)
			entry.Action = alignmentdomain.ActionRemoveLineItem
		}
		entries = append(entries, entry)
	}

	// Ledger entries the terms are silent about are reported, never
	// removed: dropping a charge the caller did not name is under-billing.
	for _, item := range recurring {
		if claimed[item.Name] || removing[item.Name] {
			continue
		}
		entries = append(entries, alignmentdomain.Entry{
			Target:       alignmentdomain.TargetLineItem,
			Field:        item.Name,
			CurrentValue: ptr(item.MonthlyFee),
			Action:       alignmentdomain.ActionNoChange,
		})
	}

	return entries, nil
}

func (s *Service) Verify(ctx context.Context, accountNumber string, terms alignmentdomain.ContractTerms) ([]alignmentdomain.Entry, error) {
	return s.Compare(ctx, accountNumber, terms)
}

func (s *Service) Align(ctx context.Context, accountNumber, author string, terms alignmentdomain.ContractTerms, dryRun bool) (*alignmentdomain.Result, error) {
	entries, err := s.Compare(ctx, accountNumber, terms)
	if err != nil {
		return nil, err
	}

	plan := alignmentdomain.Plan{AccountNumber: accountNumber}
	for _, entry := range entries {
		if entry.Action != alignmentdomain.ActionNoChange {
			plan.Entries = append(plan.Entries, entry)
		}
	}

	if dryRun {
		return s.project(ctx, accountNumber, plan, terms)
	}
	return s.apply(ctx, accountNumber, author, plan, terms)
}

// project computes the would-be post-alignment state without writing.
func (s *Service) project(ctx context.Context, accountNumber string, plan alignmentdomain.Plan, terms alignmentdomain.ContractTerms) (*alignmentdomain.Result, error) {
	effective, err := s.ratesSvc.ResolveAll(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	recurring, err := s.lineItemSvc.ListRecurring(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	projected := *effective
	projected.Rates = make(map[plandomain.UnitKind]float64, len(effective.Rates))
	for k, v := range effective.Rates {
		projected.Rates[k] = v
	}
	projected.Overridden = make(map[plandomain.UnitKind]bool, len(effective.Overridden))
	for k, v := range effective.Overridden {
		projected.Overridden[k] = v
	}

	items := append([]lineitemdomain.LineItem(nil), recurring...)
	for _, entry := range plan.Entries {
		switch entry.Action {
		case alignmentdomain.ActionOverrideRate:
			field := ratesdomain.OverrideField(entry.Field)
			if field == ratesdomain.FieldPrepaidHoursMonthly {
				projected.PrepaidHoursMonthly = *entry.ContractValue
			} else if kind, ok := ratesdomain.KindForField(field); ok {
				projected.Rates[kind] = *entry.ContractValue
				projected.Overridden[kind] = true
			}
		case alignmentdomain.ActionAddLineItem:
			replaced := false
			for i := range items {
				if items[i].Name == entry.Field {
					items[i].MonthlyFee = *entry.ContractValue
					replaced = true
					break
				}
			}
			if !replaced {
				items = append(items, lineitemdomain.LineItem{
					Name:       entry.Field,
					Recurrence: lineitemdomain.Recurring,
					MonthlyFee: *entry.ContractValue,
				})
			}
		case alignmentdomain.ActionRemoveLineItem:
			kept := items[:0]
			for _, item := range items {
				if item.Name != entry.Field {
					kept = append(kept, item)
				}
			}
			items = kept
		}
	}

	return &alignmentdomain.Result{
		AccountNumber: accountNumber,
		DryRun:        true,
		Applied:       false,
		Plan:          plan,
		Rates:         &projected,
		LineItems:     items,
	}, nil
}

// apply commits the plan as one transaction under the account mutation lock.
// Every mutation goes through the same service methods direct API callers
// use; any failure rolls the whole plan back.
func (s *Service) apply(ctx context.Context, accountNumber, author string, plan alignmentdomain.Plan, terms alignmentdomain.ContractTerms) (*alignmentdomain.Result, error) {
	if len(plan.Entries) == 0 {
		return s.result(ctx, accountNumber, plan, true)
	}

	token, ok, err := s.locker.TryLock(ctx, accountNumber, applyLockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ratesdomain.ErrConflict
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), accountNumber, token); err != nil {
			s.log.Warn("account lock release failed",
				zap.String("account_number", accountNumber), zap.Error(err))
		}
	}()

	termItems := make(map[string]alignmentdomain.ContractLineItem, len(terms.LineItems))
	for _, item := range terms.LineItems {
		termItems[item.Name] = item
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := db.WithTx(ctx, tx)

		changes := make(map[ratesdomain.OverrideField]*float64)
		for _, entry := range plan.Entries {
			if entry.Action == alignmentdomain.ActionOverrideRate {
				changes[ratesdomain.OverrideField(entry.Field)] = entry.ContractValue
			}
		}
		if len(changes) > 0 {
			if _, err := s.ratesSvc.SetOverride(txCtx, ratesdomain.SetOverrideRequest{
				AccountNumber: accountNumber,
				Author:        author,
				Changes:       changes,
			}); err != nil {
				return err
			}
		}

		for _, entry := range plan.Entries {
			switch entry.Action {
			case alignmentdomain.ActionAddLineItem:
				term := termItems[entry.Field]
				if _, err := s.lineItemSvc.Add(txCtx, lineitemdomain.AddRequest{
					AccountNumber: accountNumber,
					Author:        author,
					Name:          entry.Field,
					Recurrence:    lineitemdomain.Recurring,
					MonthlyFee:    term.MonthlyFee,
					Description:   term.Description,
				}); err != nil {
					return err
				}
			case alignmentdomain.ActionRemoveLineItem:
				if err := s.lineItemSvc.Remove(txCtx, accountNumber, entry.Field, author); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ratesdomain.ErrConflict) {
			return nil, err
		}
		s.log.Warn("alignment plan rolled back",
			zap.String("account_number", accountNumber),
			zap.Int("entries", len(plan.Entries)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", alignmentdomain.ErrPartialApplyRejected, err)
	}

	s.log.Info("alignment plan applied",
		zap.String("account_number", accountNumber),
		zap.Int("entries", len(plan.Entries)),
		zap.String("author", author))
	return s.result(ctx, accountNumber, plan, true)
}

func (s *Service) result(ctx context.Context, accountNumber string, plan alignmentdomain.Plan, applied bool) (*alignmentdomain.Result, error) {
	effective, err := s.ratesSvc.ResolveAll(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	recurring, err := s.lineItemSvc.ListRecurring(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	return &alignmentdomain.Result{
		AccountNumber: accountNumber,
		DryRun:        false,
		Applied:       applied,
		Plan:          plan,
		Rates:         effective,
		LineItems:     recurring,
	}, nil
}

func ptr(v float64) *float64 { return &v }
