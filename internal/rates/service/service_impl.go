package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/ruapotato/hivematrix-ledger/internal/audit/domain"
	companydomain "github.com/ruapotato/hivematrix-ledger/internal/company/domain"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
	ratesdomain "github.com/ruapotato/hivematrix-ledger/internal/rates/domain"
	"github.com/ruapotato/hivematrix-ledger/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       ratesdomain.Repository
	PlanRepo   plandomain.Repository
	CompanySvc companydomain.Service
	AuditSvc   auditdomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       ratesdomain.Repository
	planRepo   plandomain.Repository
	companySvc companydomain.Service
	auditSvc   auditdomain.Service
}

func New(p Params) ratesdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("rates.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		planRepo:   p.PlanRepo,
		companySvc: p.CompanySvc,
		auditSvc:   p.AuditSvc,
	}
}

func (s *Service) Resolve(ctx context.Context, accountNumber string, kind plandomain.UnitKind) (float64, error) {
	if _, err := plandomain.ParseUnitKind(string(kind)); err != nil {
		return 0, err
	}
	effective, err := s.ResolveAll(ctx, accountNumber)
	if err != nil {
		return 0, err
	}
	return effective.Rate(kind), nil
}

func (s *Service) ResolveAll(ctx context.Context, accountNumber string) (*ratesdomain.EffectiveRates, error) {
	company, err := s.companySvc.Get(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	handle := db.FromContext(ctx, s.db)
	plan, err := s.planRepo.FindByID(ctx, handle, company.BillingPlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, plandomain.ErrNotFound
	}

	// An unreadable override record fails the whole resolution; falling
	// back to plan defaults here would silently under-bill.
	override, err := s.repo.FindByCompanyID(ctx, handle, company.ID)
	if err != nil {
		return nil, err
	}

	effective := &ratesdomain.EffectiveRates{
		AccountNumber:       company.AccountNumber,
		PlanID:              plan.ID,
		PlanName:            plan.Name,
		Rates:               make(map[plandomain.UnitKind]float64, len(plandomain.UnitKinds())),
		PrepaidHoursMonthly: plan.PrepaidHoursMonthly,
		Overridden:          make(map[plandomain.UnitKind]bool),
	}
	for _, kind := range plandomain.UnitKinds() {
		rate := plan.RateFor(kind)
		if v := override.Value(ratesdomain.FieldForKind(kind)); v != nil {
			rate = *v
			effective.Overridden[kind] = true
		}
		effective.Rates[kind] = rate
	}
	if v := override.Value(ratesdomain.FieldPrepaidHoursMonthly); v != nil {
		effective.PrepaidHoursMonthly = *v
	}
	return effective, nil
}

func (s *Service) GetOverride(ctx context.Context, accountNumber string) (*ratesdomain.RateOverride, error) {
	company, err := s.companySvc.Get(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByCompanyID(ctx, db.FromContext(ctx, s.db), company.ID)
}

func (s *Service) SetOverride(ctx context.Context, req ratesdomain.SetOverrideRequest) (*ratesdomain.RateOverride, error) {
	if len(req.Changes) == 0 {
		return nil, ratesdomain.ErrEmptyChanges
	}
	for field, value := range req.Changes {
		if _, err := ratesdomain.ParseOverrideField(string(field)); err != nil {
			return nil, err
		}
		if value != nil && *value < 0 {
			return nil, ratesdomain.ErrNegativeRate
		}
	}

	company, err := s.companySvc.Get(ctx, req.AccountNumber)
	if err != nil {
		return nil, err
	}

	// Reuse a caller-opened transaction so alignment applies through the
	// same path API callers use.
	if tx := db.FromContext(ctx, nil); tx != nil {
		return s.setOverrideTx(ctx, tx, company, req)
	}

	var out *ratesdomain.RateOverride
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := db.WithTx(ctx, tx)
		var txErr error
		out, txErr = s.setOverrideTx(txCtx, tx, company, req)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) setOverrideTx(ctx context.Context, tx *gorm.DB, company *companydomain.Company, req ratesdomain.SetOverrideRequest) (*ratesdomain.RateOverride, error) {
	author := strings.TrimSpace(req.Author)
	if author == "" {
		author = "system"
	}
	now := time.Now().UTC()

	override, err := s.repo.FindByCompanyID(ctx, tx, company.ID)
	if err != nil {
		return nil, err
	}

	if override == nil {
		if req.ExpectedVersion != nil && *req.ExpectedVersion != 0 {
			return nil, ratesdomain.ErrConflict
		}
		override = &ratesdomain.RateOverride{
			ID:        s.genID.Generate(),
			CompanyID: company.ID,
			Version:   1,
			UpdatedBy: author,
			CreatedAt: now,
			UpdatedAt: now,
		}
		for field, value := range req.Changes {
			override.Set(field, value)
		}
		if err := s.repo.Insert(ctx, tx, override); err != nil {
			return nil, err
		}
		return override, s.recordChanges(ctx, company.AccountNumber, nil, req.Changes, author)
	}

	if req.ExpectedVersion != nil && *req.ExpectedVersion != override.Version {
		return nil, ratesdomain.ErrConflict
	}

	prior := *override
	for field, value := range req.Changes {
		override.Set(field, value)
	}
	currentVersion := override.Version
	override.Version = currentVersion + 1
	override.UpdatedBy = author
	override.UpdatedAt = now

	updated, err := s.repo.UpdateVersioned(ctx, tx, override, currentVersion)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ratesdomain.ErrConflict
	}
	return override, s.recordChanges(ctx, company.AccountNumber, &prior, req.Changes, author)
}

func (s *Service) recordChanges(ctx context.Context, accountNumber string, prior *ratesdomain.RateOverride, changes map[ratesdomain.OverrideField]*float64, author string) error {
	for field, value := range changes {
		var old *float64
		if prior != nil {
			old = prior.Value(field)
		}
		if err := s.auditSvc.Record(ctx, accountNumber, string(field), old, value, author, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ClearOverrides(ctx context.Context, accountNumber, author string) error {
	company, err := s.companySvc.Get(ctx, accountNumber)
	if err != nil {
		return err
	}
	if strings.TrimSpace(author) == "" {
		author = "system"
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := db.WithTx(ctx, tx)
		override, err := s.repo.FindByCompanyID(txCtx, tx, company.ID)
		if err != nil {
			return err
		}
		if override == nil {
			return nil
		}
		for _, field := range ratesdomain.OverrideFields() {
			if old := override.Value(field); old != nil {
				if err := s.auditSvc.Record(txCtx, company.AccountNumber, string(field), old, nil, author, nil); err != nil {
					return err
				}
			}
		}
		return s.repo.DeleteByCompanyID(txCtx, tx, company.ID)
	})
}
