package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/ruapotato/hivematrix-ledger/internal/audit/domain"
	companydomain "github.com/ruapotato/hivematrix-ledger/internal/company/domain"
	lineitemdomain "github.com/ruapotato/hivematrix-ledger/internal/lineitem/domain"
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
	Repo       lineitemdomain.Repository
	CompanySvc companydomain.Service
	AuditSvc   auditdomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       lineitemdomain.Repository
	companySvc companydomain.Service
	auditSvc   auditdomain.Service
}

func New(p Params) lineitemdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("lineitem.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		companySvc: p.CompanySvc,
		auditSvc:   p.AuditSvc,
	}
}

func (s *Service) Add(ctx context.Context, req lineitemdomain.AddRequest) (*lineitemdomain.LineItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, lineitemdomain.ErrInvalidName
	}
	if _, err := lineitemdomain.ParseRecurrence(string(req.Recurrence)); err != nil {
		return nil, err
	}
	if req.MonthlyFee < 0 || req.OneOffFee < 0 {
		return nil, lineitemdomain.ErrNegativeFee
	}

	company, err := s.companySvc.Get(ctx, req.AccountNumber)
	if err != nil {
		return nil, err
	}

	if tx := db.FromContext(ctx, nil); tx != nil {
		return s.addTx(ctx, tx, company, name, req)
	}

	var out *lineitemdomain.LineItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := db.WithTx(ctx, tx)
		var txErr error
		out, txErr = s.addTx(txCtx, tx, company, name, req)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) addTx(ctx context.Context, tx *gorm.DB, company *companydomain.Company, name string, req lineitemdomain.AddRequest) (*lineitemdomain.LineItem, error) {
	author := strings.TrimSpace(req.Author)
	if author == "" {
		author = "system"
	}
	now := time.Now().UTC()

	existing, err := s.repo.FindByName(ctx, tx, company.ID, name)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		oldFee := existing.MonthlyFee
		existing.Recurrence = req.Recurrence
		existing.MonthlyFee = req.MonthlyFee
		existing.OneOffFee = req.OneOffFee
		existing.Description = strings.TrimSpace(req.Description)
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, tx, existing); err != nil {
			return nil, err
		}
		if err := s.recordItem(ctx, company.AccountNumber, name, &oldFee, &existing.MonthlyFee, author, existing.Recurrence); err != nil {
			return nil, err
		}
		return existing, nil
	}

	position, err := s.repo.NextPosition(ctx, tx, company.ID)
	if err != nil {
		return nil, err
	}
	item := &lineitemdomain.LineItem{
		ID:          s.genID.Generate(),
		CompanyID:   company.ID,
		Name:        name,
		Recurrence:  req.Recurrence,
		MonthlyFee:  req.MonthlyFee,
		OneOffFee:   req.OneOffFee,
		Description: strings.TrimSpace(req.Description),
		Position:    position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, tx, item); err != nil {
		return nil, err
	}
	if err := s.recordItem(ctx, company.AccountNumber, name, nil, &item.MonthlyFee, author, item.Recurrence); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Remove(ctx context.Context, accountNumber, name, author string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return lineitemdomain.ErrInvalidName
	}
	company, err := s.companySvc.Get(ctx, accountNumber)
	if err != nil {
		return err
	}
	if strings.TrimSpace(author) == "" {
		author = "system"
	}

	if tx := db.FromContext(ctx, nil); tx != nil {
		return s.removeTx(ctx, tx, company, name, author)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.removeTx(db.WithTx(ctx, tx), tx, company, name, author)
	})
}

func (s *Service) removeTx(ctx context.Context, tx *gorm.DB, company *companydomain.Company, name, author string) error {
	existing, err := s.repo.FindByName(ctx, tx, company.ID, name)
	if err != nil {
		return err
	}
	if existing == nil {
		// Idempotent retries treat a missing name as already removed.
		return nil
	}
	if _, err := s.repo.DeleteByName(ctx, tx, company.ID, name); err != nil {
		return err
	}
	return s.recordItem(ctx, company.AccountNumber, name, &existing.MonthlyFee, nil, author, existing.Recurrence)
}

func (s *Service) ListRecurring(ctx context.Context, accountNumber string) ([]lineitemdomain.LineItem, error) {
	items, err := s.List(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	recurring := make([]lineitemdomain.LineItem, 0, len(items))
	for _, item := range items {
		if item.Recurrence == lineitemdomain.Recurring {
			recurring = append(recurring, item)
		}
	}
	return recurring, nil
}

func (s *Service) List(ctx context.Context, accountNumber string) ([]lineitemdomain.LineItem, error) {
	company, err := s.companySvc.Get(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, db.FromContext(ctx, s.db), company.ID)
}

func (s *Service) recordItem(ctx context.Context, accountNumber, name string, oldFee, newFee *float64, author string, recurrence lineitemdomain.Recurrence) error {
	return s.auditSvc.Record(ctx, accountNumber, "line_item:"+name, oldFee, newFee, author, map[string]any{
		"recurrence": string(recurrence),
	})
}
