package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/ruapotato/hivematrix-ledger/internal/company/domain"
	"github.com/ruapotato/hivematrix-ledger/internal/config"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
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
	Repo       companydomain.Repository
	PlanSvc    plandomain.Service
	BillingCfg *config.BillingConfigHolder
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       companydomain.Repository
	planSvc    plandomain.Service
	billingCfg *config.BillingConfigHolder
}

func New(p Params) companydomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("company.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		planSvc:    p.PlanSvc,
		billingCfg: p.BillingCfg,
	}
}

func (s *Service) Create(ctx context.Context, req companydomain.CreateRequest) (*companydomain.Company, error) {
	account := strings.TrimSpace(req.AccountNumber)
	if account == "" {
		return nil, companydomain.ErrInvalidAccount
	}

	planName := strings.TrimSpace(req.PlanName)
	if planName == "" {
		planName = s.billingCfg.Current().DefaultPlanName
	}
	plan, err := s.planSvc.GetByName(ctx, planName)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entity := &companydomain.Company{
		ID:            s.genID.Generate(),
		AccountNumber: account,
		Name:          strings.TrimSpace(req.Name),
		BillingPlanID: plan.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, companydomain.ErrDuplicateAccount
		}
		return nil, err
	}

	s.log.Info("company created",
		zap.String("account_number", account),
		zap.String("plan", planName),
	)
	return entity, nil
}

func (s *Service) Get(ctx context.Context, accountNumber string) (*companydomain.Company, error) {
	c, err := s.repo.FindByAccountNumber(ctx, db.FromContext(ctx, s.db), strings.TrimSpace(accountNumber))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, companydomain.ErrNotFound
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]companydomain.Company, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) AddManualAsset(ctx context.Context, req companydomain.AddManualAssetRequest) (*companydomain.ManualAsset, error) {
	c, err := s.Get(ctx, req.AccountNumber)
	if err != nil {
		return nil, err
	}

	hostname := strings.TrimSpace(req.Hostname)
	if hostname == "" {
		return nil, companydomain.ErrInvalidHostname
	}
	kind, err := plandomain.ParseUnitKind(strings.TrimSpace(req.Kind))
	if err != nil {
		return nil, err
	}

	billable := true
	if req.Billable != nil {
		billable = *req.Billable
	}

	entity := &companydomain.ManualAsset{
		ID:        s.genID.Generate(),
		CompanyID: c.ID,
		Hostname:  hostname,
		Kind:      kind,
		Billable:  billable,
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.InsertManualAsset(ctx, s.db, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *Service) ListManualAssets(ctx context.Context, accountNumber string) ([]companydomain.ManualAsset, error) {
	c, err := s.Get(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	return s.repo.ListManualAssets(ctx, db.FromContext(ctx, s.db), c.ID)
}

func (s *Service) RemoveManualAsset(ctx context.Context, accountNumber, assetID string) error {
	c, err := s.Get(ctx, accountNumber)
	if err != nil {
		return err
	}
	parsed, err := snowflake.ParseString(strings.TrimSpace(assetID))
	if err != nil {
		// Unknown id, removal is idempotent.
		return nil
	}
	return s.repo.DeleteManualAsset(ctx, s.db, c.ID, parsed)
}

func (s *Service) AddManualUser(ctx context.Context, req companydomain.AddManualUserRequest) (*companydomain.ManualUser, error) {
	c, err := s.Get(ctx, req.AccountNumber)
	if err != nil {
		return nil, err
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, companydomain.ErrInvalidFullName
	}

	billable := true
	if req.Billable != nil {
		billable = *req.Billable
	}

	entity := &companydomain.ManualUser{
		ID:        s.genID.Generate(),
		CompanyID: c.ID,
		FullName:  fullName,
		Billable:  billable,
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.InsertManualUser(ctx, s.db, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *Service) ListManualUsers(ctx context.Context, accountNumber string) ([]companydomain.ManualUser, error) {
	c, err := s.Get(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	return s.repo.ListManualUsers(ctx, db.FromContext(ctx, s.db), c.ID)
}

func (s *Service) RemoveManualUser(ctx context.Context, accountNumber, userID string) error {
	c, err := s.Get(ctx, accountNumber)
	if err != nil {
		return err
	}
	parsed, err := snowflake.ParseString(strings.TrimSpace(userID))
	if err != nil {
		return nil
	}
	return s.repo.DeleteManualUser(ctx, s.db, c.ID, parsed)
}
