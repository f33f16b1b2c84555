package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
	"github.com/ruapotato/hivematrix-ledger/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  plandomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  plandomain.Repository
}

func New(p Params) plandomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("plan.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req plandomain.CreateRequest) (*plandomain.BillingPlan, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, plandomain.ErrInvalidName
	}
	for _, rate := range []float64{
		req.PerUserCost, req.PerWorkstationCost, req.PerServerCost, req.PerVMCost,
		req.PerSwitchCost, req.PerFirewallCost, req.PerHourCost, req.PrepaidHoursMonthly,
	} {
		if rate < 0 {
			return nil, plandomain.ErrInvalidRate
		}
	}

	now := time.Now().UTC()
	entity := &plandomain.BillingPlan{
		ID:                  s.genID.Generate(),
		Name:                name,
		Term:                strings.TrimSpace(req.Term),
		PerUserCost:         req.PerUserCost,
		PerWorkstationCost:  req.PerWorkstationCost,
		PerServerCost:       req.PerServerCost,
		PerVMCost:           req.PerVMCost,
		PerSwitchCost:       req.PerSwitchCost,
		PerFirewallCost:     req.PerFirewallCost,
		PerHourCost:         req.PerHourCost,
		PrepaidHoursMonthly: req.PrepaidHoursMonthly,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, plandomain.ErrDuplicateName
		}
		return nil, err
	}

	s.log.Info("billing plan created", zap.String("name", name), zap.String("id", entity.ID.String()))
	return entity, nil
}

func (s *Service) List(ctx context.Context) ([]plandomain.BillingPlan, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Get(ctx context.Context, id string) (*plandomain.BillingPlan, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, plandomain.ErrNotFound
	}
	p, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, plandomain.ErrNotFound
	}
	return p, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (*plandomain.BillingPlan, error) {
	p, err := s.repo.FindByName(ctx, s.db, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, plandomain.ErrNotFound
	}
	return p, nil
}
