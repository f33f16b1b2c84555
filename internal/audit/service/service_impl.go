package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/ruapotato/hivematrix-ledger/internal/audit/domain"
	"github.com/ruapotato/hivematrix-ledger/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  auditdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  auditdomain.Repository
}

func New(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, accountNumber, field string, oldValue, newValue *float64, author string, metadata map[string]any) error {
	rec := &auditdomain.Record{
		ID:            s.genID.Generate(),
		AccountNumber: accountNumber,
		Field:         field,
		OldValue:      oldValue,
		NewValue:      newValue,
		Author:        author,
		CreatedAt:     time.Now().UTC(),
	}
	if metadata != nil {
		rec.Metadata = datatypes.JSONMap(metadata)
	}
	return s.repo.Insert(ctx, db.FromContext(ctx, s.db), rec)
}

func (s *Service) List(ctx context.Context, accountNumber string, limit int) ([]auditdomain.Record, error) {
	return s.repo.ListByAccount(ctx, s.db, accountNumber, limit)
}
