package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	auditdomain "github.com/ruapotato/hivematrix-ledger/internal/audit/domain"
	auditrepo "github.com/ruapotato/hivematrix-ledger/internal/audit/repository"
	auditsvc "github.com/ruapotato/hivematrix-ledger/internal/audit/service"
	companydomain "github.com/ruapotato/hivematrix-ledger/internal/company/domain"
	companyrepo "github.com/ruapotato/hivematrix-ledger/internal/company/repository"
	companysvc "github.com/ruapotato/hivematrix-ledger/internal/company/service"
	"github.com/ruapotato/hivematrix-ledger/internal/config"
	lineitemdomain "github.com/ruapotato/hivematrix-ledger/internal/lineitem/domain"
	lineitemrepo "github.com/ruapotato/hivematrix-ledger/internal/lineitem/repository"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
	planrepo "github.com/ruapotato/hivematrix-ledger/internal/plan/repository"
	plansvc "github.com/ruapotato/hivematrix-ledger/internal/plan/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newService(t *testing.T) (lineitemdomain.Service, auditdomain.Service) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&plandomain.BillingPlan{},
		&companydomain.Company{},
		&lineitemdomain.LineItem{},
		&auditdomain.Record{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zaptest.NewLogger(t)

	holder := &config.BillingConfigHolder{}
	holder.Store(config.DefaultBillingConfig())

	planService := plansvc.New(plansvc.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Repo:  planrepo.Provide(),
	})
	companyService := companysvc.New(companysvc.Params{
		DB:         conn,
		Log:        log,
		GenID:      node,
		Repo:       companyrepo.Provide(),
		PlanSvc:    planService,
		BillingCfg: holder,
	})
	auditService := auditsvc.New(auditsvc.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Repo:  auditrepo.Provide(),
	})
	svc := New(Params{
		DB:         conn,
		Log:        log,
		GenID:      node,
		Repo:       lineitemrepo.Provide(),
		CompanySvc: companyService,
		AuditSvc:   auditService,
	})

	ctx := context.Background()
	_, err = planService.Create(ctx, plandomain.CreateRequest{Name: "Standard"})
	require.NoError(t, err)
	_, err = companyService.Create(ctx, companydomain.CreateRequest{
		AccountNumber: "ACC-100",
		Name:          "Acme Corp",
	})
	require.NoError(t, err)

	return svc, auditService
}

func TestAdd_DuplicateNameReplacesInPlace(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, lineitemdomain.AddRequest{
		AccountNumber: "ACC-100",
		Name:          "Backup Service",
		Recurrence:    lineitemdomain.Recurring,
		MonthlyFee:    200,
	})
	require.NoError(t, err)

	_, err = svc.Add(ctx, lineitemdomain.AddRequest{
		AccountNumber: "ACC-100",
		Name:          "Phone System",
		Recurrence:    lineitemdomain.Recurring,
		MonthlyFee:    75,
	})
	require.NoError(t, err)

	replaced, err := svc.Add(ctx, lineitemdomain.AddRequest{
		AccountNumber: "ACC-100",
		Name:          "Backup Service",
		Recurrence:    lineitemdomain.Recurring,
		MonthlyFee:    250,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, replaced.ID)
	assert.Equal(t, first.Position, replaced.Position)

	items, err := svc.List(ctx, "ACC-100")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Backup Service", items[0].Name)
	assert.Equal(t, 250.0, items[0].MonthlyFee)
}

func TestListRecurring_ExcludesOneTime(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, lineitemdomain.AddRequest{
		AccountNumber: "ACC-100",
		Name:          "Backup Service",
		Recurrence:    lineitemdomain.Recurring,
		MonthlyFee:    200,
	})
	require.NoError(t, err)
	_, err = svc.Add(ctx, lineitemdomain.AddRequest{
		AccountNumber: "ACC-100",
		Name:          "Onboarding Project",
		Recurrence:    lineitemdomain.OneTime,
		OneOffFee:     5000,
	})
	require.NoError(t, err)

	recurring, err := svc.ListRecurring(ctx, "ACC-100")
	require.NoError(t, err)
	require.Len(t, recurring, 1)
	assert.Equal(t, "Backup Service", recurring[0].Name)

	all, err := svc.List(ctx, "ACC-100")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRemove_MissingNameIsNoOp(t *testing.T) {
	svc, auditService := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Remove(ctx, "ACC-100", "Never Added", "alice"))

	// A no-op removal leaves no audit trace.
	records, err := auditService.List(ctx, "ACC-100", 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRemove_DeletesAndAudits(t *testing.T) {
	svc, auditService := newService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, lineitemdomain.AddRequest{
		AccountNumber: "ACC-100",
		Name:          "Backup Service",
		Recurrence:    lineitemdomain.Recurring,
		MonthlyFee:    200,
		Author:        "alice",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "ACC-100", "Backup Service", "alice"))

	items, err := svc.List(ctx, "ACC-100")
	require.NoError(t, err)
	assert.Empty(t, items)

	records, err := auditService.List(ctx, "ACC-100", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "line_item:Backup Service", records[0].Field)
}

func TestAdd_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, lineitemdomain.AddRequest{
		AccountNumber: "ACC-100",
		Name:          "  ",
		Recurrence:    lineitemdomain.Recurring,
	})
	assert.ErrorIs(t, err, lineitemdomain.ErrInvalidName)

	_, err = svc.Add(ctx, lineitemdomain.AddRequest{
		AccountNumber: "ACC-100",
		Name:          "Backup Service",
		Recurrence:    lineitemdomain.Recurrence("weekly"),
	})
	assert.ErrorIs(t, err, lineitemdomain.ErrInvalidRecurrence)

	_, err = svc.Add(ctx, lineitemdomain.AddRequest{
		AccountNumber: "ACC-100",
		Name:          "Backup Service",
		Recurrence:    lineitemdomain.Recurring,
		MonthlyFee:    -1,
	})
	assert.ErrorIs(t, err, lineitemdomain.ErrNegativeFee)
}
