package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	companydomain "github.com/ruapotato/hivematrix-ledger/internal/company/domain"
	companyrepo "github.com/ruapotato/hivematrix-ledger/internal/company/repository"
	companysvc "github.com/ruapotato/hivematrix-ledger/internal/company/service"
	"github.com/ruapotato/hivematrix-ledger/internal/config"
	"github.com/ruapotato/hivematrix-ledger/internal/inventory"
	inventorydomain "github.com/ruapotato/hivematrix-ledger/internal/inventory/domain"
	"github.com/ruapotato/hivematrix-ledger/internal/period"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
	planrepo "github.com/ruapotato/hivematrix-ledger/internal/plan/repository"
	plansvc "github.com/ruapotato/hivematrix-ledger/internal/plan/service"
	quantitydomain "github.com/ruapotato/hivematrix-ledger/internal/quantity/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	db          *gorm.DB
	provider    *inventory.StaticProvider
	companySvc  companydomain.Service
	quantitySvc quantitydomain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&plandomain.BillingPlan{},
		&companydomain.Company{},
		&companydomain.ManualAsset{},
		&companydomain.ManualUser{},
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

	ctx := context.Background()
	_, err = planService.Create(ctx, plandomain.CreateRequest{Name: "Standard"})
	require.NoError(t, err)
	_, err = companyService.Create(ctx, companydomain.CreateRequest{
		AccountNumber: "ACC-100",
		Name:          "Acme Corp",
	})
	require.NoError(t, err)

	provider := inventory.NewStaticProvider()
	quantityService := New(Params{
		Log:        log,
		Inventory:  provider,
		CompanySvc: companyService,
	})

	return &fixture{
		db:          conn,
		provider:    provider,
		companySvc:  companyService,
		quantitySvc: quantityService,
	}
}

func TestAggregate_ReportedPlusManual(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := period.New(2026, 8)

	f.provider.SetCounts("ACC-100", p, inventorydomain.Counts{
		plandomain.UnitWorkstation: 40,
		plandomain.UnitServer:      3,
	})

	_, err := f.companySvc.AddManualAsset(ctx, companydomain.AddManualAssetRequest{
		AccountNumber: "ACC-100",
		Hostname:      "legacy-nas-01",
		Kind:          "server",
	})
	require.NoError(t, err)

	notBillable := false
	_, err = f.companySvc.AddManualAsset(ctx, companydomain.AddManualAssetRequest{
		AccountNumber: "ACC-100",
		Hostname:      "spare-ws-99",
		Kind:          "workstation",
		Billable:      &notBillable,
	})
	require.NoError(t, err)

	_, err = f.companySvc.AddManualUser(ctx, companydomain.AddManualUserRequest{
		AccountNumber: "ACC-100",
		FullName:      "Pat Contractor",
	})
	require.NoError(t, err)

	q, err := f.quantitySvc.Aggregate(ctx, "ACC-100", p)
	require.NoError(t, err)

	assert.Equal(t, 40, q.Reported[plandomain.UnitWorkstation])
	assert.Equal(t, 40, q.Count(plandomain.UnitWorkstation)) // non-billable excluded
	assert.Equal(t, 4, q.Count(plandomain.UnitServer))
	assert.Equal(t, 1, q.Count(plandomain.UnitUser))
	assert.Equal(t, 0, q.Count(plandomain.UnitFirewall))
}

func TestAggregate_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := period.New(2026, 8)

	f.provider.SetCounts("ACC-100", p, inventorydomain.Counts{
		plandomain.UnitUser: 12,
	})

	first, err := f.quantitySvc.Aggregate(ctx, "ACC-100", p)
	require.NoError(t, err)
	second, err := f.quantitySvc.Aggregate(ctx, "ACC-100", p)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregate_UpstreamUnavailable(t *testing.T) {
	f := newFixture(t)
	f.provider.SetDown(true)
	p, _ := period.New(2026, 8)

	_, err := f.quantitySvc.Aggregate(context.Background(), "ACC-100", p)
	assert.ErrorIs(t, err, inventorydomain.ErrUnavailable)
}

func TestAggregate_UnknownAccount(t *testing.T) {
	f := newFixture(t)
	p, _ := period.New(2026, 8)

	_, err := f.quantitySvc.Aggregate(context.Background(), "NOPE", p)
	assert.ErrorIs(t, err, companydomain.ErrNotFound)
}
