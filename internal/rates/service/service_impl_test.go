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
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
	planrepo "github.com/ruapotato/hivematrix-ledger/internal/plan/repository"
	plansvc "github.com/ruapotato/hivematrix-ledger/internal/plan/service"
	ratesdomain "github.com/ruapotato/hivematrix-ledger/internal/rates/domain"
	ratesrepo "github.com/ruapotato/hivematrix-ledger/internal/rates/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	node       *snowflake.Node
	planSvc    plandomain.Service
	companySvc companydomain.Service
	auditSvc   auditdomain.Service
	ratesSvc   ratesdomain.Service
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
		&ratesdomain.RateOverride{},
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
	ratesService := New(Params{
		DB:         conn,
		Log:        log,
		GenID:      node,
		Repo:       ratesrepo.Provide(),
		PlanRepo:   planrepo.Provide(),
		CompanySvc: companyService,
		AuditSvc:   auditService,
	})

	return &fixture{
		db:         conn,
		node:       node,
		planSvc:    planService,
		companySvc: companyService,
		auditSvc:   auditService,
		ratesSvc:   ratesService,
	}
}

func (f *fixture) seedCompany(t *testing.T, account string) *companydomain.Company {
	t.Helper()
	ctx := context.Background()

	_, err := f.planSvc.Create(ctx, plandomain.CreateRequest{
		Name:                "Standard",
		Term:                "monthly",
		PerUserCost:         25,
		PerWorkstationCost:  5,
		PerServerCost:       100,
		PerVMCost:           50,
		PerSwitchCost:       10,
		PerFirewallCost:     25,
		PerHourCost:         150,
		PrepaidHoursMonthly: 0,
	})
	require.NoError(t, err)

	company, err := f.companySvc.Create(ctx, companydomain.CreateRequest{
		AccountNumber: account,
		Name:          "Acme Corp",
	})
	require.NoError(t, err)
	return company
}

func fptr(v float64) *float64 { return &v }

func TestResolveAll_PlanDefaults(t *testing.T) {
	f := newFixture(t)
	f.seedCompany(t, "ACC-100")
	ctx := context.Background()

	effective, err := f.ratesSvc.ResolveAll(ctx, "ACC-100")
	require.NoError(t, err)

	assert.Equal(t, "Standard", effective.PlanName)
	assert.Equal(t, 25.0, effective.Rate(plandomain.UnitUser))
	assert.Equal(t, 150.0, effective.Rate(plandomain.UnitHour))
	assert.Empty(t, effective.Overridden)
}

func TestResolveAll_UnknownAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ratesSvc.ResolveAll(ctx, "NOPE")
	assert.ErrorIs(t, err, companydomain.ErrNotFound)
}

func TestSetOverride_PartialLeavesOtherKeys(t *testing.T) {
	f := newFixture(t)
	f.seedCompany(t, "ACC-100")
	ctx := context.Background()

	_, err := f.ratesSvc.SetOverride(ctx, ratesdomain.SetOverrideRequest{
		AccountNumber: "ACC-100",
		Author:        "alice",
		Changes: map[ratesdomain.OverrideField]*float64{
			ratesdomain.FieldPerUserCost: fptr(30),
		},
	})
	require.NoError(t, err)

	_, err = f.ratesSvc.SetOverride(ctx, ratesdomain.SetOverrideRequest{
		AccountNumber: "ACC-100",
		Author:        "alice",
		Changes: map[ratesdomain.OverrideField]*float64{
			ratesdomain.FieldPerServerCost: fptr(120),
		},
	})
	require.NoError(t, err)

	effective, err := f.ratesSvc.ResolveAll(ctx, "ACC-100")
	require.NoError(t, err)
	assert.Equal(t, 30.0, effective.Rate(plandomain.UnitUser))
	assert.Equal(t, 120.0, effective.Rate(plandomain.UnitServer))
	assert.True(t, effective.Overridden[plandomain.UnitUser])
	assert.True(t, effective.Overridden[plandomain.UnitServer])
}

func TestSetOverride_NilValueRevertsToPlanDefault(t *testing.T) {
	f := newFixture(t)
	f.seedCompany(t, "ACC-100")
	ctx := context.Background()

	_, err := f.ratesSvc.SetOverride(ctx, ratesdomain.SetOverrideRequest{
		AccountNumber: "ACC-100",
		Author:        "alice",
		Changes: map[ratesdomain.OverrideField]*float64{
			ratesdomain.FieldPerUserCost:   fptr(30),
			ratesdomain.FieldPerServerCost: fptr(120),
		},
	})
	require.NoError(t, err)

	// Explicit null unsets per_user_cost; per_server_cost is untouched.
	_, err = f.ratesSvc.SetOverride(ctx, ratesdomain.SetOverrideRequest{
		AccountNumber: "ACC-100",
		Author:        "alice",
		Changes: map[ratesdomain.OverrideField]*float64{
			ratesdomain.FieldPerUserCost: nil,
		},
	})
	require.NoError(t, err)

	effective, err := f.ratesSvc.ResolveAll(ctx, "ACC-100")
	require.NoError(t, err)
	assert.Equal(t, 25.0, effective.Rate(plandomain.UnitUser))
	assert.Equal(t, 120.0, effective.Rate(plandomain.UnitServer))
	assert.False(t, effective.Overridden[plandomain.UnitUser])
}

func TestSetOverride_NegativeRateRejected(t *testing.T) {
	f := newFixture(t)
	f.seedCompany(t, "ACC-100")
	ctx := context.Background()

	_, err := f.ratesSvc.SetOverride(ctx, ratesdomain.SetOverrideRequest{
		AccountNumber: "ACC-100",
		Author:        "alice",
		Changes: map[ratesdomain.OverrideField]*float64{
			ratesdomain.FieldPerUserCost: fptr(-1),
		},
	})
	assert.ErrorIs(t, err, ratesdomain.ErrNegativeRate)
}

func TestSetOverride_EmptyChangesRejected(t *testing.T) {
	f := newFixture(t)
	f.seedCompany(t, "ACC-100")

	_, err := f.ratesSvc.SetOverride(context.Background(), ratesdomain.SetOverrideRequest{
		AccountNumber: "ACC-100",
		Author:        "alice",
		Changes:       map[ratesdomain.OverrideField]*float64{},
	})
	assert.ErrorIs(t, err, ratesdomain.ErrEmptyChanges)
}

func TestSetOverride_StaleVersionConflicts(t *testing.T) {
	f := newFixture(t)
	f.seedCompany(t, "ACC-100")
	ctx := context.Background()

	first, err := f.ratesSvc.SetOverride(ctx, ratesdomain.SetOverrideRequest{
		AccountNumber: "ACC-100",
		Author:        "alice",
		Changes: map[ratesdomain.OverrideField]*float64{
			ratesdomain.FieldPerUserCost: fptr(30),
		},
	})
	require.NoError(t, err)

	// A second writer using the same base version wins once.
	_, err = f.ratesSvc.SetOverride(ctx, ratesdomain.SetOverrideRequest{
		AccountNumber:   "ACC-100",
		Author:          "bob",
		Changes:         map[ratesdomain.OverrideField]*float64{ratesdomain.FieldPerUserCost: fptr(35)},
		ExpectedVersion: &first.Version,
	})
	require.NoError(t, err)

	// The loser re-using the stale version must get a conflict.
	_, err = f.ratesSvc.SetOverride(ctx, ratesdomain.SetOverrideRequest{
		AccountNumber:   "ACC-100",
		Author:          "carol",
		Changes:         map[ratesdomain.OverrideField]*float64{ratesdomain.FieldPerUserCost: fptr(40)},
		ExpectedVersion: &first.Version,
	})
	assert.ErrorIs(t, err, ratesdomain.ErrConflict)
}

func TestSetOverride_WritesAuditTrail(t *testing.T) {
	f := newFixture(t)
	f.seedCompany(t, "ACC-100")
	ctx := context.Background()

	_, err := f.ratesSvc.SetOverride(ctx, ratesdomain.SetOverrideRequest{
		AccountNumber: "ACC-100",
		Author:        "alice",
		Changes: map[ratesdomain.OverrideField]*float64{
			ratesdomain.FieldPerUserCost: fptr(30),
		},
	})
	require.NoError(t, err)

	records, err := f.auditSvc.List(ctx, "ACC-100", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "per_user_cost", records[0].Field)
	assert.Nil(t, records[0].OldValue)
	require.NotNil(t, records[0].NewValue)
	assert.Equal(t, 30.0, *records[0].NewValue)
	assert.Equal(t, "alice", records[0].Author)
}

func TestClearOverrides_RevertsEverything(t *testing.T) {
	f := newFixture(t)
	f.seedCompany(t, "ACC-100")
	ctx := context.Background()

	_, err := f.ratesSvc.SetOverride(ctx, ratesdomain.SetOverrideRequest{
		AccountNumber: "ACC-100",
		Author:        "alice",
		Changes: map[ratesdomain.OverrideField]*float64{
			ratesdomain.FieldPerUserCost:         fptr(30),
			ratesdomain.FieldPrepaidHoursMonthly: fptr(4),
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.ratesSvc.ClearOverrides(ctx, "ACC-100", "alice"))

	effective, err := f.ratesSvc.ResolveAll(ctx, "ACC-100")
	require.NoError(t, err)
	assert.Equal(t, 25.0, effective.Rate(plandomain.UnitUser))
	assert.Equal(t, 0.0, effective.PrepaidHoursMonthly)

	override, err := f.ratesSvc.GetOverride(ctx, "ACC-100")
	require.NoError(t, err)
	assert.Nil(t, override)
}

func TestResolve_SingleKind(t *testing.T) {
	f := newFixture(t)
	f.seedCompany(t, "ACC-100")
	ctx := context.Background()

	rate, err := f.ratesSvc.Resolve(ctx, "ACC-100", plandomain.UnitWorkstation)
	require.NoError(t, err)
	assert.Equal(t, 5.0, rate)

	_, err = f.ratesSvc.Resolve(ctx, "ACC-100", plandomain.UnitKind("toaster"))
	assert.ErrorIs(t, err, plandomain.ErrInvalidUnitKind)
}
