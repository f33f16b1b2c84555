package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	companydomain "github.com/ruapotato/hivematrix-ledger/internal/company/domain"
	companyrepo "github.com/ruapotato/hivematrix-ledger/internal/company/repository"
	"github.com/ruapotato/hivematrix-ledger/internal/config"
	plandomain "github.com/ruapotato/hivematrix-ledger/internal/plan/domain"
	planrepo "github.com/ruapotato/hivematrix-ledger/internal/plan/repository"
	plansvc "github.com/ruapotato/hivematrix-ledger/internal/plan/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newService(t *testing.T) companydomain.Service {
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

	planService := plansvc.New(plansvc.Params{DB: conn, Log: log, GenID: node, Repo: planrepo.Provide()})
	_, err = planService.Create(context.Background(), plandomain.CreateRequest{
		Name:        "Standard",
		Term:        "monthly",
		PerUserCost: 25,
	})
	require.NoError(t, err)

	return New(Params{
		DB: conn, Log: log, GenID: node,
		Repo:       companyrepo.Provide(),
		PlanSvc:    planService,
		BillingCfg: holder,
	})
}

func TestCreate_DuplicateAccountNumber(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, companydomain.CreateRequest{
		AccountNumber: "ACC-100",
		Name:          "Acme Corp",
		PlanName:      "Standard",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, companydomain.CreateRequest{
		AccountNumber: "ACC-100",
		Name:          "Acme Again",
		PlanName:      "Standard",
	})
	assert.ErrorIs(t, err, companydomain.ErrDuplicateAccount)
}

func TestCreate_DefaultPlanWhenUnspecified(t *testing.T) {
	svc := newService(t)

	created, err := svc.Create(context.Background(), companydomain.CreateRequest{
		AccountNumber: "ACC-100",
		Name:          "Acme Corp",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.BillingPlanID)
}

func TestCreate_UnknownPlan(t *testing.T) {
	svc := newService(t)

	_, err := svc.Create(context.Background(), companydomain.CreateRequest{
		AccountNumber: "ACC-100",
		Name:          "Acme Corp",
		PlanName:      "Platinum",
	})
	assert.ErrorIs(t, err, plandomain.ErrNotFound)
}

func TestCreate_MissingAccountNumber(t *testing.T) {
	svc := newService(t)

	_, err := svc.Create(context.Background(), companydomain.CreateRequest{Name: "Acme"})
	assert.ErrorIs(t, err, companydomain.ErrInvalidAccount)
}

func TestManualAssets_AddListRemove(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, companydomain.CreateRequest{
		AccountNumber: "ACC-100",
		Name:          "Acme Corp",
		PlanName:      "Standard",
	})
	require.NoError(t, err)

	asset, err := svc.AddManualAsset(ctx, companydomain.AddManualAssetRequest{
		AccountNumber: "ACC-100",
		Hostname:      "db-spare-01",
		Kind:          "server",
	})
	require.NoError(t, err)
	assert.True(t, asset.Billable, "billable defaults to true")

	nonBillable := false
	_, err = svc.AddManualAsset(ctx, companydomain.AddManualAssetRequest{
		AccountNumber: "ACC-100",
		Hostname:      "lab-ws-09",
		Kind:          "workstation",
		Billable:      &nonBillable,
	})
	require.NoError(t, err)

	assets, err := svc.ListManualAssets(ctx, "ACC-100")
	require.NoError(t, err)
	require.Len(t, assets, 2)

	require.NoError(t, svc.RemoveManualAsset(ctx, "ACC-100", asset.ID.String()))
	assets, err = svc.ListManualAssets(ctx, "ACC-100")
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "lab-ws-09", assets[0].Hostname)
}

func TestAddManualAsset_UnknownKind(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, companydomain.CreateRequest{
		AccountNumber: "ACC-100",
		Name:          "Acme Corp",
		PlanName:      "Standard",
	})
	require.NoError(t, err)

	_, err = svc.AddManualAsset(ctx, companydomain.AddManualAssetRequest{
		AccountNumber: "ACC-100",
		Hostname:      "mystery-box",
		Kind:          "toaster",
	})
	assert.ErrorIs(t, err, plandomain.ErrInvalidUnitKind)
}

func TestManualUsers_AddAndRemove(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, companydomain.CreateRequest{
		AccountNumber: "ACC-100",
		Name:          "Acme Corp",
		PlanName:      "Standard",
	})
	require.NoError(t, err)

	user, err := svc.AddManualUser(ctx, companydomain.AddManualUserRequest{
		AccountNumber: "ACC-100",
		FullName:      "Jordan Blake",
	})
	require.NoError(t, err)
	assert.True(t, user.Billable)

	require.NoError(t, svc.RemoveManualUser(ctx, "ACC-100", user.ID.String()))
	users, err := svc.ListManualUsers(ctx, "ACC-100")
	require.NoError(t, err)
	assert.Empty(t, users)
}
