package service

import (
	"context"
	"errors"
	"testing"
	"time"

	plandomain "github.com/armoniahq/armonia/internal/plan/domain"
	tenantdomain "github.com/armoniahq/armonia/internal/tenant/domain"
	"github.com/armoniahq/armonia/internal/tenant/store"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRegistry struct {
	complexes []tenantdomain.Complex
	err       error
}

func (f *fakeRegistry) Insert(ctx context.Context, db *gorm.DB, c *tenantdomain.Complex) error {
	return errors.New("not implemented")
}

func (f *fakeRegistry) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*tenantdomain.Complex, error) {
	return nil, nil
}

func (f *fakeRegistry) FindBySchemaName(ctx context.Context, db *gorm.DB, schemaName string) (*tenantdomain.Complex, error) {
	return nil, nil
}

func (f *fakeRegistry) List(ctx context.Context, db *gorm.DB) ([]tenantdomain.Complex, error) {
	return f.complexes, f.err
}

func (f *fakeRegistry) ListActive(ctx context.Context, db *gorm.DB) ([]tenantdomain.Complex, error) {
	return f.complexes, f.err
}

func (f *fakeRegistry) SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) error {
	return errors.New("not implemented")
}

type fakePlanRepo struct {
	subscriptions []plandomain.ActiveSubscription
	byPlan        []plandomain.PlanComplexCount
	err           error
}

func (f *fakePlanRepo) InsertPlan(ctx context.Context, db *gorm.DB, p *plandomain.Plan) error {
	return errors.New("not implemented")
}

func (f *fakePlanRepo) ListPlans(ctx context.Context, db *gorm.DB) ([]plandomain.Plan, error) {
	return nil, nil
}

func (f *fakePlanRepo) InsertSubscription(ctx context.Context, db *gorm.DB, sub *plandomain.Subscription) error {
	return errors.New("not implemented")
}

func (f *fakePlanRepo) ListActiveSubscriptions(ctx context.Context, db *gorm.DB) ([]plandomain.ActiveSubscription, error) {
	return f.subscriptions, f.err
}

func (f *fakePlanRepo) CountActiveComplexesByPlan(ctx context.Context, db *gorm.DB) ([]plandomain.PlanComplexCount, error) {
	return f.byPlan, f.err
}

type fakeStore struct {
	counts map[string]int64
	err    error
}

func (f *fakeStore) Count(ctx context.Context, table, cond string, args ...any) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[table], nil
}

func (f *fakeStore) Sum(ctx context.Context, table, column, cond string, args ...any) (decimal.Decimal, error) {
	return decimal.Zero, f.err
}

func (f *fakeStore) Find(ctx context.Context, dest any, table, cond, orderBy string, limit int, args ...any) error {
	return f.err
}

type fakeProvider struct {
	stores map[string]*fakeStore
}

func (f *fakeProvider) Scoped(schemaName string) (store.Store, error) {
	s, ok := f.stores[schemaName]
	if !ok {
		return nil, tenantdomain.ErrInvalidSchemaName
	}
	return s, nil
}

func newTestService(repo tenantdomain.Registry, plans plandomain.Repository, stores store.Provider) *Service {
	return &Service{
		log:           zap.NewNop(),
		repo:          repo,
		plans:         plans,
		stores:        stores,
		tenantTimeout: time.Second,
		maxConcurrent: 4,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOperativeMetricsNormalizesRecurringRevenue(t *testing.T) {
	plans := &fakePlanRepo{subscriptions: []plandomain.ActiveSubscription{
		{SubscriptionID: 1, PlanID: 10, Price: dec("100"), BillingCycle: plandomain.BillingCycleMonthly},
		{SubscriptionID: 2, PlanID: 11, Price: dec("1200"), BillingCycle: plandomain.BillingCycleYearly},
		{SubscriptionID: 3, PlanID: 12, Price: dec("300"), BillingCycle: plandomain.BillingCycleQuarterly},
	}}
	svc := newTestService(&fakeRegistry{}, plans, &fakeProvider{})

	metrics, err := svc.OperativeMetrics(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "300.00", metrics.MRR.StringFixed(2))
	assert.Equal(t, "3600.00", metrics.ARR.StringFixed(2))
	assert.True(t, metrics.MRRChange.IsZero())
}

func TestOperativeMetricsRoundsAtTheBoundary(t *testing.T) {
	// 100/12 is a non-terminating decimal; it must leave the service
	// rounded to cents, not as an arbitrary-precision value.
	plans := &fakePlanRepo{subscriptions: []plandomain.ActiveSubscription{
		{SubscriptionID: 1, PlanID: 10, Price: dec("100"), BillingCycle: plandomain.BillingCycleYearly},
	}}
	svc := newTestService(&fakeRegistry{}, plans, &fakeProvider{})

	metrics, err := svc.OperativeMetrics(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "8.33", metrics.MRR.String())
	assert.Equal(t, "99.96", metrics.ARR.String())
}

func TestOperativeMetricsCountsUsersAcrossTenants(t *testing.T) {
	repo := &fakeRegistry{complexes: []tenantdomain.Complex{
		{ID: 1, SchemaName: "torres_del_parque", Name: "Torres del Parque"},
		{ID: 2, SchemaName: "villa_del_sol", Name: "Villa del Sol"},
		{ID: 3, SchemaName: "mirador_alto", Name: "Mirador Alto"},
	}}
	stores := &fakeProvider{stores: map[string]*fakeStore{
		"torres_del_parque": {counts: map[string]int64{"users": 40}},
		"villa_del_sol":     {counts: map[string]int64{"users": 25}},
		"mirador_alto":      {err: errors.New("connection refused")},
	}}
	svc := newTestService(repo, &fakePlanRepo{}, stores)

	metrics, err := svc.OperativeMetrics(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), metrics.TotalComplexes)
	assert.Equal(t, int64(65), metrics.TotalUsers)
}

func TestOperativeMetricsLabelsOrphanedPlans(t *testing.T) {
	plans := &fakePlanRepo{byPlan: []plandomain.PlanComplexCount{
		{PlanID: 10, PlanName: "Premium", Count: 4},
		{PlanID: 99, PlanName: "", Count: 2},
	}}
	svc := newTestService(&fakeRegistry{}, plans, &fakeProvider{})

	metrics, err := svc.OperativeMetrics(context.Background())
	assert.NoError(t, err)
	assert.Len(t, metrics.ComplexesByPlan, 2)
	assert.Equal(t, "Premium", metrics.ComplexesByPlan[0].PlanName)
	assert.Equal(t, "Unknown", metrics.ComplexesByPlan[1].PlanName)
	assert.Equal(t, int64(2), metrics.ComplexesByPlan[1].Count)
}

func TestOperativeMetricsRegistryFailureAborts(t *testing.T) {
	svc := newTestService(&fakeRegistry{err: errors.New("registry unavailable")}, &fakePlanRepo{}, &fakeProvider{})

	_, err := svc.OperativeMetrics(context.Background())
	assert.Error(t, err)
}
