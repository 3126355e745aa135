package service

import (
	"context"
	"errors"
	"testing"
	"time"

	financedomain "github.com/armoniahq/armonia/internal/finance/domain"
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

// fakeStore answers Count and Sum from maps keyed by "table|cond" and Find
// through a programmable callback.
type fakeStore struct {
	counts map[string]int64
	sums   map[string]decimal.Decimal
	find   func(dest any, table string) error
	err    error
}

func (f *fakeStore) Count(ctx context.Context, table, cond string, args ...any) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[table+"|"+cond], nil
}

func (f *fakeStore) Sum(ctx context.Context, table, column, cond string, args ...any) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	sum, ok := f.sums[table+"|"+cond]
	if !ok {
		return decimal.Zero, nil
	}
	return sum, nil
}

func (f *fakeStore) Find(ctx context.Context, dest any, table, cond, orderBy string, limit int, args ...any) error {
	if f.err != nil {
		return f.err
	}
	if f.find == nil {
		return nil
	}
	return f.find(dest, table)
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

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now(ctx context.Context) time.Time { return c.now }

func newTestService(repo tenantdomain.Registry, stores store.Provider, now time.Time) *Service {
	return &Service{
		log:           zap.NewNop(),
		clock:         fixedClock{now: now},
		repo:          repo,
		stores:        stores,
		tenantTimeout: time.Second,
		maxConcurrent: 4,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

const (
	periodPaymentsCond = "status = ? AND paid_at >= ? AND paid_at <= ?"
	periodExpensesCond = "status = ? AND expense_date >= ? AND expense_date <= ?"
)

func TestConsolidatedSummaryRejectsInvertedRange(t *testing.T) {
	svc := newTestService(&fakeRegistry{}, &fakeProvider{}, time.Now())

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.ConsolidatedSummary(context.Background(), start, end)
	assert.ErrorIs(t, err, financedomain.ErrInvalidDateRange)

	_, err = svc.ConsolidatedSummary(context.Background(), time.Time{}, end)
	assert.ErrorIs(t, err, financedomain.ErrInvalidDateRange)
}

func TestConsolidatedSummaryAggregatesAcrossComplexes(t *testing.T) {
	repo := &fakeRegistry{complexes: []tenantdomain.Complex{
		{ID: 1, SchemaName: "torres_del_parque", Name: "Torres del Parque"},
		{ID: 2, SchemaName: "villa_del_sol", Name: "Villa del Sol"},
	}}
	stores := &fakeProvider{stores: map[string]*fakeStore{
		"torres_del_parque": {sums: map[string]decimal.Decimal{
			"payments|" + periodPaymentsCond: dec("1500.50"),
			"expenses|" + periodExpensesCond: dec("400.25"),
		}},
		"villa_del_sol": {sums: map[string]decimal.Decimal{
			"payments|" + periodPaymentsCond: dec("2000.00"),
			"expenses|" + periodExpensesCond: dec("750.00"),
		}},
	}}
	svc := newTestService(repo, stores, time.Now())

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	report, err := svc.ConsolidatedSummary(context.Background(), start, end)
	assert.NoError(t, err)
	assert.Len(t, report.ComplexReports, 2)
	assert.True(t, report.TotalIncomeAllComplexes.Equal(dec("3500.50")))
	assert.True(t, report.TotalExpensesAllComplexes.Equal(dec("1150.25")))
	assert.True(t, report.NetBalanceAllComplexes.Equal(dec("2350.25")))

	first := report.ComplexReports[0]
	assert.Equal(t, "Torres del Parque", first.ComplexName)
	assert.True(t, first.NetBalance.Equal(dec("1100.25")))
	assert.Empty(t, first.Error)
}

func TestConsolidatedSummaryExcludesFailedComplexFromTotals(t *testing.T) {
	repo := &fakeRegistry{complexes: []tenantdomain.Complex{
		{ID: 1, SchemaName: "torres_del_parque", Name: "Torres del Parque"},
		{ID: 2, SchemaName: "villa_del_sol", Name: "Villa del Sol"},
	}}
	stores := &fakeProvider{stores: map[string]*fakeStore{
		"torres_del_parque": {sums: map[string]decimal.Decimal{
			"payments|" + periodPaymentsCond: dec("1000.00"),
			"expenses|" + periodExpensesCond: dec("100.00"),
		}},
		"villa_del_sol": {err: errors.New("connection refused")},
	}}
	svc := newTestService(repo, stores, time.Now())

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	report, err := svc.ConsolidatedSummary(context.Background(), start, end)
	assert.NoError(t, err)
	assert.Len(t, report.ComplexReports, 2)
	assert.True(t, report.TotalIncomeAllComplexes.Equal(dec("1000.00")))
	assert.True(t, report.NetBalanceAllComplexes.Equal(dec("900.00")))

	failed := report.ComplexReports[1]
	assert.Equal(t, "Villa del Sol", failed.ComplexName)
	assert.Contains(t, failed.Error, "connection refused")
}

func TestConsolidatedSummaryRegistryFailureAborts(t *testing.T) {
	repo := &fakeRegistry{err: errors.New("registry unavailable")}
	svc := newTestService(repo, &fakeProvider{}, time.Now())

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	_, err := svc.ConsolidatedSummary(context.Background(), start, end)
	assert.Error(t, err)
}

func TestSummaryUsesMonthStart(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	stores := &fakeProvider{stores: map[string]*fakeStore{
		"villa_del_sol": {
			counts: map[string]int64{
				"fees|status = ?": 3,
			},
			sums: map[string]decimal.Decimal{
				"payments|status = ?":                       dec("9000.00"),
				"expenses|status = ?":                       dec("4000.00"),
				"payments|status = ? AND paid_at >= ?":      dec("1200.00"),
				"expenses|status = ? AND expense_date >= ?": dec("300.00"),
				"fees|status = ?":                           dec("450.00"),
			},
		},
	}}
	svc := newTestService(&fakeRegistry{}, stores, now)

	summary, err := svc.Summary(context.Background(), "villa_del_sol")
	assert.NoError(t, err)
	assert.True(t, summary.CurrentBalance.Equal(dec("5000.00")))
	assert.True(t, summary.MonthlyIncome.Equal(dec("1200.00")))
	assert.True(t, summary.MonthlyExpenses.Equal(dec("300.00")))
	assert.Equal(t, int64(3), summary.PendingFees)
	assert.True(t, summary.PendingFeesAmount.Equal(dec("450.00")))
}

func TestSummaryRejectsUnknownSchema(t *testing.T) {
	svc := newTestService(&fakeRegistry{}, &fakeProvider{}, time.Now())

	_, err := svc.Summary(context.Background(), "nope")
	assert.ErrorIs(t, err, tenantdomain.ErrInvalidSchemaName)
}

func TestRecentTransactionsMergesNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	stores := &fakeProvider{stores: map[string]*fakeStore{
		"villa_del_sol": {
			find: func(dest any, table string) error {
				switch d := dest.(type) {
				case *[]paymentRow:
					*d = []paymentRow{
						{ID: "p1", PaidAt: base.AddDate(0, 0, 9), Concept: "Fee August", Amount: dec("120.00")},
						{ID: "p2", PaidAt: base.AddDate(0, 0, 5), Concept: "Fee July", Amount: dec("120.00")},
						{ID: "p3", PaidAt: base.AddDate(0, 0, 1), Concept: "Fee June", Amount: dec("120.00")},
					}
				case *[]expenseRow:
					*d = []expenseRow{
						{ID: "e1", ExpenseDate: base.AddDate(0, 0, 8), Description: "Elevator repair", Amount: dec("800.00")},
						{ID: "e2", ExpenseDate: base.AddDate(0, 0, 6), Description: "Gardening", Amount: dec("150.00")},
						{ID: "e3", ExpenseDate: base.AddDate(0, 0, 4), Description: "Cleaning", Amount: dec("90.00")},
					}
				}
				return nil
			},
		},
	}}
	svc := newTestService(&fakeRegistry{}, stores, time.Now())

	transactions, err := svc.RecentTransactions(context.Background(), "villa_del_sol")
	assert.NoError(t, err)
	assert.Len(t, transactions, 5)

	ids := make([]string, 0, len(transactions))
	for _, tx := range transactions {
		ids = append(ids, tx.ID)
	}
	assert.Equal(t, []string{"p1", "e1", "e2", "p2", "e3"}, ids)

	for i := 1; i < len(transactions); i++ {
		assert.False(t, transactions[i].Date.After(transactions[i-1].Date))
	}

	assert.Equal(t, financedomain.TransactionKindIncome, transactions[0].Kind)
	assert.Equal(t, financedomain.TransactionKindExpense, transactions[1].Kind)
}
