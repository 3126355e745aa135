package service

import (
	"context"
	"sort"
	"time"

	"github.com/armoniahq/armonia/internal/clock"
	"github.com/armoniahq/armonia/internal/config"
	financedomain "github.com/armoniahq/armonia/internal/finance/domain"
	tenantdomain "github.com/armoniahq/armonia/internal/tenant/domain"
	"github.com/armoniahq/armonia/internal/tenant/store"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	tableFees     = "fees"
	tablePayments = "payments"
	tableExpenses = "expenses"

	recentTransactionLimit = 5
)

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	clock  clock.Clock
	repo   tenantdomain.Registry
	stores store.Provider

	tenantTimeout time.Duration
	maxConcurrent int
}

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Config config.Config
	Clock  clock.Clock
	Repo   tenantdomain.Registry
	Stores store.Provider
}

func NewService(p ServiceParam) financedomain.Service {
	timeout := p.Config.Portfolio.TenantTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	concurrent := p.Config.Portfolio.MaxConcurrent
	if concurrent <= 0 {
		concurrent = 8
	}

	return &Service{
		db:            p.DB,
		log:           p.Log.Named("finance.service"),
		clock:         p.Clock,
		repo:          p.Repo,
		stores:        p.Stores,
		tenantTimeout: timeout,
		maxConcurrent: concurrent,
	}
}

// ConsolidatedSummary implements domain.Service.
func (s *Service) ConsolidatedSummary(ctx context.Context, start, end time.Time) (financedomain.ConsolidatedReport, error) {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return financedomain.ConsolidatedReport{}, financedomain.ErrInvalidDateRange
	}

	complexes, err := s.repo.ListActive(ctx, s.db)
	if err != nil {
		return financedomain.ConsolidatedReport{}, err
	}

	reports := make([]financedomain.ComplexPeriodReport, len(complexes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i, complex := range complexes {
		i, complex := i, complex
		g.Go(func() error {
			tctx, cancel := context.WithTimeout(gctx, s.tenantTimeout)
			defer cancel()

			reports[i] = s.periodReport(tctx, complex, start, end)
			if reports[i].Error != "" {
				s.log.Warn("tenant period summary failed",
					zap.String("schema", complex.SchemaName),
					zap.String("error", reports[i].Error),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	report := financedomain.ConsolidatedReport{
		StartDate:                 start,
		EndDate:                   end,
		TotalIncomeAllComplexes:   decimal.Zero,
		TotalExpensesAllComplexes: decimal.Zero,
		NetBalanceAllComplexes:    decimal.Zero,
		ComplexReports:            reports,
	}
	for _, r := range reports {
		if r.Error != "" {
			continue
		}
		report.TotalIncomeAllComplexes = report.TotalIncomeAllComplexes.Add(r.Income)
		report.TotalExpensesAllComplexes = report.TotalExpensesAllComplexes.Add(r.Expenses)
	}
	report.NetBalanceAllComplexes = report.TotalIncomeAllComplexes.Sub(report.TotalExpensesAllComplexes)

	return report, nil
}

// periodReport sums one complex's completed payments and paid expenses
// inside the inclusive window. Failures degrade to an error report; they
// never abort the consolidated pass.
func (s *Service) periodReport(ctx context.Context, complex tenantdomain.Complex, start, end time.Time) financedomain.ComplexPeriodReport {
	report := financedomain.ComplexPeriodReport{
		ComplexName: complex.Name,
		Income:      decimal.Zero,
		Expenses:    decimal.Zero,
		NetBalance:  decimal.Zero,
	}

	store, err := s.stores.Scoped(complex.SchemaName)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	income, err := store.Sum(ctx, tablePayments, "amount",
		"status = ? AND paid_at >= ? AND paid_at <= ?", "COMPLETED", start, end)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	expenses, err := store.Sum(ctx, tableExpenses, "amount",
		"status = ? AND expense_date >= ? AND expense_date <= ?", "PAID", start, end)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	report.Income = income
	report.Expenses = expenses
	report.NetBalance = income.Sub(expenses)
	return report
}

// Summary implements domain.Service.
func (s *Service) Summary(ctx context.Context, schemaName string) (financedomain.ComplexSummary, error) {
	store, err := s.stores.Scoped(schemaName)
	if err != nil {
		return financedomain.ComplexSummary{}, err
	}

	now := s.clock.Now(ctx)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	totalIncome, err := store.Sum(ctx, tablePayments, "amount", "status = ?", "COMPLETED")
	if err != nil {
		return financedomain.ComplexSummary{}, err
	}
	totalExpenses, err := store.Sum(ctx, tableExpenses, "amount", "status = ?", "PAID")
	if err != nil {
		return financedomain.ComplexSummary{}, err
	}
	monthlyIncome, err := store.Sum(ctx, tablePayments, "amount",
		"status = ? AND paid_at >= ?", "COMPLETED", monthStart)
	if err != nil {
		return financedomain.ComplexSummary{}, err
	}
	monthlyExpenses, err := store.Sum(ctx, tableExpenses, "amount",
		"status = ? AND expense_date >= ?", "PAID", monthStart)
	if err != nil {
		return financedomain.ComplexSummary{}, err
	}
	pendingFees, err := store.Count(ctx, tableFees, "status = ?", "PENDING")
	if err != nil {
		return financedomain.ComplexSummary{}, err
	}
	pendingAmount, err := store.Sum(ctx, tableFees, "amount", "status = ?", "PENDING")
	if err != nil {
		return financedomain.ComplexSummary{}, err
	}

	return financedomain.ComplexSummary{
		CurrentBalance:    totalIncome.Sub(totalExpenses),
		MonthlyIncome:     monthlyIncome,
		MonthlyExpenses:   monthlyExpenses,
		PendingFees:       pendingFees,
		PendingFeesAmount: pendingAmount,
	}, nil
}

type paymentRow struct {
	ID      string          `gorm:"column:id"`
	PaidAt  time.Time       `gorm:"column:paid_at"`
	Concept string          `gorm:"column:concept"`
	Amount  decimal.Decimal `gorm:"column:amount"`
}

type expenseRow struct {
	ID          string          `gorm:"column:id"`
	ExpenseDate time.Time       `gorm:"column:expense_date"`
	Description string          `gorm:"column:description"`
	Amount      decimal.Decimal `gorm:"column:amount"`
}

// RecentTransactions implements domain.Service.
func (s *Service) RecentTransactions(ctx context.Context, schemaName string) ([]financedomain.Transaction, error) {
	store, err := s.stores.Scoped(schemaName)
	if err != nil {
		return nil, err
	}

	var payments []paymentRow
	if err := store.Find(ctx, &payments, tablePayments,
		"status = ?", "paid_at DESC", recentTransactionLimit, "COMPLETED"); err != nil {
		return nil, err
	}

	var expenses []expenseRow
	if err := store.Find(ctx, &expenses, tableExpenses,
		"status = ?", "expense_date DESC", recentTransactionLimit, "PAID"); err != nil {
		return nil, err
	}

	transactions := make([]financedomain.Transaction, 0, len(payments)+len(expenses))
	for _, p := range payments {
		transactions = append(transactions, financedomain.Transaction{
			ID:          p.ID,
			Date:        p.PaidAt,
			Description: p.Concept,
			Amount:      p.Amount,
			Kind:        financedomain.TransactionKindIncome,
		})
	}
	for _, e := range expenses {
		transactions = append(transactions, financedomain.Transaction{
			ID:          e.ID,
			Date:        e.ExpenseDate,
			Description: e.Description,
			Amount:      e.Amount,
			Kind:        financedomain.TransactionKindExpense,
		})
	}

	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
	if len(transactions) > recentTransactionLimit {
		transactions = transactions[:recentTransactionLimit]
	}
	return transactions, nil
}
