package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDateRange = errors.New("invalid date range")
)

// ComplexPeriodReport is one complex's income/expense summary for a
// requested period. A complex whose queries failed carries Error and
// zero-valued amounts; it is excluded from consolidated sums but never
// from the report list.
type ComplexPeriodReport struct {
	ComplexName string          `json:"complex_name"`
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	NetBalance  decimal.Decimal `json:"net_balance"`
	Error       string          `json:"error,omitempty"`
}

// ConsolidatedReport is the period summary across every active complex.
type ConsolidatedReport struct {
	StartDate                 time.Time             `json:"start_date"`
	EndDate                   time.Time             `json:"end_date"`
	TotalIncomeAllComplexes   decimal.Decimal       `json:"total_income_all_complexes"`
	TotalExpensesAllComplexes decimal.Decimal       `json:"total_expenses_all_complexes"`
	NetBalanceAllComplexes    decimal.Decimal       `json:"net_balance_all_complexes"`
	ComplexReports            []ComplexPeriodReport `json:"complex_reports"`
}

// ComplexSummary is the single-tenant financial overview.
type ComplexSummary struct {
	CurrentBalance    decimal.Decimal `json:"current_balance"`
	MonthlyIncome     decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses   decimal.Decimal `json:"monthly_expenses"`
	PendingFees       int64           `json:"pending_fees"`
	PendingFeesAmount decimal.Decimal `json:"pending_fees_amount"`
}

// TransactionKind discriminates merged movements.
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "income"
	TransactionKindExpense TransactionKind = "expense"
)

// Transaction is one recent movement in a complex, merged from completed
// payments and paid expenses.
type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        TransactionKind `json:"kind"`
}

// Service computes period-bounded and point-in-time financial read-models.
type Service interface {
	// ConsolidatedSummary aggregates [start, end] (inclusive) across all
	// active complexes. The range is validated before any tenant fan-out.
	ConsolidatedSummary(ctx context.Context, start, end time.Time) (ConsolidatedReport, error)
	// Summary returns the current financial overview for one complex.
	Summary(ctx context.Context, schemaName string) (ComplexSummary, error)
	// RecentTransactions returns the latest movements for one complex,
	// newest first.
	RecentTransactions(ctx context.Context, schemaName string) ([]Transaction, error)
}
