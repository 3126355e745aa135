package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ComplexMetrics is the fixed battery of aggregates collected from one
// tenant schema. Sums are decimal; a sum over no rows is zero.
type ComplexMetrics struct {
	Properties     int64           `json:"properties"`
	Residents      int64           `json:"residents"`
	PendingFees    decimal.Decimal `json:"pending_fees"`
	Income         decimal.Decimal `json:"income"`
	OpenTickets    int64           `json:"open_tickets"`
	BudgetApproved decimal.Decimal `json:"budget_approved"`
	Expenses       decimal.Decimal `json:"expenses"`
}

// ComplexSnapshot is the per-tenant collection result. Exactly one of
// Metrics and Error is set: a failed tenant carries no numeric fields, so
// "no data" and "failed to fetch" cannot be confused downstream.
type ComplexSnapshot struct {
	ComplexID snowflake.ID    `json:"id"`
	Name      string          `json:"name"`
	Metrics   *ComplexMetrics `json:"metrics,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Failed reports whether this tenant's collection degraded to an error.
func (s ComplexSnapshot) Failed() bool { return s.Metrics == nil }

// PortfolioTotals is the portfolio-wide reduction over all snapshots.
type PortfolioTotals struct {
	TotalComplexes       int             `json:"total_complexes"`
	TotalProperties      int64           `json:"total_properties"`
	TotalResidents       int64           `json:"total_residents"`
	TotalPendingFees     decimal.Decimal `json:"total_pending_fees"`
	TotalIncome          decimal.Decimal `json:"total_income"`
	TotalOpenTickets     int64           `json:"total_open_tickets"`
	TotalBudgetsApproved decimal.Decimal `json:"total_budgets_approved"`
	TotalExpenses        decimal.Decimal `json:"total_expenses"`
	FailedComplexes      int             `json:"failed_complexes"`
}

// Reduce folds snapshots into totals. Failed snapshots contribute nothing
// to the numeric totals but are counted, so callers can surface partial
// coverage. Totals start from explicit zeros; an empty input yields an
// all-zero value, never nulls.
func Reduce(snapshots []ComplexSnapshot) PortfolioTotals {
	totals := PortfolioTotals{
		TotalComplexes:       len(snapshots),
		TotalPendingFees:     decimal.Zero,
		TotalIncome:          decimal.Zero,
		TotalBudgetsApproved: decimal.Zero,
		TotalExpenses:        decimal.Zero,
	}
	for _, snap := range snapshots {
		if snap.Failed() {
			totals.FailedComplexes++
			continue
		}
		m := snap.Metrics
		totals.TotalProperties += m.Properties
		totals.TotalResidents += m.Residents
		totals.TotalPendingFees = totals.TotalPendingFees.Add(m.PendingFees)
		totals.TotalIncome = totals.TotalIncome.Add(m.Income)
		totals.TotalOpenTickets += m.OpenTickets
		totals.TotalBudgetsApproved = totals.TotalBudgetsApproved.Add(m.BudgetApproved)
		totals.TotalExpenses = totals.TotalExpenses.Add(m.Expenses)
	}
	return totals
}

// Service aggregates metrics across every active complex.
type Service interface {
	// PortfolioMetrics returns the portfolio-wide totals.
	PortfolioMetrics(ctx context.Context) (PortfolioTotals, error)
	// ComplexMetrics returns one snapshot per active complex, in registry
	// order, failed tenants included.
	ComplexMetrics(ctx context.Context) ([]ComplexSnapshot, error)
}
