package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

var ErrRollupNotFound = errors.New("rollup not found")

// PortfolioRollup is one persisted daily snapshot of the portfolio-wide
// totals plus recurring revenue. One row per calendar date; re-running a
// date replaces the earlier row.
type PortfolioRollup struct {
	ID                   snowflake.ID    `gorm:"primaryKey" json:"id"`
	RollupDate           string          `gorm:"type:text;not null;uniqueIndex" json:"rollup_date"`
	TotalComplexes       int             `gorm:"not null" json:"total_complexes"`
	FailedComplexes      int             `gorm:"not null" json:"failed_complexes"`
	TotalProperties      int64           `gorm:"not null" json:"total_properties"`
	TotalResidents       int64           `gorm:"not null" json:"total_residents"`
	TotalPendingFees     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_pending_fees"`
	TotalIncome          decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_income"`
	TotalOpenTickets     int64           `gorm:"not null" json:"total_open_tickets"`
	TotalBudgetsApproved decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_budgets_approved"`
	TotalExpenses        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_expenses"`
	MRR                  decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"mrr"`
	ARR                  decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"arr"`
	CreatedAt            time.Time       `gorm:"not null" json:"created_at"`
}

func (PortfolioRollup) TableName() string { return "portfolio_rollups" }

// Service materializes and serves daily portfolio rollups.
type Service interface {
	// Run collects the current portfolio totals and persists them under
	// today's date, replacing an earlier run for the same date.
	Run(ctx context.Context) (PortfolioRollup, error)
	// Latest returns the most recent persisted rollup.
	Latest(ctx context.Context) (PortfolioRollup, error)
	// History returns up to limit rollups, newest first.
	History(ctx context.Context, limit int) ([]PortfolioRollup, error)
}
