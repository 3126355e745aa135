package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// PlanCount is the number of active complexes on one named plan.
type PlanCount struct {
	PlanName string `json:"plan_name"`
	Count    int64  `json:"count"`
}

// OperativeMetrics is the platform-level recurring revenue snapshot served
// on the admin overview. Monetary figures are rounded to two decimals.
type OperativeMetrics struct {
	TotalComplexes int64           `json:"total_complexes"`
	TotalUsers     int64           `json:"total_users"`
	MRR            decimal.Decimal `json:"mrr"`
	ARR            decimal.Decimal `json:"arr"`
	// MRRChange is reserved for period-over-period comparison and is
	// always zero until historical snapshots are recorded.
	MRRChange       decimal.Decimal `json:"mrr_change"`
	ComplexesByPlan []PlanCount     `json:"complexes_by_plan"`
}

type Service interface {
	OperativeMetrics(ctx context.Context) (OperativeMetrics, error)
}
