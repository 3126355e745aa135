package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrInvalidBillingCycle = errors.New("invalid billing cycle")
	ErrPlanNotFound        = errors.New("plan not found")
)

// BillingCycle is how often a subscription is invoiced.
type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "MONTHLY"
	BillingCycleQuarterly BillingCycle = "QUARTERLY"
	BillingCycleYearly    BillingCycle = "YEARLY"
)

// SubscriptionStatus is the lifecycle state of a complex's subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusTrial     SubscriptionStatus = "TRIAL"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionStatusExpired   SubscriptionStatus = "EXPIRED"
)

// Plan is a platform pricing plan in the shared registry.
type Plan struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"type:text;not null" json:"name"`
	Price        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"price"`
	BillingCycle BillingCycle    `gorm:"type:text;not null" json:"billing_cycle"`
	Active       bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
}

func (Plan) TableName() string { return "plans" }

// Subscription links one complex to a plan.
type Subscription struct {
	ID        snowflake.ID       `gorm:"primaryKey" json:"id"`
	ComplexID snowflake.ID       `gorm:"not null;index" json:"complex_id"`
	PlanID    snowflake.ID       `gorm:"not null;index" json:"plan_id"`
	Status    SubscriptionStatus `gorm:"type:text;not null" json:"status"`
	StartAt   time.Time          `gorm:"not null" json:"start_at"`
	EndAt     *time.Time         `json:"end_at,omitempty"`
	CreatedAt time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time          `gorm:"not null" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }

// ActiveSubscription is one active subscription joined to its plan's
// price and billing cycle, the read-model recurring revenue is built from.
type ActiveSubscription struct {
	SubscriptionID snowflake.ID    `gorm:"column:subscription_id"`
	PlanID         snowflake.ID    `gorm:"column:plan_id"`
	Price          decimal.Decimal `gorm:"column:price"`
	BillingCycle   BillingCycle    `gorm:"column:billing_cycle"`
}

// PlanComplexCount is the number of active complexes on one plan. PlanName
// is empty when the referenced plan row is gone; callers render a fallback
// label rather than dropping the entry.
type PlanComplexCount struct {
	PlanID   snowflake.ID `gorm:"column:plan_id"`
	PlanName string       `gorm:"column:plan_name"`
	Count    int64        `gorm:"column:complex_count"`
}

type Repository interface {
	InsertPlan(ctx context.Context, db *gorm.DB, p *Plan) error
	ListPlans(ctx context.Context, db *gorm.DB) ([]Plan, error)
	InsertSubscription(ctx context.Context, db *gorm.DB, sub *Subscription) error
	ListActiveSubscriptions(ctx context.Context, db *gorm.DB) ([]ActiveSubscription, error)
	CountActiveComplexesByPlan(ctx context.Context, db *gorm.DB) ([]PlanComplexCount, error)
}

// MonthlyEquivalent normalizes a plan price to its monthly contribution:
// quarterly prices spread over 3 months, yearly over 12.
func MonthlyEquivalent(price decimal.Decimal, cycle BillingCycle) decimal.Decimal {
	switch cycle {
	case BillingCycleMonthly:
		return price
	case BillingCycleQuarterly:
		return price.Div(decimal.NewFromInt(3))
	case BillingCycleYearly:
		return price.Div(decimal.NewFromInt(12))
	default:
		return price
	}
}
