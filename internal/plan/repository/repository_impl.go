package repository

import (
	"context"

	plandomain "github.com/armoniahq/armonia/internal/plan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() plandomain.Repository {
	return &repo{}
}

func (r *repo) InsertPlan(ctx context.Context, db *gorm.DB, p *plandomain.Plan) error {
	return db.WithContext(ctx).Create(p).Error
}

func (r *repo) ListPlans(ctx context.Context, db *gorm.DB) ([]plandomain.Plan, error) {
	var items []plandomain.Plan
	err := db.WithContext(ctx).
		Model(&plandomain.Plan{}).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertSubscription(ctx context.Context, db *gorm.DB, sub *plandomain.Subscription) error {
	return db.WithContext(ctx).Create(sub).Error
}

func (r *repo) ListActiveSubscriptions(ctx context.Context, db *gorm.DB) ([]plandomain.ActiveSubscription, error) {
	var items []plandomain.ActiveSubscription
	err := db.WithContext(ctx).Raw(
		`SELECT s.id AS subscription_id, p.id AS plan_id, p.price, p.billing_cycle
		 FROM subscriptions s
		 JOIN plans p ON p.id = s.plan_id
		 WHERE s.status = ?
		 ORDER BY s.created_at ASC, s.id ASC`,
		plandomain.SubscriptionStatusActive,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CountActiveComplexesByPlan(ctx context.Context, db *gorm.DB) ([]plandomain.PlanComplexCount, error) {
	var items []plandomain.PlanComplexCount
	err := db.WithContext(ctx).Raw(
		`SELECT c.plan_id, COALESCE(p.name, '') AS plan_name, COUNT(1) AS complex_count
		 FROM residential_complexes c
		 LEFT JOIN plans p ON p.id = c.plan_id
		 WHERE c.is_active = ? AND c.plan_id IS NOT NULL
		 GROUP BY c.plan_id, p.name
		 ORDER BY complex_count DESC, c.plan_id ASC`,
		true,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
