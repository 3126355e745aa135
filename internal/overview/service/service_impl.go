package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/armoniahq/armonia/internal/config"
	overviewdomain "github.com/armoniahq/armonia/internal/overview/domain"
	plandomain "github.com/armoniahq/armonia/internal/plan/domain"
	tenantdomain "github.com/armoniahq/armonia/internal/tenant/domain"
	"github.com/armoniahq/armonia/internal/tenant/store"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	tableUsers = "users"

	unknownPlanLabel = "Unknown"
)

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	repo   tenantdomain.Registry
	plans  plandomain.Repository
	stores store.Provider

	tenantTimeout time.Duration
	maxConcurrent int
}

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Config config.Config
	Repo   tenantdomain.Registry
	Plans  plandomain.Repository
	Stores store.Provider
}

func NewService(p ServiceParam) overviewdomain.Service {
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
		log:           p.Log.Named("overview.service"),
		repo:          p.Repo,
		plans:         p.Plans,
		stores:        p.Stores,
		tenantTimeout: timeout,
		maxConcurrent: concurrent,
	}
}

// OperativeMetrics implements domain.Service.
func (s *Service) OperativeMetrics(ctx context.Context) (overviewdomain.OperativeMetrics, error) {
	complexes, err := s.repo.ListActive(ctx, s.db)
	if err != nil {
		return overviewdomain.OperativeMetrics{}, err
	}

	subscriptions, err := s.plans.ListActiveSubscriptions(ctx, s.db)
	if err != nil {
		return overviewdomain.OperativeMetrics{}, err
	}

	mrr := decimal.Zero
	for _, sub := range subscriptions {
		mrr = mrr.Add(plandomain.MonthlyEquivalent(sub.Price, sub.BillingCycle))
	}
	mrr = mrr.Round(2)
	arr := mrr.Mul(decimal.NewFromInt(12)).Round(2)

	byPlan, err := s.plans.CountActiveComplexesByPlan(ctx, s.db)
	if err != nil {
		return overviewdomain.OperativeMetrics{}, err
	}
	planCounts := make([]overviewdomain.PlanCount, 0, len(byPlan))
	for _, pc := range byPlan {
		name := pc.PlanName
		if name == "" {
			name = unknownPlanLabel
		}
		planCounts = append(planCounts, overviewdomain.PlanCount{
			PlanName: name,
			Count:    pc.Count,
		})
	}

	return overviewdomain.OperativeMetrics{
		TotalComplexes:  int64(len(complexes)),
		TotalUsers:      s.countUsers(ctx, complexes),
		MRR:             mrr,
		ARR:             arr,
		MRRChange:       decimal.Zero,
		ComplexesByPlan: planCounts,
	}, nil
}

// countUsers totals residents across every active complex. A tenant that
// cannot be read contributes zero; the overview stays available when a
// schema is down.
func (s *Service) countUsers(ctx context.Context, complexes []tenantdomain.Complex) int64 {
	var total atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for _, complex := range complexes {
		complex := complex
		g.Go(func() error {
			tctx, cancel := context.WithTimeout(gctx, s.tenantTimeout)
			defer cancel()

			store, err := s.stores.Scoped(complex.SchemaName)
			if err != nil {
				s.log.Warn("tenant user count skipped",
					zap.String("schema", complex.SchemaName), zap.Error(err))
				return nil
			}
			n, err := store.Count(tctx, tableUsers, "role = ?", "RESIDENT")
			if err != nil {
				s.log.Warn("tenant user count skipped",
					zap.String("schema", complex.SchemaName), zap.Error(err))
				return nil
			}
			total.Add(n)
			return nil
		})
	}
	_ = g.Wait()

	return total.Load()
}
