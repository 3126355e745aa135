package service

import (
	"context"
	"time"

	"github.com/armoniahq/armonia/internal/config"
	portfoliodomain "github.com/armoniahq/armonia/internal/portfolio/domain"
	tenantdomain "github.com/armoniahq/armonia/internal/tenant/domain"
	"github.com/armoniahq/armonia/internal/tenant/store"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	repo   tenantdomain.Registry
	stores store.Provider

	tenantTimeout time.Duration
	maxConcurrent int

	tenantFailures *prometheus.CounterVec
}

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Config   config.Config
	Registry *prometheus.Registry
	Repo     tenantdomain.Registry
	Stores   store.Provider
}

func NewService(p ServiceParam) portfoliodomain.Service {
	tenantFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "armonia_portfolio_tenant_failures_total",
		Help: "Tenant metric collections that degraded to an error snapshot.",
	}, []string{"schema"})
	p.Registry.MustRegister(tenantFailures)

	timeout := p.Config.Portfolio.TenantTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	concurrent := p.Config.Portfolio.MaxConcurrent
	if concurrent <= 0 {
		concurrent = 8
	}

	return &Service{
		db:             p.DB,
		log:            p.Log.Named("portfolio.service"),
		repo:           p.Repo,
		stores:         p.Stores,
		tenantTimeout:  timeout,
		maxConcurrent:  concurrent,
		tenantFailures: tenantFailures,
	}
}

// PortfolioMetrics implements domain.Service.
func (s *Service) PortfolioMetrics(ctx context.Context) (portfoliodomain.PortfolioTotals, error) {
	snapshots, err := s.ComplexMetrics(ctx)
	if err != nil {
		return portfoliodomain.PortfolioTotals{}, err
	}
	return portfoliodomain.Reduce(snapshots), nil
}

// ComplexMetrics implements domain.Service. Per-tenant collections fan
// out concurrently; the returned slice keeps registry order and contains
// exactly one snapshot per active complex, failed tenants included. Only
// the registry read can fail the call.
func (s *Service) ComplexMetrics(ctx context.Context) ([]portfoliodomain.ComplexSnapshot, error) {
	complexes, err := s.repo.ListActive(ctx, s.db)
	if err != nil {
		return nil, err
	}

	snapshots := make([]portfoliodomain.ComplexSnapshot, len(complexes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i, complex := range complexes {
		i, complex := i, complex
		g.Go(func() error {
			tctx, cancel := context.WithTimeout(gctx, s.tenantTimeout)
			defer cancel()

			snapshots[i] = s.collect(tctx, complex)
			if snapshots[i].Failed() {
				s.tenantFailures.WithLabelValues(complex.SchemaName).Inc()
				s.log.Warn("tenant metric collection failed",
					zap.String("schema", complex.SchemaName),
					zap.String("error", snapshots[i].Error),
				)
			}
			return nil
		})
	}
	// collect never errors; Wait is the join barrier before reduction.
	_ = g.Wait()

	return snapshots, nil
}
