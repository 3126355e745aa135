package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/armoniahq/armonia/internal/config"
	financedomain "github.com/armoniahq/armonia/internal/finance/domain"
	overviewdomain "github.com/armoniahq/armonia/internal/overview/domain"
	portfoliodomain "github.com/armoniahq/armonia/internal/portfolio/domain"
	reportdomain "github.com/armoniahq/armonia/internal/report/domain"
	rollupdomain "github.com/armoniahq/armonia/internal/rollup/domain"
	tenantdomain "github.com/armoniahq/armonia/internal/tenant/domain"
)

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)

// Server holds the handler dependencies. Handlers live in sibling files,
// one file per aggregate.
type Server struct {
	log *zap.Logger
	db  *gorm.DB

	tenantSvc    tenantdomain.Service
	portfolioSvc portfoliodomain.Service
	financeSvc   financedomain.Service
	overviewSvc  overviewdomain.Service
	reportSvc    reportdomain.Service
	rollupSvc    rollupdomain.Service

	registry *prometheus.Registry
}

type ServerParam struct {
	fx.In

	Log       *zap.Logger
	DB        *gorm.DB
	Tenant    tenantdomain.Service
	Portfolio portfoliodomain.Service
	Finance   financedomain.Service
	Overview  overviewdomain.Service
	Report    reportdomain.Service
	Rollup    rollupdomain.Service
	Registry  *prometheus.Registry
}

func NewServer(p ServerParam) *Server {
	return &Server{
		log:          p.Log.Named("server"),
		db:           p.DB,
		tenantSvc:    p.Tenant,
		portfolioSvc: p.Portfolio,
		financeSvc:   p.Finance,
		overviewSvc:  p.Overview,
		reportSvc:    p.Report,
		rollupSvc:    p.Rollup,
		registry:     p.Registry,
	}
}

// Engine builds the gin engine with all routes registered.
func (s *Server) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())

	s.registerRoutes(engine)
	return engine
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	engine.GET("/healthz", s.Healthz)
	engine.GET("/readyz", s.Readyz)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	v1 := engine.Group("/api/v1")
	{
		v1.GET("/overview/metrics", s.GetOperativeMetrics)

		v1.GET("/portfolio/metrics", s.GetPortfolioMetrics)
		v1.GET("/portfolio/complexes", s.GetComplexMetrics)

		v1.GET("/finances/consolidated", s.GetConsolidatedSummary)
		v1.GET("/finances/consolidated/report", s.DownloadConsolidatedReport)

		v1.POST("/complexes", s.CreateComplex)
		v1.GET("/complexes", s.ListComplexes)
		v1.GET("/complexes/:id", s.GetComplex)
		v1.PATCH("/complexes/:id/active", s.SetComplexActive)
		v1.GET("/complexes/:id/finances/summary", s.GetComplexFinanceSummary)
		v1.GET("/complexes/:id/finances/transactions", s.GetRecentTransactions)

		v1.GET("/rollups/latest", s.GetLatestRollup)
		v1.GET("/rollups", s.ListRollups)
		v1.POST("/rollups/run", s.RunRollup)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
			s.log.Error("request failed", fields...)
			return
		}
		s.log.Info("request", fields...)
	}
}

// RunHTTP binds the engine to the configured port under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, s *Server, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", srv.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
