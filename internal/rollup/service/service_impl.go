package service

import (
	"context"
	"errors"

	"github.com/armoniahq/armonia/internal/clock"
	overviewdomain "github.com/armoniahq/armonia/internal/overview/domain"
	portfoliodomain "github.com/armoniahq/armonia/internal/portfolio/domain"
	rollupdomain "github.com/armoniahq/armonia/internal/rollup/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const rollupDateLayout = "2006-01-02"

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	portfolio portfoliodomain.Service
	overview  overviewdomain.Service
}

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Portfolio portfoliodomain.Service
	Overview  overviewdomain.Service
}

func NewService(p ServiceParam) rollupdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("rollup.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		portfolio: p.Portfolio,
		overview:  p.Overview,
	}
}

// Run implements domain.Service.
func (s *Service) Run(ctx context.Context) (rollupdomain.PortfolioRollup, error) {
	totals, err := s.portfolio.PortfolioMetrics(ctx)
	if err != nil {
		return rollupdomain.PortfolioRollup{}, err
	}
	operative, err := s.overview.OperativeMetrics(ctx)
	if err != nil {
		return rollupdomain.PortfolioRollup{}, err
	}

	now := s.clock.Now(ctx)
	rollup := rollupdomain.PortfolioRollup{
		ID:                   s.genID.Generate(),
		RollupDate:           now.Format(rollupDateLayout),
		TotalComplexes:       totals.TotalComplexes,
		FailedComplexes:      totals.FailedComplexes,
		TotalProperties:      totals.TotalProperties,
		TotalResidents:       totals.TotalResidents,
		TotalPendingFees:     totals.TotalPendingFees,
		TotalIncome:          totals.TotalIncome,
		TotalOpenTickets:     totals.TotalOpenTickets,
		TotalBudgetsApproved: totals.TotalBudgetsApproved,
		TotalExpenses:        totals.TotalExpenses,
		MRR:                  operative.MRR,
		ARR:                  operative.ARR,
		CreatedAt:            now,
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "rollup_date"}},
			UpdateAll: true,
		}).
		Create(&rollup).Error
	if err != nil {
		return rollupdomain.PortfolioRollup{}, err
	}

	s.log.Info("portfolio rollup persisted",
		zap.String("date", rollup.RollupDate),
		zap.Int("complexes", rollup.TotalComplexes),
		zap.Int("failed", rollup.FailedComplexes),
	)
	return rollup, nil
}

// Latest implements domain.Service.
func (s *Service) Latest(ctx context.Context) (rollupdomain.PortfolioRollup, error) {
	var rollup rollupdomain.PortfolioRollup
	err := s.db.WithContext(ctx).
		Order("rollup_date DESC").
		First(&rollup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rollupdomain.PortfolioRollup{}, rollupdomain.ErrRollupNotFound
		}
		return rollupdomain.PortfolioRollup{}, err
	}
	return rollup, nil
}

// History implements domain.Service.
func (s *Service) History(ctx context.Context, limit int) ([]rollupdomain.PortfolioRollup, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	var rollups []rollupdomain.PortfolioRollup
	err := s.db.WithContext(ctx).
		Order("rollup_date DESC").
		Limit(limit).
		Find(&rollups).Error
	if err != nil {
		return nil, err
	}
	return rollups, nil
}
