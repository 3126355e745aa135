package service

import (
	"context"
	"strings"

	"github.com/armoniahq/armonia/internal/clock"
	"github.com/armoniahq/armonia/internal/migration"
	tenantdomain "github.com/armoniahq/armonia/internal/tenant/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  tenantdomain.Registry
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  tenantdomain.Registry
}

func NewService(p ServiceParam) tenantdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tenant.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req tenantdomain.CreateComplexRequest) (tenantdomain.Complex, error) {
	schemaName := strings.ToLower(strings.TrimSpace(req.SchemaName))
	name := strings.TrimSpace(req.Name)
	if schemaName == "" || name == "" {
		return tenantdomain.Complex{}, tenantdomain.ErrInvalidComplex
	}
	if !tenantdomain.ValidSchemaName(schemaName) {
		return tenantdomain.Complex{}, tenantdomain.ErrInvalidSchemaName
	}

	existing, err := s.repo.FindBySchemaName(ctx, s.db, schemaName)
	if err != nil {
		return tenantdomain.Complex{}, err
	}
	if existing != nil {
		return tenantdomain.Complex{}, tenantdomain.ErrInvalidSchemaName
	}

	var planID *snowflake.ID
	if trimmed := strings.TrimSpace(req.PlanID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil {
			return tenantdomain.Complex{}, tenantdomain.ErrInvalidComplex
		}
		planID = &parsed
	}

	now := s.clock.Now(ctx)
	complex := tenantdomain.Complex{
		ID:         s.genID.Generate(),
		SchemaName: schemaName,
		Name:       name,
		PlanID:     planID,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, s.db, &complex); err != nil {
		return tenantdomain.Complex{}, err
	}
	if err := migration.MigrateTenantSchema(ctx, s.db, schemaName); err != nil {
		return tenantdomain.Complex{}, err
	}

	s.log.Info("complex registered",
		zap.String("schema", schemaName),
		zap.String("name", name),
	)
	return complex, nil
}

func (s *Service) Get(ctx context.Context, id string) (tenantdomain.Complex, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return tenantdomain.Complex{}, tenantdomain.ErrInvalidComplex
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return tenantdomain.Complex{}, err
	}
	if item == nil {
		return tenantdomain.Complex{}, tenantdomain.ErrComplexNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context) ([]tenantdomain.Complex, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) ListActive(ctx context.Context) ([]tenantdomain.Complex, error) {
	return s.repo.ListActive(ctx, s.db)
}

func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return tenantdomain.ErrInvalidComplex
	}
	return s.repo.SetActive(ctx, s.db, parsed, active)
}
