package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	tenantdomain "github.com/armoniahq/armonia/internal/tenant/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() tenantdomain.Registry {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, c *tenantdomain.Complex) error {
	return db.WithContext(ctx).Create(c).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*tenantdomain.Complex, error) {
	var c tenantdomain.Complex
	err := db.WithContext(ctx).Raw(
		`SELECT id, schema_name, name, plan_id, is_active, created_at, updated_at
		 FROM residential_complexes WHERE id = ?`,
		id,
	).Scan(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) FindBySchemaName(ctx context.Context, db *gorm.DB, schemaName string) (*tenantdomain.Complex, error) {
	var c tenantdomain.Complex
	err := db.WithContext(ctx).Raw(
		`SELECT id, schema_name, name, plan_id, is_active, created_at, updated_at
		 FROM residential_complexes WHERE schema_name = ? LIMIT 1`,
		schemaName,
	).Scan(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]tenantdomain.Complex, error) {
	var items []tenantdomain.Complex
	err := db.WithContext(ctx).
		Model(&tenantdomain.Complex{}).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB) ([]tenantdomain.Complex, error) {
	var items []tenantdomain.Complex
	err := db.WithContext(ctx).
		Model(&tenantdomain.Complex{}).
		Where("is_active = ?", true).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool) error {
	res := db.WithContext(ctx).Exec(
		`UPDATE residential_complexes SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		active,
		id,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tenantdomain.ErrComplexNotFound
	}
	return nil
}
