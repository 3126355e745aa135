package store

import (
	"context"
	"fmt"
	"strings"

	tenantdomain "github.com/armoniahq/armonia/internal/tenant/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store is the scoped query handle for one tenant schema. It preserves the
// accessor contract the aggregation core consumes: counts, filtered sum
// aggregates, and record listings. All reads are read-only.
type Store interface {
	// Count returns the number of rows in table matching cond.
	Count(ctx context.Context, table, cond string, args ...any) (int64, error)
	// Sum returns the sum of column over rows matching cond. A sum with
	// no matching rows is zero, never an error.
	Sum(ctx context.Context, table, column, cond string, args ...any) (decimal.Decimal, error)
	// Find loads rows matching cond into dest, newest-first when orderBy
	// is set, capped at limit when limit > 0.
	Find(ctx context.Context, dest any, table, cond, orderBy string, limit int, args ...any) error
}

// Manager resolves a tenant schema name to a scoped Store. It is the only
// component that knows how tenant isolation is spelled in SQL.
type Manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// Scoped returns a Store bound to schemaName. The schema name must come
// from the registry; anything else is rejected before it reaches SQL.
func (m *Manager) Scoped(schemaName string) (Store, error) {
	if !tenantdomain.ValidSchemaName(schemaName) {
		return nil, tenantdomain.ErrInvalidSchemaName
	}
	return &gormStore{db: m.db, schema: schemaName}, nil
}

type gormStore struct {
	db     *gorm.DB
	schema string
}

func (s *gormStore) qualify(table string) string {
	return Qualify(s.db, s.schema, table)
}

// Qualify maps a logical table name into a tenant's namespace. Postgres
// tenants are real schemas; the sqlite driver used in tests has no schema
// support, so tenancy degrades to a table-name prefix there.
func Qualify(db *gorm.DB, schema, table string) string {
	if db.Dialector.Name() == "sqlite" {
		return schema + "_" + table
	}
	return schema + "." + table
}

func (s *gormStore) Count(ctx context.Context, table, cond string, args ...any) (int64, error) {
	var count int64
	q := s.db.WithContext(ctx).Table(s.qualify(table))
	if cond != "" {
		q = q.Where(cond, args...)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}

func (s *gormStore) Sum(ctx context.Context, table, column, cond string, args ...any) (decimal.Decimal, error) {
	var row struct {
		Total decimal.NullDecimal `gorm:"column:total"`
	}
	q := s.db.WithContext(ctx).Table(s.qualify(table)).
		Select(fmt.Sprintf("SUM(%s) AS total", column))
	if cond != "" {
		q = q.Where(cond, args...)
	}
	if err := q.Scan(&row).Error; err != nil {
		return decimal.Zero, fmt.Errorf("sum %s.%s: %w", table, column, err)
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}

func (s *gormStore) Find(ctx context.Context, dest any, table, cond, orderBy string, limit int, args ...any) error {
	q := s.db.WithContext(ctx).Table(s.qualify(table))
	if cond != "" {
		q = q.Where(cond, args...)
	}
	if strings.TrimSpace(orderBy) != "" {
		q = q.Order(orderBy)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(dest).Error; err != nil {
		return fmt.Errorf("find %s: %w", table, err)
	}
	return nil
}
