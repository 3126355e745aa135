package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	plandomain "github.com/armoniahq/armonia/internal/plan/domain"
	rollupdomain "github.com/armoniahq/armonia/internal/rollup/domain"
	tenantdomain "github.com/armoniahq/armonia/internal/tenant/domain"
	"github.com/armoniahq/armonia/internal/tenant/store"
	"gorm.io/gorm"
)

// tenantTables pairs each logical tenant table with its model. Order
// matters only for readability.
var tenantTables = []struct {
	name  string
	model any
}{
	{"properties", &tenantdomain.Property{}},
	{"users", &tenantdomain.User{}},
	{"fees", &tenantdomain.Fee{}},
	{"payments", &tenantdomain.Payment{}},
	{"tickets", &tenantdomain.Ticket{}},
	{"budgets", &tenantdomain.Budget{}},
	{"expenses", &tenantdomain.Expense{}},
}

// RunMigrations migrates the shared registry tables and then every
// registered complex's tenant schema. On Postgres the whole run is
// guarded by an advisory lock so concurrent deployments cannot race.
func RunMigrations(db *gorm.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if db.Dialector.Name() == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		lock, err := acquireMigrationLock(ctx, sqlDB)
		if err != nil {
			return err
		}
		defer func() {
			_ = lock.Release(context.Background())
		}()
	}

	if err := migrateRegistry(ctx, db); err != nil {
		return err
	}

	var complexes []tenantdomain.Complex
	if err := db.WithContext(ctx).Find(&complexes).Error; err != nil {
		return fmt.Errorf("list complexes for migration: %w", err)
	}
	for _, complex := range complexes {
		if err := MigrateTenantSchema(ctx, db, complex.SchemaName); err != nil {
			return err
		}
	}
	return nil
}

func migrateRegistry(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).AutoMigrate(
		&tenantdomain.Complex{},
		&plandomain.Plan{},
		&plandomain.Subscription{},
		&rollupdomain.PortfolioRollup{},
	)
	if err != nil {
		return fmt.Errorf("migrate registry tables: %w", err)
	}
	return nil
}

// MigrateTenantSchema creates schemaName's namespace and its tables. It
// is called during migration for existing complexes and at registration
// time for new ones.
func MigrateTenantSchema(ctx context.Context, db *gorm.DB, schemaName string) error {
	if db.Dialector.Name() == "postgres" {
		stmt := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %q", schemaName)
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("create schema %s: %w", schemaName, err)
		}
	}

	for _, t := range tenantTables {
		qualified := store.Qualify(db, schemaName, t.name)
		if err := db.WithContext(ctx).Table(qualified).AutoMigrate(t.model); err != nil {
			return fmt.Errorf("migrate %s: %w", qualified, err)
		}
	}
	return nil
}
