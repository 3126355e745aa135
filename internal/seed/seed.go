package seed

import (
	"context"
	"errors"
	"time"

	"github.com/armoniahq/armonia/internal/migration"
	plandomain "github.com/armoniahq/armonia/internal/plan/domain"
	tenantdomain "github.com/armoniahq/armonia/internal/tenant/domain"
	"github.com/armoniahq/armonia/internal/tenant/store"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureDemoData seeds plans, demo complexes and their tenant data for
// local development. It is idempotent: re-running updates nothing that
// already exists.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	plans, err := ensurePlans(ctx, db, node)
	if err != nil {
		return err
	}

	demos := []struct {
		schema string
		name   string
		plan   string
	}{
		{"torres_del_parque", "Torres del Parque", "Standard"},
		{"villa_del_sol", "Villa del Sol", "Premium"},
	}
	for _, demo := range demos {
		if err := ensureComplex(ctx, db, node, demo.schema, demo.name, plans[demo.plan]); err != nil {
			return err
		}
	}
	return nil
}

func ensurePlans(ctx context.Context, db *gorm.DB, node *snowflake.Node) (map[string]plandomain.Plan, error) {
	defs := []struct {
		name  string
		price string
		cycle plandomain.BillingCycle
	}{
		{"Basic", "49.00", plandomain.BillingCycleMonthly},
		{"Standard", "99.00", plandomain.BillingCycleMonthly},
		{"Premium", "999.00", plandomain.BillingCycleYearly},
	}

	now := time.Now().UTC()
	plans := make(map[string]plandomain.Plan, len(defs))
	for _, def := range defs {
		var existing plandomain.Plan
		err := db.WithContext(ctx).Where("name = ?", def.name).First(&existing).Error
		if err == nil {
			plans[def.name] = existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		plan := plandomain.Plan{
			ID:           node.Generate(),
			Name:         def.name,
			Price:        decimal.RequireFromString(def.price),
			BillingCycle: def.cycle,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := db.WithContext(ctx).Create(&plan).Error; err != nil {
			return nil, err
		}
		plans[def.name] = plan
	}
	return plans, nil
}

func ensureComplex(ctx context.Context, db *gorm.DB, node *snowflake.Node, schema, name string, plan plandomain.Plan) error {
	var existing tenantdomain.Complex
	err := db.WithContext(ctx).Where("schema_name = ?", schema).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	planID := plan.ID
	complex := tenantdomain.Complex{
		ID:         node.Generate(),
		SchemaName: schema,
		Name:       name,
		PlanID:     &planID,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.WithContext(ctx).Create(&complex).Error; err != nil {
		return err
	}

	subscription := plandomain.Subscription{
		ID:        node.Generate(),
		ComplexID: complex.ID,
		PlanID:    plan.ID,
		Status:    plandomain.SubscriptionStatusActive,
		StartAt:   now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(&subscription).Error; err != nil {
		return err
	}

	if err := migration.MigrateTenantSchema(ctx, db, schema); err != nil {
		return err
	}
	return seedTenantData(ctx, db, node, schema)
}

func seedTenantData(ctx context.Context, db *gorm.DB, node *snowflake.Node, schema string) error {
	now := time.Now().UTC()
	insert := func(table string, rows any) error {
		return db.WithContext(ctx).
			Table(store.Qualify(db, schema, table)).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(rows).Error
	}

	owner := node.Generate()
	users := []tenantdomain.User{
		{ID: owner, Email: "admin@" + schema + ".test", Name: "Administrator", Role: "ADMIN", CreatedAt: now, UpdatedAt: now},
		{ID: node.Generate(), Email: "resident1@" + schema + ".test", Name: "Resident One", Role: "RESIDENT", CreatedAt: now, UpdatedAt: now},
		{ID: node.Generate(), Email: "resident2@" + schema + ".test", Name: "Resident Two", Role: "RESIDENT", CreatedAt: now, UpdatedAt: now},
	}
	if err := insert("users", &users); err != nil {
		return err
	}

	property := tenantdomain.Property{
		ID: node.Generate(), UnitNumber: "101", Type: "APARTMENT", OwnerID: &owner,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := insert("properties", &property); err != nil {
		return err
	}

	fee := tenantdomain.Fee{
		ID: node.Generate(), PropertyID: property.ID, Concept: "Monthly maintenance",
		Amount: decimal.RequireFromString("120.00"), Status: "PENDING",
		DueDate: now.AddDate(0, 0, 15), CreatedAt: now, UpdatedAt: now,
	}
	if err := insert("fees", &fee); err != nil {
		return err
	}

	payment := tenantdomain.Payment{
		ID: node.Generate(), Concept: "Monthly maintenance",
		Amount: decimal.RequireFromString("120.00"), Status: "COMPLETED",
		PaidAt: now.AddDate(0, 0, -10), CreatedAt: now,
	}
	if err := insert("payments", &payment); err != nil {
		return err
	}

	ticket := tenantdomain.Ticket{
		ID: node.Generate(), Title: "Elevator maintenance", Status: "OPEN", Priority: "MEDIUM",
		CreatedAt: now, UpdatedAt: now,
	}
	if err := insert("tickets", &ticket); err != nil {
		return err
	}

	budget := tenantdomain.Budget{
		ID: node.Generate(), Year: now.Year(),
		TotalAmount: decimal.RequireFromString("50000.00"), Status: "APPROVED",
		CreatedAt: now, UpdatedAt: now,
	}
	if err := insert("budgets", &budget); err != nil {
		return err
	}

	expense := tenantdomain.Expense{
		ID: node.Generate(), Description: "Gardening service",
		Amount: decimal.RequireFromString("350.00"), Status: "PAID",
		ExpenseDate: now.AddDate(0, 0, -5), CreatedAt: now,
	}
	return insert("expenses", &expense)
}
