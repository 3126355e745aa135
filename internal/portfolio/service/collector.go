package service

import (
	"context"

	portfoliodomain "github.com/armoniahq/armonia/internal/portfolio/domain"
	tenantdomain "github.com/armoniahq/armonia/internal/tenant/domain"
	"golang.org/x/sync/errgroup"
)

// Tenant schema tables and the status filters of the metric battery.
// These mirror the per-complex data model owned by the tenant services;
// this core only ever reads them.
const (
	tableProperties = "properties"
	tableUsers      = "users"
	tableFees       = "fees"
	tablePayments   = "payments"
	tableTickets    = "tickets"
	tableBudgets    = "budgets"
	tableExpenses   = "expenses"
)

// collect gathers the fixed metric battery for one complex. The seven
// reads are independent and run concurrently against the scoped store.
// Any failure degrades the whole snapshot to an error snapshot; collect
// never returns an error to the caller.
func (s *Service) collect(ctx context.Context, complex tenantdomain.Complex) portfoliodomain.ComplexSnapshot {
	snapshot := portfoliodomain.ComplexSnapshot{
		ComplexID: complex.ID,
		Name:      complex.Name,
	}

	store, err := s.stores.Scoped(complex.SchemaName)
	if err != nil {
		snapshot.Error = err.Error()
		return snapshot
	}

	var metrics portfoliodomain.ComplexMetrics
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := store.Count(gctx, tableProperties, "")
		metrics.Properties = n
		return err
	})
	g.Go(func() error {
		n, err := store.Count(gctx, tableUsers, "role = ?", "RESIDENT")
		metrics.Residents = n
		return err
	})
	g.Go(func() error {
		sum, err := store.Sum(gctx, tableFees, "amount", "status = ?", "PENDING")
		metrics.PendingFees = sum
		return err
	})
	g.Go(func() error {
		sum, err := store.Sum(gctx, tablePayments, "amount", "status = ?", "COMPLETED")
		metrics.Income = sum
		return err
	})
	g.Go(func() error {
		n, err := store.Count(gctx, tableTickets, "status NOT IN (?, ?)", "RESOLVED", "CLOSED")
		metrics.OpenTickets = n
		return err
	})
	g.Go(func() error {
		sum, err := store.Sum(gctx, tableBudgets, "total_amount", "status = ?", "APPROVED")
		metrics.BudgetApproved = sum
		return err
	})
	g.Go(func() error {
		sum, err := store.Sum(gctx, tableExpenses, "amount", "status = ?", "PAID")
		metrics.Expenses = sum
		return err
	})

	if err := g.Wait(); err != nil {
		snapshot.Error = err.Error()
		return snapshot
	}

	snapshot.Metrics = &metrics
	return snapshot
}
