package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	financedomain "github.com/armoniahq/armonia/internal/finance/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleReport() financedomain.ConsolidatedReport {
	return financedomain.ConsolidatedReport{
		StartDate:                 time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:                   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		TotalIncomeAllComplexes:   dec("3500.50"),
		TotalExpensesAllComplexes: dec("1150.25"),
		NetBalanceAllComplexes:    dec("2350.25"),
		ComplexReports: []financedomain.ComplexPeriodReport{
			{
				ComplexName: "Torres del Parque",
				Income:      dec("1500.50"),
				Expenses:    dec("400.25"),
				NetBalance:  dec("1100.25"),
			},
			{
				ComplexName: "Villa del Sol",
				Income:      dec("2000.00"),
				Expenses:    dec("750.00"),
				NetBalance:  dec("1250.00"),
			},
			{
				ComplexName: "Mirador Alto",
				Error:       "connection refused",
			},
		},
	}
}

func newTestService() *Service {
	return &Service{log: zap.NewNop()}
}

func TestConsolidatedPDFRendersDocument(t *testing.T) {
	svc := newTestService()

	data, err := svc.ConsolidatedPDF(context.Background(), sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestConsolidatedPDFHandlesEmptyPortfolio(t *testing.T) {
	svc := newTestService()

	report := financedomain.ConsolidatedReport{
		StartDate:                 time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:                   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		TotalIncomeAllComplexes:   decimal.Zero,
		TotalExpensesAllComplexes: decimal.Zero,
		NetBalanceAllComplexes:    decimal.Zero,
	}
	data, err := svc.ConsolidatedPDF(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestConsolidatedXLSXRoundTrips(t *testing.T) {
	svc := newTestService()

	data, err := svc.ConsolidatedXLSX(context.Background(), sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	name, err := f.GetCellValue(consolidatedSheet, "A5")
	require.NoError(t, err)
	assert.Equal(t, "Torres del Parque", name)

	income, err := f.GetCellValue(consolidatedSheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "1500.5", income)

	// The failed complex carries a note instead of figures.
	failed, err := f.GetCellValue(consolidatedSheet, "A7")
	require.NoError(t, err)
	assert.Equal(t, "Mirador Alto", failed)
	note, err := f.GetCellValue(consolidatedSheet, "B7")
	require.NoError(t, err)
	assert.Equal(t, "unavailable", note)

	total, err := f.GetCellValue(consolidatedSheet, "B9")
	require.NoError(t, err)
	assert.Equal(t, "3500.5", total)
}
