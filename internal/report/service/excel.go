package service

import (
	"context"
	"fmt"

	financedomain "github.com/armoniahq/armonia/internal/finance/domain"
	"github.com/xuri/excelize/v2"
)

const consolidatedSheet = "Consolidated"

// ConsolidatedXLSX implements domain.Service. Amounts are written as
// numbers so the sheet stays usable for further calculation; failed
// complexes carry the "unavailable" note in the income column.
func (s *Service) ConsolidatedXLSX(ctx context.Context, report financedomain.ConsolidatedReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", consolidatedSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	set := func(cell string, value any) error {
		return f.SetCellValue(consolidatedSheet, cell, value)
	}

	if err := set("A1", reportTitle); err != nil {
		return nil, err
	}
	if err := set("A2", fmt.Sprintf("Period %s to %s",
		report.StartDate.Format(dateLayout), report.EndDate.Format(dateLayout))); err != nil {
		return nil, err
	}

	headers := []string{"Complex", "Income", "Expenses", "Net Balance"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 4)
		if err != nil {
			return nil, err
		}
		if err := set(cell, h); err != nil {
			return nil, err
		}
	}

	row := 5
	for _, cr := range report.ComplexReports {
		if err := set(fmt.Sprintf("A%d", row), cr.ComplexName); err != nil {
			return nil, err
		}
		if cr.Error != "" {
			if err := set(fmt.Sprintf("B%d", row), failedRowNote); err != nil {
				return nil, err
			}
			row++
			continue
		}
		if err := set(fmt.Sprintf("B%d", row), cr.Income.InexactFloat64()); err != nil {
			return nil, err
		}
		if err := set(fmt.Sprintf("C%d", row), cr.Expenses.InexactFloat64()); err != nil {
			return nil, err
		}
		if err := set(fmt.Sprintf("D%d", row), cr.NetBalance.InexactFloat64()); err != nil {
			return nil, err
		}
		row++
	}

	row++
	if err := set(fmt.Sprintf("A%d", row), "Total"); err != nil {
		return nil, err
	}
	if err := set(fmt.Sprintf("B%d", row), report.TotalIncomeAllComplexes.InexactFloat64()); err != nil {
		return nil, err
	}
	if err := set(fmt.Sprintf("C%d", row), report.TotalExpensesAllComplexes.InexactFloat64()); err != nil {
		return nil, err
	}
	if err := set(fmt.Sprintf("D%d", row), report.NetBalanceAllComplexes.InexactFloat64()); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
