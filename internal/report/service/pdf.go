package service

import (
	"context"
	"fmt"

	financedomain "github.com/armoniahq/armonia/internal/finance/domain"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ConsolidatedPDF implements domain.Service. Complexes whose collection
// failed are rendered with an "unavailable" note instead of figures, so
// the document never hides partial coverage.
func (s *Service) ConsolidatedPDF(ctx context.Context, report financedomain.ConsolidatedReport) ([]byte, error) {
	m := s.newDocument()

	m.AddRow(12, text.NewCol(12, reportTitle, props.Text{
		Size:  16,
		Style: fontstyle.Bold,
		Align: align.Center,
	}))
	m.AddRow(8, text.NewCol(12, fmt.Sprintf("Period %s to %s",
		report.StartDate.Format(dateLayout), report.EndDate.Format(dateLayout)), props.Text{
		Size:  10,
		Align: align.Center,
	}))
	m.AddRow(6)

	header := props.Text{Size: 10, Style: fontstyle.Bold}
	headerRight := props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}
	m.AddRow(7,
		text.NewCol(6, "Complex", header),
		text.NewCol(2, "Income", headerRight),
		text.NewCol(2, "Expenses", headerRight),
		text.NewCol(2, "Net", headerRight),
	)

	cell := props.Text{Size: 9}
	cellRight := props.Text{Size: 9, Align: align.Right}
	for _, cr := range report.ComplexReports {
		if cr.Error != "" {
			m.AddRow(6,
				text.NewCol(6, cr.ComplexName, cell),
				text.NewCol(6, failedRowNote, props.Text{Size: 9, Style: fontstyle.Italic, Align: align.Right}),
			)
			continue
		}
		m.AddRow(6,
			text.NewCol(6, cr.ComplexName, cell),
			text.NewCol(2, cr.Income.StringFixed(2), cellRight),
			text.NewCol(2, cr.Expenses.StringFixed(2), cellRight),
			text.NewCol(2, cr.NetBalance.StringFixed(2), cellRight),
		)
	}

	m.AddRow(4)
	totals := props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}
	m.AddRow(7,
		text.NewCol(6, "Total", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(2, report.TotalIncomeAllComplexes.StringFixed(2), totals),
		text.NewCol(2, report.TotalExpensesAllComplexes.StringFixed(2), totals),
		text.NewCol(2, report.NetBalanceAllComplexes.StringFixed(2), totals),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func (s *Service) newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		Build()
	return maroto.New(cfg)
}
