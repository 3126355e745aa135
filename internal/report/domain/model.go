package domain

import (
	"context"

	financedomain "github.com/armoniahq/armonia/internal/finance/domain"
)

// Service renders consolidated financial reports into downloadable
// documents. Rendering is pure formatting; figures arrive already
// aggregated.
type Service interface {
	ConsolidatedPDF(ctx context.Context, report financedomain.ConsolidatedReport) ([]byte, error)
	ConsolidatedXLSX(ctx context.Context, report financedomain.ConsolidatedReport) ([]byte, error)
}
