package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	financedomain "github.com/armoniahq/armonia/internal/finance/domain"
	overviewdomain "github.com/armoniahq/armonia/internal/overview/domain"
	portfoliodomain "github.com/armoniahq/armonia/internal/portfolio/domain"
	rollupdomain "github.com/armoniahq/armonia/internal/rollup/domain"
	tenantdomain "github.com/armoniahq/armonia/internal/tenant/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTenantSvc struct {
	complex tenantdomain.Complex
	err     error
}

func (f *fakeTenantSvc) Create(ctx context.Context, req tenantdomain.CreateComplexRequest) (tenantdomain.Complex, error) {
	return f.complex, f.err
}

func (f *fakeTenantSvc) Get(ctx context.Context, id string) (tenantdomain.Complex, error) {
	return f.complex, f.err
}

func (f *fakeTenantSvc) List(ctx context.Context) ([]tenantdomain.Complex, error) {
	return []tenantdomain.Complex{f.complex}, f.err
}

func (f *fakeTenantSvc) ListActive(ctx context.Context) ([]tenantdomain.Complex, error) {
	return []tenantdomain.Complex{f.complex}, f.err
}

func (f *fakeTenantSvc) SetActive(ctx context.Context, id string, active bool) error {
	return f.err
}

type fakePortfolioSvc struct {
	totals    portfoliodomain.PortfolioTotals
	snapshots []portfoliodomain.ComplexSnapshot
	err       error
}

func (f *fakePortfolioSvc) PortfolioMetrics(ctx context.Context) (portfoliodomain.PortfolioTotals, error) {
	return f.totals, f.err
}

func (f *fakePortfolioSvc) ComplexMetrics(ctx context.Context) ([]portfoliodomain.ComplexSnapshot, error) {
	return f.snapshots, f.err
}

type fakeFinanceSvc struct {
	report financedomain.ConsolidatedReport
	err    error
}

func (f *fakeFinanceSvc) ConsolidatedSummary(ctx context.Context, start, end time.Time) (financedomain.ConsolidatedReport, error) {
	if f.err != nil {
		return financedomain.ConsolidatedReport{}, f.err
	}
	report := f.report
	report.StartDate = start
	report.EndDate = end
	return report, nil
}

func (f *fakeFinanceSvc) Summary(ctx context.Context, schemaName string) (financedomain.ComplexSummary, error) {
	return financedomain.ComplexSummary{}, f.err
}

func (f *fakeFinanceSvc) RecentTransactions(ctx context.Context, schemaName string) ([]financedomain.Transaction, error) {
	return nil, f.err
}

type fakeOverviewSvc struct {
	metrics overviewdomain.OperativeMetrics
	err     error
}

func (f *fakeOverviewSvc) OperativeMetrics(ctx context.Context) (overviewdomain.OperativeMetrics, error) {
	return f.metrics, f.err
}

type fakeReportSvc struct {
	data []byte
	err  error
}

func (f *fakeReportSvc) ConsolidatedPDF(ctx context.Context, report financedomain.ConsolidatedReport) ([]byte, error) {
	return f.data, f.err
}

func (f *fakeReportSvc) ConsolidatedXLSX(ctx context.Context, report financedomain.ConsolidatedReport) ([]byte, error) {
	return f.data, f.err
}

type fakeRollupSvc struct {
	rollup rollupdomain.PortfolioRollup
	err    error
}

func (f *fakeRollupSvc) Run(ctx context.Context) (rollupdomain.PortfolioRollup, error) {
	return f.rollup, f.err
}

func (f *fakeRollupSvc) Latest(ctx context.Context) (rollupdomain.PortfolioRollup, error) {
	return f.rollup, f.err
}

func (f *fakeRollupSvc) History(ctx context.Context, limit int) ([]rollupdomain.PortfolioRollup, error) {
	return []rollupdomain.PortfolioRollup{f.rollup}, f.err
}

type serverFakes struct {
	tenant    *fakeTenantSvc
	portfolio *fakePortfolioSvc
	finance   *fakeFinanceSvc
	overview  *fakeOverviewSvc
	report    *fakeReportSvc
	rollup    *fakeRollupSvc
}

func newTestServer() (*Server, *serverFakes) {
	fakes := &serverFakes{
		tenant:    &fakeTenantSvc{complex: tenantdomain.Complex{ID: 1, SchemaName: "villa_del_sol", Name: "Villa del Sol", IsActive: true}},
		portfolio: &fakePortfolioSvc{},
		finance:   &fakeFinanceSvc{},
		overview:  &fakeOverviewSvc{},
		report:    &fakeReportSvc{data: []byte("%PDF-1.7 test")},
		rollup:    &fakeRollupSvc{},
	}
	srv := &Server{
		log:          zap.NewNop(),
		tenantSvc:    fakes.tenant,
		portfolioSvc: fakes.portfolio,
		financeSvc:   fakes.finance,
		overviewSvc:  fakes.overview,
		reportSvc:    fakes.report,
		rollupSvc:    fakes.rollup,
		registry:     prometheus.NewRegistry(),
	}
	return srv, fakes
}

func doRequest(t *testing.T, srv *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestGetOperativeMetrics(t *testing.T) {
	srv, fakes := newTestServer()
	fakes.overview.metrics = overviewdomain.OperativeMetrics{
		TotalComplexes: 3,
		MRR:            decimal.RequireFromString("300.00"),
		ARR:            decimal.RequireFromString("3600.00"),
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/overview/metrics")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data overviewdomain.OperativeMetrics `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body.Data.TotalComplexes)
	assert.Equal(t, "300", body.Data.MRR.String())
}

func TestGetConsolidatedSummaryValidation(t *testing.T) {
	srv, _ := newTestServer()

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/finances/consolidated")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/finances/consolidated?start_date=2026-01-01&end_date=bogus")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetConsolidatedSummaryInclusiveEndDate(t *testing.T) {
	srv, _ := newTestServer()

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/finances/consolidated?start_date=2026-01-01&end_date=2026-01-31")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data financedomain.ConsolidatedReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 31, body.Data.EndDate.Day())
	assert.Equal(t, 23, body.Data.EndDate.Hour())
}

func TestGetConsolidatedSummaryDomainErrorMapsTo400(t *testing.T) {
	srv, fakes := newTestServer()
	fakes.finance.err = financedomain.ErrInvalidDateRange

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/finances/consolidated?start_date=2026-02-01&end_date=2026-01-01")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadConsolidatedReport(t *testing.T) {
	srv, _ := newTestServer()

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/finances/consolidated/report?start_date=2026-01-01&end_date=2026-01-31&format=pdf")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "consolidated-report-2026-01-01-2026-01-31.pdf")

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/finances/consolidated/report?start_date=2026-01-01&end_date=2026-01-31&format=csv")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetComplexNotFoundMapsTo404(t *testing.T) {
	srv, fakes := newTestServer()
	fakes.tenant.err = tenantdomain.ErrComplexNotFound

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/complexes/123")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownErrorIsOpaque500(t *testing.T) {
	srv, fakes := newTestServer()
	fakes.portfolio.err = errors.New("pq: password authentication failed")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/portfolio/metrics")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer()

	rec := doRequest(t, srv, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}
