package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crypto-news-radar/internal/analyzer/dto"
	"crypto-news-radar/internal/analyzer/service"
	"crypto-news-radar/internal/analyzer/strategy"
	"crypto-news-radar/pkg/common"
	"crypto-news-radar/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzerService struct {
	result *dto.AnalysisResult
	err    error
	req    dto.AnalysisRequest
}

func (s *stubAnalyzerService) Analyze(ctx context.Context, req dto.AnalysisRequest) (*dto.AnalysisResult, error) {
	s.req = req
	return s.result, s.err
}

type stubChartStrategy struct {
	points []dto.OHLCPoint
}

func (s *stubChartStrategy) Name() string { return "stub" }

func (s *stubChartStrategy) PriceChange(ctx context.Context, ticker string, anchor *time.Time) (float64, bool) {
	return 0, false
}

func (s *stubChartStrategy) Series(ctx context.Context, ticker string, start, end time.Time) []dto.OHLCPoint {
	return s.points
}

func newHandlerTest(svc service.AnalyzerService, points []dto.OHLCPoint) *echo.Echo {
	e := echo.New()
	chartProvider := service.NewChartSeriesProvider(logger.NewNop(),
		[]strategy.MarketDataStrategy{&stubChartStrategy{points: points}})
	h := NewAnalysisHandler(svc, chartProvider, logger.NewNop())
	h.RegisterRoutes(e.Group("/api/v1"))
	return e
}

func TestRunAnalysis_OK(t *testing.T) {
	change := 10.0
	svc := &stubAnalyzerService{result: &dto.AnalysisResult{
		Highlights: []dto.Highlight{{Text: "1. $BTC: ETF approved", Ticker: "BTC", PriceChange: &change, TimeAgo: "10m"}},
	}}
	e := newHandlerTest(svc, nil)

	body := `{"api_key": "sk-test", "hours_back": 3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sk-test", svc.req.APIKey)
	assert.Equal(t, 3.0, svc.req.HoursBack)

	var result dto.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Highlights, 1)
	assert.Equal(t, "BTC", result.Highlights[0].Ticker)
}

func TestRunAnalysis_DefaultWindow(t *testing.T) {
	svc := &stubAnalyzerService{result: &dto.AnalysisResult{Highlights: []dto.Highlight{}}}
	e := newHandlerTest(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", strings.NewReader(`{"api_key": "sk-test"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, svc.req.HoursBack)
}

func TestRunAnalysis_MissingAPIKey(t *testing.T) {
	e := newHandlerTest(&stubAnalyzerService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", strings.NewReader(`{"hours_back": 2}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunAnalysis_AuthFailure(t *testing.T) {
	svc := &stubAnalyzerService{err: fmt.Errorf("%w: invalid api key", common.ErrAuthentication)}
	e := newHandlerTest(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", strings.NewReader(`{"api_key": "sk-bad"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRunAnalysis_UpstreamFailure(t *testing.T) {
	svc := &stubAnalyzerService{err: fmt.Errorf("news feed unavailable: connection refused")}
	e := newHandlerTest(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", strings.NewReader(`{"api_key": "sk-test"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetChart_OK(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	points := []dto.OHLCPoint{{Timestamp: base, Open: 1, High: 2, Low: 0.5, Close: 1.5}}
	e := newHandlerTest(&stubAnalyzerService{}, points)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/charts/BTC", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.OHLCPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 1.5, got[0].Close)
}

func TestGetChart_EmptySeries(t *testing.T) {
	e := newHandlerTest(&stubAnalyzerService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/charts/GHOST", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetChart_BadTimeRange(t *testing.T) {
	e := newHandlerTest(&stubAnalyzerService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/charts/BTC?start=yesterday", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
