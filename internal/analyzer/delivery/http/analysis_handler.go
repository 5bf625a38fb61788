package http

import (
	"errors"
	"net/http"
	"time"

	"crypto-news-radar/internal/analyzer/dto"
	"crypto-news-radar/internal/analyzer/service"
	"crypto-news-radar/pkg/common"
	"crypto-news-radar/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultChartWindow = 24 * time.Hour

// AnalysisHandler handles HTTP requests for analysis runs and charts.
type AnalysisHandler struct {
	analyzerService service.AnalyzerService
	chartProvider   *service.ChartSeriesProvider
	logger          *logger.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analyzerService service.AnalyzerService, chartProvider *service.ChartSeriesProvider, logger *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzerService: analyzerService,
		chartProvider:   chartProvider,
		logger:          logger,
	}
}

// RegisterRoutes registers the analysis routes to the Echo group.
func (h *AnalysisHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/analysis", h.RunAnalysis)
	g.GET("/charts/:ticker", h.GetChart)
}

// RunAnalysis triggers a full analysis of the recent news window.
func (h *AnalysisHandler) RunAnalysis(c echo.Context) error {
	var req dto.AnalysisRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	if req.APIKey == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "api_key is required"})
	}
	if req.HoursBack <= 0 {
		req.HoursBack = 2
	}

	result, err := h.analyzerService.Analyze(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Analysis run failed", logger.ErrorField(err))
		if errors.Is(err, common.ErrAuthentication) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, result)
}

// GetChart returns an OHLC series for a ticker. Start and end default to the
// last 24 hours; an empty series means no chart is available.
func (h *AnalysisHandler) GetChart(c echo.Context) error {
	ticker := c.Param("ticker")
	if ticker == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticker is required"})
	}

	end := time.Now()
	start := end.Add(-defaultChartWindow)

	if v := c.QueryParam("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "start must be RFC3339"})
		}
		start = t
	}
	if v := c.QueryParam("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must be RFC3339"})
		}
		end = t
	}

	points := h.chartProvider.Series(c.Request().Context(), ticker, start, end)

	return c.JSON(http.StatusOK, points)
}
