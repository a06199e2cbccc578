package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/contractpulse/internal/domain/dto"
	"github.com/guttosm/contractpulse/internal/middleware"
	"github.com/guttosm/contractpulse/internal/quality"
	"github.com/guttosm/contractpulse/internal/service"
)

// dateLayout is the format of the as_of query parameter.
const dateLayout = "2006-01-02"

// Handler provides HTTP handlers for the contract quality endpoints.
//
// Responsibilities:
//   - Parse the optional as_of reference date
//   - Delegate to the quality service with the request context
//   - Map service errors to HTTP status codes
//   - Return structured JSON responses
type Handler struct {
	svc service.QualityService
	now func() time.Time
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.QualityService): computes the quality views.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.QualityService) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// GetOverview handles GET /api/v1/quality/overview.
//
// GetOverview godoc
// @Summary      Quality overview
// @Description  Headline contract-quality metrics plus derived indicators (compliance rate, financial impact, goal tracking)
// @Tags         quality
// @Produce      json
// @Param        as_of  query     string  false  "Reference date in YYYY-MM-DD (defaults to now)" example(2025-09-15)
// @Success      200    {object}  dto.OverviewResponse  "Success"
// @Failure      400    {object}  dto.ErrorResponse     "Bad Request"
// @Failure      404    {object}  dto.ErrorResponse     "No data set"
// @Failure      500    {object}  dto.ErrorResponse     "Internal Error"
// @Failure      503    {object}  dto.ErrorResponse     "Data source unavailable"
// @Router       /api/v1/quality/overview [get]
func (h *Handler) GetOverview(c *gin.Context) {
	asOf, ok := h.parseAsOf(c)
	if !ok {
		return
	}

	m, err := h.svc.Overview(c.Request.Context(), asOf)
	if err != nil {
		h.fail(c, "failed to compute quality overview", err)
		return
	}

	c.JSON(http.StatusOK, dto.OverviewResponse{
		AsOf:       h.asOfLabel(asOf),
		Metrics:    m,
		Indicators: quality.ComputeIndicators(m),
	})
}

// GetDistribution handles GET /api/v1/quality/distribution.
//
// GetDistribution godoc
// @Summary      Inconsistency distribution
// @Description  Inconsistent contracts by type (fixed taxonomy) and by requesting area
// @Tags         quality
// @Produce      json
// @Param        as_of  query     string  false  "Reference date in YYYY-MM-DD (defaults to now)" example(2025-09-15)
// @Success      200    {object}  models.InconsistencyDistribution  "Success"
// @Failure      400    {object}  dto.ErrorResponse                 "Bad Request"
// @Failure      500    {object}  dto.ErrorResponse                 "Internal Error"
// @Failure      503    {object}  dto.ErrorResponse                 "Data source unavailable"
// @Router       /api/v1/quality/distribution [get]
func (h *Handler) GetDistribution(c *gin.Context) {
	asOf, ok := h.parseAsOf(c)
	if !ok {
		return
	}

	d, err := h.svc.Distribution(c.Request.Context(), asOf)
	if err != nil {
		h.fail(c, "failed to compute inconsistency distribution", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GetSuppliers handles GET /api/v1/quality/suppliers.
//
// GetSuppliers godoc
// @Summary      Problematic supplier ranking
// @Description  Top 10 suppliers by weighted inconsistency score
// @Tags         quality
// @Produce      json
// @Param        as_of  query     string  false  "Reference date in YYYY-MM-DD (defaults to now)" example(2025-09-15)
// @Success      200    {array}   models.SupplierRanking  "Success"
// @Failure      400    {object}  dto.ErrorResponse       "Bad Request"
// @Failure      500    {object}  dto.ErrorResponse       "Internal Error"
// @Failure      503    {object}  dto.ErrorResponse       "Data source unavailable"
// @Router       /api/v1/quality/suppliers [get]
func (h *Handler) GetSuppliers(c *gin.Context) {
	asOf, ok := h.parseAsOf(c)
	if !ok {
		return
	}

	r, err := h.svc.SupplierRanking(c.Request.Context(), asOf)
	if err != nil {
		h.fail(c, "failed to compute supplier ranking", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// GetRiskBreakdown handles GET /api/v1/quality/risk.
//
// GetRiskBreakdown godoc
// @Summary      Contract risk breakdown
// @Description  Contracts grouped by contract type and risk level, ordered by financial impact
// @Tags         quality
// @Produce      json
// @Param        as_of  query     string  false  "Reference date in YYYY-MM-DD (defaults to now)" example(2025-09-15)
// @Success      200    {array}   models.ContractRisk  "Success"
// @Failure      400    {object}  dto.ErrorResponse    "Bad Request"
// @Failure      500    {object}  dto.ErrorResponse    "Internal Error"
// @Failure      503    {object}  dto.ErrorResponse    "Data source unavailable"
// @Router       /api/v1/quality/risk [get]
func (h *Handler) GetRiskBreakdown(c *gin.Context) {
	asOf, ok := h.parseAsOf(c)
	if !ok {
		return
	}

	r, err := h.svc.RiskBreakdown(c.Request.Context(), asOf)
	if err != nil {
		h.fail(c, "failed to compute risk breakdown", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// GetDashboard handles GET /api/v1/quality/dashboard.
//
// GetDashboard godoc
// @Summary      Full quality dashboard
// @Description  Overview, indicators, distribution, supplier ranking, risk breakdown and alerts computed from one snapshot
// @Tags         quality
// @Produce      json
// @Param        as_of  query     string  false  "Reference date in YYYY-MM-DD (defaults to now)" example(2025-09-15)
// @Success      200    {object}  dto.DashboardResponse  "Success"
// @Failure      400    {object}  dto.ErrorResponse      "Bad Request"
// @Failure      404    {object}  dto.ErrorResponse      "No data set"
// @Failure      500    {object}  dto.ErrorResponse      "Internal Error"
// @Failure      503    {object}  dto.ErrorResponse      "Data source unavailable"
// @Router       /api/v1/quality/dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	asOf, ok := h.parseAsOf(c)
	if !ok {
		return
	}

	d, err := h.svc.Dashboard(c.Request.Context(), asOf)
	if err != nil {
		h.fail(c, "failed to compute quality dashboard", err)
		return
	}
	c.JSON(http.StatusOK, dto.DashboardResponse{AsOf: h.asOfLabel(asOf), Dashboard: d})
}

// parseAsOf reads the optional as_of parameter. On a malformed value it
// writes a 400 and returns ok=false.
func (h *Handler) parseAsOf(c *gin.Context) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query("as_of"))
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid as_of format, expected YYYY-MM-DD", err)
		return nil, false
	}
	return &t, true
}

func (h *Handler) asOfLabel(asOf *time.Time) string {
	if asOf != nil {
		return asOf.Format(dateLayout)
	}
	return h.now().Format(dateLayout)
}

// fail maps service errors onto status codes:
// ErrDataUnavailable → 503, ErrNoData → 404, anything else → 500.
func (h *Handler) fail(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, service.ErrDataUnavailable):
		middleware.AbortWithError(c, http.StatusServiceUnavailable, "contract data source unavailable", err)
	case errors.Is(err, service.ErrNoData):
		middleware.AbortWithError(c, http.StatusNotFound, "no contract data available", err)
	default:
		middleware.AbortWithError(c, http.StatusInternalServerError, message, err)
	}
}
