package dto

import "github.com/guttosm/contractpulse/internal/domain/models"

// OverviewResponse represents the JSON structure returned by the
// GET /api/v1/quality/overview endpoint.
//
// It pairs the raw overview metrics with the derived dashboard indicators and
// the reference date the metrics were computed for.
type OverviewResponse struct {
	AsOf       string                `json:"asOf" example:"2025-09-15"`
	Metrics    models.QualityMetrics `json:"metrics"`
	Indicators models.Indicators     `json:"indicators"`
}

// DashboardResponse wraps the full dashboard with its reference date.
type DashboardResponse struct {
	AsOf string `json:"asOf" example:"2025-09-15"`
	models.Dashboard
}
