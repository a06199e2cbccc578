package quality

import (
	"fmt"
	"time"

	"github.com/guttosm/contractpulse/internal/domain/models"
)

// InconsistencyGoal is the maximum acceptable inconsistency rate (%).
const InconsistencyGoal = 25.0

// Alert codes.
const (
	AlertExpiring30Days = "contracts_expiring_30d"
	AlertAutoRenewed    = "auto_renewed_contracts"
	AlertHighRiskRate   = "high_risk_rate"
	AlertCriticalCount  = "critical_contracts"
)

// AlertThresholds holds the limits above which a dashboard alert is raised.
// A metric must be strictly greater than its threshold.
type AlertThresholds struct {
	Expiring30Days     int
	AutoRenewed        int
	HighRiskPercentage float64
	CriticalContracts  int
}

// DefaultAlertThresholds returns the thresholds used by the quality dashboard.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		Expiring30Days:     0,
		AutoRenewed:        5,
		HighRiskPercentage: 5,
		CriticalContracts:  10,
	}
}

// ComputeIndicators derives the ratio cards shown next to the overview.
func ComputeIndicators(m models.QualityMetrics) models.Indicators {
	ind := models.Indicators{
		ComplianceRate:          100 - m.InconsistencyRate,
		TotalFinancialImpact:    m.TotalFinancialExposure + m.ProjectedPenalties,
		CriticalShare:           percentage(m.CriticalContracts, m.TotalContracts),
		Expiring30DaysShare:     percentage(m.ContractsExpiring30Days, m.TotalContracts),
		InconsistencyAboveGoal:  m.InconsistencyRate > InconsistencyGoal,
		InconsistencyGoalTarget: InconsistencyGoal,
	}
	if m.TotalFinancialExposure != 0 {
		ind.PenaltyExposureRatio = m.ProjectedPenalties / m.TotalFinancialExposure * 100
	}
	return ind
}

// EvaluateAlerts returns the alerts raised by m, in a fixed order: expiring
// contracts, auto renewals, high-risk rate, critical count.
func EvaluateAlerts(m models.QualityMetrics, th AlertThresholds) []models.Alert {
	alerts := make([]models.Alert, 0, 4)

	if m.ContractsExpiring30Days > th.Expiring30Days {
		alerts = append(alerts, models.Alert{
			Code:     AlertExpiring30Days,
			Severity: models.SeverityUrgent,
			Message:  fmt.Sprintf("%d contratos vencendo em 30 dias", m.ContractsExpiring30Days),
			Value:    float64(m.ContractsExpiring30Days),
		})
	}
	if m.AutoRenewedContracts > th.AutoRenewed {
		alerts = append(alerts, models.Alert{
			Code:     AlertAutoRenewed,
			Severity: models.SeverityReview,
			Message:  fmt.Sprintf("%d contratos renovados automaticamente", m.AutoRenewedContracts),
			Value:    float64(m.AutoRenewedContracts),
		})
	}
	if m.HighRiskPercentage > th.HighRiskPercentage {
		alerts = append(alerts, models.Alert{
			Code:     AlertHighRiskRate,
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("taxa de alto risco em %.1f%%", m.HighRiskPercentage),
			Value:    m.HighRiskPercentage,
		})
	}
	if m.CriticalContracts > th.CriticalContracts {
		alerts = append(alerts, models.Alert{
			Code:     AlertCriticalCount,
			Severity: models.SeverityUrgent,
			Message:  fmt.Sprintf("%d contratos críticos identificados", m.CriticalContracts),
			Value:    float64(m.CriticalContracts),
		})
	}
	return alerts
}

// BuildDashboard computes every quality view from one snapshot.
func BuildDashboard(records []models.Contract, now time.Time, th AlertThresholds) models.Dashboard {
	overview := ComputeOverview(records, now)
	return models.Dashboard{
		Overview:      overview,
		Indicators:    ComputeIndicators(overview),
		Distribution:  ComputeInconsistencyDistribution(records, now),
		Suppliers:     ComputeSupplierRanking(records),
		RiskBreakdown: ComputeContractRiskBreakdown(records),
		Alerts:        EvaluateAlerts(overview, th),
	}
}
