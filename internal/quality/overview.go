// Package quality derives the contract-quality reporting metrics from a raw
// contract snapshot.
//
// Every function is pure: it reads the slice it is given, never mutates it,
// and returns freshly allocated results. Functions that depend on the
// current date take it explicitly so results are reproducible.
package quality

import (
	"time"

	"github.com/guttosm/contractpulse/internal/domain/models"
)

// ComputeOverview computes the headline quality metrics.
//
// Behavior:
//   - Inconsistency rate and high-risk percentage are 0 for an empty snapshot.
//   - Financial exposure sums the value of ALTO contracts only; projected
//     penalties sum the penalty of every contract.
//   - Expiry buckets use the day difference rounded up: (0,30], (30,60],
//     (60,90]. Missing or past expiry dates fall in no bucket.
//   - AverageResolutionTime is the fixed placeholder
//     models.AverageResolutionTimeDays.
func ComputeOverview(records []models.Contract, now time.Time) models.QualityMetrics {
	m := models.QualityMetrics{
		TotalContracts:        len(records),
		AverageResolutionTime: models.AverageResolutionTimeDays,
	}

	inconsistent := 0
	for _, c := range records {
		if isInconsistent(c) {
			inconsistent++
		}
		if isCritical(c) {
			m.CriticalContracts++
		}
		if isHighRisk(c) {
			m.HighRiskContracts++
			m.TotalFinancialExposure += models.Amount(c.Value)
		}
		m.ProjectedPenalties += models.Amount(c.Penalty)

		if c.ExpiryDate != nil {
			switch days := daysUntil(*c.ExpiryDate, now); {
			case days <= 0:
			case days <= 30:
				m.ContractsExpiring30Days++
			case days <= 60:
				m.ContractsExpiring60Days++
			case days <= 90:
				m.ContractsExpiring90Days++
			}
		}

		if isAutoRenewed(c) {
			m.AutoRenewedContracts++
		}
	}

	m.InconsistencyRate = percentage(inconsistent, m.TotalContracts)
	m.HighRiskPercentage = percentage(m.HighRiskContracts, m.TotalContracts)
	return m
}
