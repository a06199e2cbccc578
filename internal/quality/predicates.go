package quality

import (
	"math"
	"time"

	"github.com/guttosm/contractpulse/internal/domain/models"
)

const (
	hoursPerDay        = 24
	riskScoreDivisor   = 1_000_000
	maxRankedSuppliers = 10
)

// percentage returns part/total as a percentage, or 0 when total is 0.
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func hasText(s *string) bool {
	_, ok := models.Text(s)
	return ok
}

func textEquals(s *string, want string) bool {
	v, ok := models.Text(s)
	return ok && v == want
}

func isHighRisk(c models.Contract) bool { return textEquals(c.Risk, models.RiskHigh) }

func hasCriticalStatus(c models.Contract) bool { return textEquals(c.Status, models.StatusCritical) }

func hasCriticalAlert(c models.Contract) bool { return textEquals(c.AlertType, models.AlertCritical) }

// isInconsistent flags a contract with a missing mandatory column or a
// critical/high-risk marker.
func isInconsistent(c models.Contract) bool {
	return !hasText(c.RequestingArea) ||
		!hasText(c.AlertType) ||
		isHighRisk(c) ||
		hasCriticalStatus(c) ||
		hasCriticalAlert(c)
}

// isCritical is counted independently from isInconsistent; both may hold.
func isCritical(c models.Contract) bool {
	return isHighRisk(c) || hasCriticalAlert(c) || hasCriticalStatus(c)
}

// isAutoRenewed approximates "renewed without a documented review": the
// contract is RENOVADO and has no signature date. An unparseable signature
// date still counts as present.
func isAutoRenewed(c models.Contract) bool {
	return textEquals(c.Status, models.StatusRenewed) && c.SignatureDate == nil && !c.InvalidSignatureDate
}

// isPastDeadline holds for a missing expiry date or one before now. An
// unparseable expiry date is neither.
func isPastDeadline(c models.Contract, now time.Time) bool {
	if c.ExpiryDate == nil {
		return !c.InvalidExpiryDate
	}
	return c.ExpiryDate.Before(now)
}

// daysUntil returns the whole number of days (rounded up) from now to t.
func daysUntil(t, now time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / hoursPerDay))
}
