package quality

import (
	"time"

	"github.com/guttosm/contractpulse/internal/domain/models"
)

// Inconsistency taxonomy, in reporting order.
const (
	InconsistencyDeadline      = "Prazo"
	InconsistencyPenalty       = "Multa"
	InconsistencyValue         = "Valor"
	InconsistencySupplier      = "Fornecedor"
	InconsistencyMissingClause = "Cláusula Ausente"
)

// inconsistencyRule tags a contract with one taxonomy bucket. A contract may
// match several rules.
type inconsistencyRule struct {
	name    string
	matches func(c models.Contract, now time.Time) bool
}

var inconsistencyRules = []inconsistencyRule{
	{
		name: InconsistencyDeadline,
		matches: isPastDeadline,
	},
	{
		name: InconsistencyPenalty,
		matches: func(c models.Contract, _ time.Time) bool {
			return models.Amount(c.Penalty) == 0 && isHighRisk(c)
		},
	},
	{
		name: InconsistencyValue,
		matches: func(c models.Contract, _ time.Time) bool {
			return c.Value == nil || *c.Value <= 0
		},
	},
	{
		name: InconsistencySupplier,
		matches: func(c models.Contract, _ time.Time) bool {
			return !hasText(c.Supplier)
		},
	},
	{
		name: InconsistencyMissingClause,
		matches: func(c models.Contract, _ time.Time) bool {
			return !hasText(c.RequestingArea) || !hasText(c.AlertType)
		},
	},
}

// ComputeInconsistencyDistribution counts inconsistencies per taxonomy bucket
// and per requesting area.
//
// ByType always carries the five buckets in taxonomy order. ByArea only lists
// areas with at least one flagged contract (alert type missing, ALTO risk or
// CRÍTICO status), in the order each area first appears. Percentages are
// relative to the whole snapshot.
func ComputeInconsistencyDistribution(records []models.Contract, now time.Time) models.InconsistencyDistribution {
	total := len(records)

	typeCounts := make([]int, len(inconsistencyRules))
	var areaOrder []string
	areaCounts := make(map[string]int)

	for _, c := range records {
		for i, rule := range inconsistencyRules {
			if rule.matches(c, now) {
				typeCounts[i]++
			}
		}

		area, ok := models.Text(c.RequestingArea)
		if !ok {
			continue
		}
		if !hasText(c.AlertType) || isHighRisk(c) || hasCriticalStatus(c) {
			if _, seen := areaCounts[area]; !seen {
				areaOrder = append(areaOrder, area)
			}
			areaCounts[area]++
		}
	}

	out := models.InconsistencyDistribution{
		ByType: make([]models.InconsistencyByType, 0, len(inconsistencyRules)),
		ByArea: make([]models.InconsistencyByArea, 0, len(areaOrder)),
	}
	for i, rule := range inconsistencyRules {
		out.ByType = append(out.ByType, models.InconsistencyByType{
			Type:       rule.name,
			Count:      typeCounts[i],
			Percentage: percentage(typeCounts[i], total),
		})
	}
	for _, area := range areaOrder {
		out.ByArea = append(out.ByArea, models.InconsistencyByArea{
			Area:       area,
			Count:      areaCounts[area],
			Percentage: percentage(areaCounts[area], total),
		})
	}
	return out
}
