package quality

import (
	"sort"

	"github.com/guttosm/contractpulse/internal/domain/models"
)

// supplierWeight returns the weighted inconsistency increment of one contract.
func supplierWeight(c models.Contract) int {
	w := 0
	if !hasText(c.AlertType) {
		w++
	}
	if isHighRisk(c) {
		w += 2
	}
	if hasCriticalStatus(c) {
		w += 2
	}
	if !hasText(c.RequestingArea) {
		w++
	}
	return w
}

// ComputeSupplierRanking ranks suppliers by value-weighted inconsistency.
//
// Behavior:
//   - Contracts without a supplier are ignored.
//   - Each contract adds its weighted increment to the supplier's
//     inconsistency count, its value to the total value, and
//     increment*value/1,000,000 to the risk score.
//   - Suppliers are sorted by risk score descending (ties keep first-seen
//     order) and truncated to the top 10.
func ComputeSupplierRanking(records []models.Contract) []models.SupplierRanking {
	index := make(map[string]int)
	ranking := make([]models.SupplierRanking, 0)

	for _, c := range records {
		supplier, ok := models.Text(c.Supplier)
		if !ok {
			continue
		}
		i, seen := index[supplier]
		if !seen {
			i = len(ranking)
			index[supplier] = i
			ranking = append(ranking, models.SupplierRanking{Supplier: supplier})
		}

		weight := supplierWeight(c)
		value := models.Amount(c.Value)
		ranking[i].Inconsistencies += weight
		ranking[i].TotalValue += value
		ranking[i].RiskScore += float64(weight) * value / riskScoreDivisor
	}

	sort.SliceStable(ranking, func(a, b int) bool {
		return ranking[a].RiskScore > ranking[b].RiskScore
	})
	if len(ranking) > maxRankedSuppliers {
		ranking = ranking[:maxRankedSuppliers]
	}
	return ranking
}

// ComputeContractRiskBreakdown groups contracts by contract type and risk
// level and sorts the groups by financial impact, highest first.
//
// Missing types are reported as "Não Definido" and missing risk levels as
// "BAIXO". Groups are laid out by first-seen contract type, then first-seen
// risk level within the type; the stable sort keeps that order on ties.
func ComputeContractRiskBreakdown(records []models.Contract) []models.ContractRisk {
	type group struct {
		risks []string
		index map[string]int
	}

	var typeOrder []string
	groups := make(map[string]*group)
	var cells []models.ContractRisk

	for _, c := range records {
		contractType, ok := models.Text(c.ContractType)
		if !ok {
			contractType = models.UndefinedContractType
		}
		risk, ok := models.Text(c.Risk)
		if !ok {
			risk = models.RiskLow
		}

		g, seen := groups[contractType]
		if !seen {
			g = &group{index: make(map[string]int)}
			groups[contractType] = g
			typeOrder = append(typeOrder, contractType)
		}
		i, seen := g.index[risk]
		if !seen {
			i = len(cells)
			g.index[risk] = i
			g.risks = append(g.risks, risk)
			cells = append(cells, models.ContractRisk{ContractType: contractType, RiskLevel: risk})
		}
		cells[i].Count++
		cells[i].FinancialImpact += models.Amount(c.Value)
	}

	out := make([]models.ContractRisk, 0, len(cells))
	for _, t := range typeOrder {
		g := groups[t]
		for _, r := range g.risks {
			out = append(out, cells[g.index[r]])
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].FinancialImpact > out[b].FinancialImpact
	})
	return out
}
