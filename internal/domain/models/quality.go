package models

// AverageResolutionTimeDays is reported as the average resolution time until a
// resolution history source exists.
const AverageResolutionTimeDays = 15

// QualityMetrics is the overview computed over the whole contract set.
//
// swagger:model QualityMetrics
type QualityMetrics struct {
	TotalContracts          int     `json:"totalContracts" example:"245"`
	InconsistencyRate       float64 `json:"inconsistencyRate" example:"18.5"`
	CriticalContracts       int     `json:"criticalContracts" example:"12"`
	AverageResolutionTime   int     `json:"averageResolutionTime" example:"15"`
	TotalFinancialExposure  float64 `json:"totalFinancialExposure" example:"2500000"`
	ProjectedPenalties      float64 `json:"projectedPenalties" example:"125000"`
	ContractsExpiring30Days int     `json:"contractsExpiring30Days" example:"28"`
	ContractsExpiring60Days int     `json:"contractsExpiring60Days" example:"45"`
	ContractsExpiring90Days int     `json:"contractsExpiring90Days" example:"32"`
	AutoRenewedContracts    int     `json:"autoRenewedContracts" example:"8"`
	HighRiskContracts       int     `json:"highRiskContracts" example:"18"`
	HighRiskPercentage      float64 `json:"highRiskPercentage" example:"7.3"`
}

// InconsistencyByType is one bucket of the fixed inconsistency taxonomy.
type InconsistencyByType struct {
	Type       string  `json:"type" example:"Prazo"`
	Count      int     `json:"count" example:"15"`
	Percentage float64 `json:"percentage" example:"25"`
}

// InconsistencyByArea counts inconsistent contracts of one requesting area.
type InconsistencyByArea struct {
	Area       string  `json:"area" example:"Engenharia"`
	Count      int     `json:"count" example:"18"`
	Percentage float64 `json:"percentage" example:"30"`
}

// InconsistencyDistribution groups inconsistencies by type and by area.
//
// swagger:model InconsistencyDistribution
type InconsistencyDistribution struct {
	ByType []InconsistencyByType `json:"byType"`
	ByArea []InconsistencyByArea `json:"byArea"`
}

// SupplierRanking is one entry of the problematic supplier ranking.
//
// swagger:model SupplierRanking
type SupplierRanking struct {
	Supplier        string  `json:"supplier" example:"Fornecedor A"`
	Inconsistencies int     `json:"inconsistencies" example:"8"`
	RiskScore       float64 `json:"riskScore" example:"8.5"`
	TotalValue      float64 `json:"totalValue" example:"1200000"`
}

// ContractRisk aggregates contracts sharing a contract type and risk level.
//
// swagger:model ContractRisk
type ContractRisk struct {
	ContractType    string  `json:"contractType" example:"Serviços"`
	RiskLevel       string  `json:"riskLevel" example:"ALTO"`
	Count           int     `json:"count" example:"4"`
	FinancialImpact float64 `json:"financialImpact" example:"3400000"`
}

// Indicators are ratios derived from QualityMetrics for the dashboard cards.
type Indicators struct {
	ComplianceRate          float64 `json:"complianceRate" example:"81.5"`
	TotalFinancialImpact    float64 `json:"totalFinancialImpact" example:"2625000"`
	PenaltyExposureRatio    float64 `json:"penaltyExposureRatio" example:"5"`
	CriticalShare           float64 `json:"criticalShare" example:"4.9"`
	Expiring30DaysShare     float64 `json:"expiring30DaysShare" example:"11.4"`
	InconsistencyAboveGoal  bool    `json:"inconsistencyAboveGoal" example:"false"`
	InconsistencyGoalTarget float64 `json:"inconsistencyGoalTarget" example:"25"`
}

// Alert severities.
const (
	SeverityUrgent   = "urgent"
	SeverityReview   = "review"
	SeverityCritical = "critical"
)

// Alert is a dashboard call to action raised when a metric crosses its threshold.
type Alert struct {
	Code     string  `json:"code" example:"contracts_expiring_30d"`
	Severity string  `json:"severity" example:"urgent"`
	Message  string  `json:"message" example:"28 contratos vencendo em 30 dias"`
	Value    float64 `json:"value" example:"28"`
}

// Dashboard bundles every quality view computed from a single snapshot.
//
// swagger:model Dashboard
type Dashboard struct {
	Overview      QualityMetrics            `json:"overview"`
	Indicators    Indicators                `json:"indicators"`
	Distribution  InconsistencyDistribution `json:"distribution"`
	Suppliers     []SupplierRanking         `json:"suppliers"`
	RiskBreakdown []ContractRisk            `json:"riskBreakdown"`
	Alerts        []Alert                   `json:"alerts"`
}
